package catalog

import (
	"context"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/metalagman/fitgenius/internal/schema"
)

// FitnessChatbotInput is the input of the fitnessChatbot flow.
type FitnessChatbotInput struct {
	Query            string `mapstructure:"query"`
	PersonalSettings string `mapstructure:"personalSettings,omitempty"`
	PastInteractions string `mapstructure:"pastInteractions,omitempty"`
}

// FitnessChatbotOutput is the coach's answer.
type FitnessChatbotOutput struct {
	Response string `mapstructure:"response"`
}

// GenerateWorkoutPlanInput is the input of the generateWorkoutPlan flow.
type GenerateWorkoutPlanInput struct {
	FitnessGoals       string `mapstructure:"fitnessGoals"`
	ExperienceLevel    string `mapstructure:"experienceLevel"`
	AvailableEquipment string `mapstructure:"availableEquipment"`
	WorkoutDuration    string `mapstructure:"workoutDuration"`
	WorkoutFrequency   string `mapstructure:"workoutFrequency"`
}

// GenerateWorkoutPlanOutput holds the generated plan.
type GenerateWorkoutPlanOutput struct {
	WorkoutPlan string `mapstructure:"workoutPlan"`
}

// SuggestMealsInput is the input of the suggestMeals flow.
type SuggestMealsInput struct {
	DietaryPreferences string  `mapstructure:"dietaryPreferences"`
	CaloricNeeds       float64 `mapstructure:"caloricNeeds"`
	MacroGoals         string  `mapstructure:"macroGoals"`
}

// SuggestMealsOutput lists suggested meals.
type SuggestMealsOutput struct {
	MealSuggestions []string `mapstructure:"mealSuggestions"`
}

// MacroRecommendationsInput is the input of the generateMacroRecommendations flow.
type MacroRecommendationsInput struct {
	BodyComposition string `mapstructure:"bodyComposition"`
	ActivityLevel   string `mapstructure:"activityLevel"`
	FitnessGoals    string `mapstructure:"fitnessGoals"`
}

// MacroRecommendationsOutput holds daily macro targets.
type MacroRecommendationsOutput struct {
	Protein  string `mapstructure:"protein"`
	Carbs    string `mapstructure:"carbs"`
	Fats     string `mapstructure:"fats"`
	Calories string `mapstructure:"calories"`
	Notes    string `mapstructure:"notes"`
}

// IdentifyEquipmentInput carries a photo as a base64 data URI.
type IdentifyEquipmentInput struct {
	PhotoDataURI string `mapstructure:"photoDataUri"`
}

// IdentifyEquipmentOutput names the equipment and explains its use.
type IdentifyEquipmentOutput struct {
	Name     string `mapstructure:"name"`
	Tutorial string `mapstructure:"tutorial"`
}

// FitnessChatbot answers a fitness question.
func (c *Catalog) FitnessChatbot(ctx context.Context, in FitnessChatbotInput) (FitnessChatbotOutput, error) {
	return run[FitnessChatbotInput, FitnessChatbotOutput](ctx, c, FitnessChatbotFlow, in)
}

// GenerateWorkoutPlan builds a workout plan.
func (c *Catalog) GenerateWorkoutPlan(ctx context.Context, in GenerateWorkoutPlanInput) (GenerateWorkoutPlanOutput, error) {
	return run[GenerateWorkoutPlanInput, GenerateWorkoutPlanOutput](ctx, c, GenerateWorkoutPlanFlow, in)
}

// SuggestMeals proposes meals.
func (c *Catalog) SuggestMeals(ctx context.Context, in SuggestMealsInput) (SuggestMealsOutput, error) {
	return run[SuggestMealsInput, SuggestMealsOutput](ctx, c, SuggestMealsFlow, in)
}

// GenerateMacroRecommendations recommends daily macros and calories.
func (c *Catalog) GenerateMacroRecommendations(ctx context.Context, in MacroRecommendationsInput) (MacroRecommendationsOutput, error) {
	return run[MacroRecommendationsInput, MacroRecommendationsOutput](ctx, c, GenerateMacroRecommendationsFlow, in)
}

// IdentifyEquipment names the equipment in a photo.
func (c *Catalog) IdentifyEquipment(ctx context.Context, in IdentifyEquipmentInput) (IdentifyEquipmentOutput, error) {
	return run[IdentifyEquipmentInput, IdentifyEquipmentOutput](ctx, c, IdentifyEquipmentFlow, in)
}

func run[In, Out any](ctx context.Context, c *Catalog, name string, in In) (Out, error) {
	var out Out
	input := schema.Value{}
	if err := mapstructure.Decode(in, &input); err != nil {
		return out, fmt.Errorf("encode %s input: %w", name, err)
	}
	value, err := c.Execute(ctx, name, input)
	if err != nil {
		return out, err
	}
	if err := mapstructure.Decode(value, &out); err != nil {
		return out, fmt.Errorf("decode %s output: %w", name, err)
	}
	return out, nil
}
