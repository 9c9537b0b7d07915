package catalog

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/metalagman/fitgenius/internal/flow"
	"github.com/metalagman/fitgenius/internal/model"
	"github.com/metalagman/fitgenius/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu       sync.Mutex
	requests []model.Request
	reply    schema.Value
	err      error
}

func (r *recorder) Invoke(_ context.Context, req model.Request) (schema.Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
	return r.reply, r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func newCatalog(t *testing.T, r *recorder) *Catalog {
	t.Helper()
	c, err := New(r)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	assert.Error(t, err)

	c := newCatalog(t, &recorder{})
	assert.Equal(t, []string{
		"fitnessChatbot",
		"generateMacroRecommendations",
		"generateWorkoutPlan",
		"identifyEquipment",
		"suggestMeals",
	}, c.Names())
	assert.Len(t, c.Definitions(), 5)
}

func TestGet_Unknown(t *testing.T) {
	t.Parallel()

	c := newCatalog(t, &recorder{})
	_, err := c.Get("planRecovery")
	assert.ErrorIs(t, err, ErrUnknownFlow)

	_, err = c.Execute(context.Background(), "planRecovery", schema.Value{})
	assert.ErrorIs(t, err, ErrUnknownFlow)
}

func TestSuggestMeals_Scenario(t *testing.T) {
	t.Parallel()

	r := &recorder{reply: schema.Value{"mealSuggestions": []any{"Lentil stew", "Tofu stir-fry"}}}
	c := newCatalog(t, r)

	out, err := c.Execute(context.Background(), SuggestMealsFlow, schema.Value{
		"dietaryPreferences": "vegetarian",
		"caloricNeeds":       2000,
		"macroGoals":         "high protein",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Lentil stew", "Tofu stir-fry"}, out["mealSuggestions"])

	require.Equal(t, 1, r.count())
	text := r.requests[0].Prompt.Text
	assert.Contains(t, text, "Dietary Preferences: vegetarian")
	assert.Contains(t, text, "Caloric Needs: 2000")
	assert.Contains(t, text, "Macro Goals: high protein")
	assert.NotContains(t, text, "{{")
}

func TestMacroRecommendations_EmptyInput(t *testing.T) {
	t.Parallel()

	r := &recorder{}
	c := newCatalog(t, r)

	_, err := c.Execute(context.Background(), GenerateMacroRecommendationsFlow, schema.Value{
		"bodyComposition": "",
		"activityLevel":   "",
		"fitnessGoals":    "",
	})
	require.ErrorIs(t, err, flow.ErrInvalidInput)
	fe, ok := flow.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "bodyComposition", fe.Field)
	assert.Equal(t, 0, r.count())
}

func TestMacroRecommendations_UnicodeBlankInput(t *testing.T) {
	t.Parallel()

	r := &recorder{}
	c := newCatalog(t, r)

	_, err := c.Execute(context.Background(), GenerateMacroRecommendationsFlow, schema.Value{
		"bodyComposition": "\u00a0",
		"activityLevel":   "moderate",
		"fitnessGoals":    "recomp",
	})
	fe, ok := flow.AsError(err)
	require.True(t, ok, "error = %v", err)
	assert.Equal(t, flow.InvalidInput, fe.Kind)
	assert.Equal(t, "bodyComposition", fe.Field)
	assert.Equal(t, schema.ReasonEmpty, fe.Reason)
	assert.Equal(t, 0, r.count())
}

func TestMacroRecommendations_PartialOutput(t *testing.T) {
	t.Parallel()

	r := &recorder{reply: schema.Value{"protein": "30g"}}
	c := newCatalog(t, r)

	out, err := c.Execute(context.Background(), GenerateMacroRecommendationsFlow, schema.Value{
		"bodyComposition": "80kg, 180cm, 30y, male, 18% body fat",
		"activityLevel":   "moderately active",
		"fitnessGoals":    "fat loss",
	})
	assert.Nil(t, out)
	require.ErrorIs(t, err, flow.ErrInvalidOutput)
	fe, ok := flow.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "carbs", fe.Field)
	assert.Equal(t, schema.ReasonMissing, fe.Reason)
}

func TestFitnessChatbot_OptionalFieldsRenderEmpty(t *testing.T) {
	t.Parallel()

	r := &recorder{reply: schema.Value{"response": "Aim for two rest days."}}
	c := newCatalog(t, r)

	out, err := c.FitnessChatbot(context.Background(), FitnessChatbotInput{Query: "How many rest days?"})
	require.NoError(t, err)
	assert.Equal(t, "Aim for two rest days.", out.Response)

	text := r.requests[0].Prompt.Text
	assert.Contains(t, text, "Personal Settings: \n")
	assert.Contains(t, text, "Past Interactions: \n")
	assert.True(t, strings.HasSuffix(text, "User Query: How many rest days?"))
}

func TestTypedWrappers(t *testing.T) {
	t.Parallel()

	r := &recorder{reply: schema.Value{"mealSuggestions": []string{"Oats"}}}
	c := newCatalog(t, r)
	meals, err := c.SuggestMeals(context.Background(), SuggestMealsInput{
		DietaryPreferences: "vegan",
		CaloricNeeds:       1800.5,
		MacroGoals:         "low carb",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Oats"}, meals.MealSuggestions)
	assert.Contains(t, r.requests[0].Prompt.Text, "Caloric Needs: 1800.5")

	r = &recorder{reply: schema.Value{
		"protein": "160g", "carbs": "220g", "fats": "70g", "calories": "2200", "notes": "Hydrate.",
	}}
	c = newCatalog(t, r)
	macros, err := c.GenerateMacroRecommendations(context.Background(), MacroRecommendationsInput{
		BodyComposition: "75kg",
		ActivityLevel:   "very active",
		FitnessGoals:    "muscle growth",
	})
	require.NoError(t, err)
	assert.Equal(t, MacroRecommendationsOutput{
		Protein: "160g", Carbs: "220g", Fats: "70g", Calories: "2200", Notes: "Hydrate.",
	}, macros)

	r = &recorder{reply: schema.Value{"workoutPlan": "Day 1: squats"}}
	c = newCatalog(t, r)
	plan, err := c.GenerateWorkoutPlan(context.Background(), GenerateWorkoutPlanInput{
		FitnessGoals:       "strength",
		ExperienceLevel:    "beginner",
		AvailableEquipment: "barbell",
		WorkoutDuration:    "45 minutes",
		WorkoutFrequency:   "3 days",
	})
	require.NoError(t, err)
	assert.Equal(t, "Day 1: squats", plan.WorkoutPlan)

	_, err = c.GenerateWorkoutPlan(context.Background(), GenerateWorkoutPlanInput{FitnessGoals: "strength"})
	assert.ErrorIs(t, err, flow.ErrInvalidInput)
}

func TestIdentifyEquipment(t *testing.T) {
	t.Parallel()

	r := &recorder{reply: schema.Value{"name": "Kettlebell", "tutorial": "Hinge at the hips."}}
	c := newCatalog(t, r)

	out, err := c.IdentifyEquipment(context.Background(), IdentifyEquipmentInput{
		PhotoDataURI: "data:image/jpeg;base64,/9j/4AAQ",
	})
	require.NoError(t, err)
	assert.Equal(t, IdentifyEquipmentOutput{Name: "Kettlebell", Tutorial: "Hinge at the hips."}, out)

	require.Len(t, r.requests[0].Prompt.Media, 1)
	assert.Equal(t, "image/jpeg", r.requests[0].Prompt.Media[0].ContentType)

	_, err = c.IdentifyEquipment(context.Background(), IdentifyEquipmentInput{PhotoDataURI: "a photo"})
	require.ErrorIs(t, err, flow.ErrInvalidInput)
	fe, _ := flow.AsError(err)
	assert.Equal(t, schema.ReasonInvalidFormat, fe.Reason)
	assert.Equal(t, 1, r.count())
}

func TestExecute_Idempotent(t *testing.T) {
	t.Parallel()

	r := &recorder{reply: schema.Value{"workoutPlan": "Full body x3"}}
	c := newCatalog(t, r)
	in := schema.Value{
		"fitnessGoals":       "general fitness",
		"experienceLevel":    "intermediate",
		"availableEquipment": "none",
		"workoutDuration":    "30 minutes",
		"workoutFrequency":   "3 days",
	}

	first, err := c.Execute(context.Background(), GenerateWorkoutPlanFlow, in)
	require.NoError(t, err)
	second, err := c.Execute(context.Background(), GenerateWorkoutPlanFlow, in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, r.requests[0], r.requests[1])
}

func TestBatch(t *testing.T) {
	t.Parallel()

	r := &recorder{reply: schema.Value{"response": "ok"}}
	c := newCatalog(t, r)

	results := c.Batch(context.Background(), []Job{
		{Flow: FitnessChatbotFlow, Input: schema.Value{"query": "q1"}},
		{Flow: "nope", Input: schema.Value{}},
		{Flow: FitnessChatbotFlow, Input: schema.Value{"query": "q2"}},
	}, 2)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, ErrUnknownFlow)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 2, r.count())
}
