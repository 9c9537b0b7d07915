package catalog

import (
	"github.com/metalagman/fitgenius/internal/flow"
	"github.com/metalagman/fitgenius/internal/model"
	"github.com/metalagman/fitgenius/internal/schema"
)

// Flow names.
const (
	FitnessChatbotFlow               = "fitnessChatbot"
	GenerateWorkoutPlanFlow          = "generateWorkoutPlan"
	SuggestMealsFlow                 = "suggestMeals"
	GenerateMacroRecommendationsFlow = "generateMacroRecommendations"
	IdentifyEquipmentFlow            = "identifyEquipment"
)

const fitnessChatbotTemplate = `You are a fitness chatbot providing real-time, personalized advice to users.

Your responses should be concise and helpful, and tailored to the user's specific circumstances.

Consider the following information when formulating your response:

Personal Settings: {{{personalSettings}}}
Past Interactions: {{{pastInteractions}}}

User Query: {{{query}}}`

const workoutPlanTemplate = `You are an expert fitness coach specializing in creating personalized workout plans.

You will use the information provided by the user to generate a workout plan tailored to their specific needs and goals.

Consider the user's fitness goals, experience level, available equipment, workout duration, and workout frequency when creating the plan.

Fitness Goals: {{{fitnessGoals}}}
Experience Level: {{{experienceLevel}}}
Available Equipment: {{{availableEquipment}}}
Workout Duration: {{{workoutDuration}}}
Workout Frequency: {{{workoutFrequency}}}

Generate a detailed workout plan that the user can follow.
`

const suggestMealsTemplate = `You are a nutritionist providing meal suggestions based on user preferences and goals.

Provide a list of meal suggestions tailored to the user's dietary preferences, caloric needs, and macro goals.

Dietary Preferences: {{{dietaryPreferences}}}
Caloric Needs: {{{caloricNeeds}}}
Macro Goals: {{{macroGoals}}}

Meal Suggestions:`

const macroRecommendationsTemplate = `You are a nutrition and fitness expert. Based on the user's body composition, activity level, and fitness goals, provide personalized macro recommendations (protein, carbs, fats) and calorie recommendations.

Body Composition: {{{bodyComposition}}}
Activity Level: {{{activityLevel}}}
Fitness Goals: {{{fitnessGoals}}}

Follow the output schema to return the values.
Provide the macro recommendations in grams.
Include any additional notes and considerations for the user regarding their macro recommendations.`

const identifyEquipmentTemplate = `You are an experienced personal trainer. Identify the piece of gym equipment shown in the photo.

Return the common name of the equipment and a short tutorial explaining how to set it up and use it safely with correct form.

Photo: {{media url=photoDataUri}}`

func definitions(inv model.Invoker) ([]flow.Params, error) {
	chatIn, err := schema.New(
		schema.String("query", "The user query about fitness.").NotEmpty(),
		schema.String("personalSettings", "User personal settings like age, weight, height, gender, activity level, fitness goals.").Optional(),
		schema.String("pastInteractions", "Summary of past interactions with the chatbot.").Optional(),
	)
	if err != nil {
		return nil, err
	}
	chatOut, err := schema.New(
		schema.String("response", "The response from the fitness chatbot."),
	)
	if err != nil {
		return nil, err
	}

	workoutIn, err := schema.New(
		schema.String("fitnessGoals", "The fitness goals of the user (e.g., weight loss, muscle gain, general fitness).").NotEmpty(),
		schema.String("experienceLevel", "The experience level of the user (e.g., beginner, intermediate, advanced).").NotEmpty(),
		schema.String("availableEquipment", "The equipment available to the user (e.g., dumbbells, barbell, gym access, none).").NotEmpty(),
		schema.String("workoutDuration", "The duration of each workout session in minutes (e.g., 30 minutes, 45 minutes, 1 hour).").NotEmpty(),
		schema.String("workoutFrequency", "How many days per week the user can workout (e.g., 3 days, 4 days, 5 days).").NotEmpty(),
	)
	if err != nil {
		return nil, err
	}
	workoutOut, err := schema.New(
		schema.String("workoutPlan", "The generated workout plan as a string."),
	)
	if err != nil {
		return nil, err
	}

	mealsIn, err := schema.New(
		schema.String("dietaryPreferences", "The dietary preferences of the user (e.g., vegetarian, vegan, gluten-free)."),
		schema.Number("caloricNeeds", "The daily caloric needs of the user."),
		schema.String("macroGoals", "The macro goals of the user (e.g., high protein, low carb)."),
	)
	if err != nil {
		return nil, err
	}
	mealsOut, err := schema.New(
		schema.Strings("mealSuggestions", "An array of meal suggestions tailored to the user."),
	)
	if err != nil {
		return nil, err
	}

	macrosIn, err := schema.New(
		schema.String("bodyComposition", "User body composition details including weight, height, age, gender, and body fat percentage.").NotEmpty(),
		schema.String("activityLevel", "The activity level of the user including sedentary, lightly active, moderately active, very active, or extra active.").NotEmpty(),
		schema.String("fitnessGoals", "The fitness goals of the user including muscle growth, fat loss, or overall health.").NotEmpty(),
	)
	if err != nil {
		return nil, err
	}
	macrosOut, err := schema.New(
		schema.String("protein", "Recommended daily protein intake in grams."),
		schema.String("carbs", "Recommended daily carbohydrate intake in grams."),
		schema.String("fats", "Recommended daily fat intake in grams."),
		schema.String("calories", "Recommended daily calorie intake."),
		schema.String("notes", "Additional notes and considerations for the user regarding their macro recommendations."),
	)
	if err != nil {
		return nil, err
	}

	equipmentIn, err := schema.New(
		schema.String("photoDataUri", "A photo of gym equipment, as a data URI with a MIME type and base64 encoding.").WithFormat(schema.FormatDataURI),
	)
	if err != nil {
		return nil, err
	}
	equipmentOut, err := schema.New(
		schema.String("name", "The name of the identified equipment."),
		schema.String("tutorial", "A short tutorial on how to use the equipment."),
	)
	if err != nil {
		return nil, err
	}

	return []flow.Params{
		{
			Name:        FitnessChatbotFlow,
			Description: "Personalized real-time fitness advice.",
			Input:       chatIn,
			Output:      chatOut,
			Template:    fitnessChatbotTemplate,
			Invoker:     inv,
		},
		{
			Name:        GenerateWorkoutPlanFlow,
			Description: "Workout plan tailored to goals, experience and equipment.",
			Input:       workoutIn,
			Output:      workoutOut,
			Template:    workoutPlanTemplate,
			Invoker:     inv,
		},
		{
			Name:        SuggestMealsFlow,
			Description: "Meal suggestions for dietary preferences, calories and macro goals.",
			Input:       mealsIn,
			Output:      mealsOut,
			Template:    suggestMealsTemplate,
			Invoker:     inv,
		},
		{
			Name:        GenerateMacroRecommendationsFlow,
			Description: "Daily macro and calorie recommendations.",
			Input:       macrosIn,
			Output:      macrosOut,
			Template:    macroRecommendationsTemplate,
			Invoker:     inv,
		},
		{
			Name:        IdentifyEquipmentFlow,
			Description: "Identify gym equipment from a photo and explain how to use it.",
			Input:       equipmentIn,
			Output:      equipmentOut,
			Template:    identifyEquipmentTemplate,
			Invoker:     inv,
		},
	}, nil
}
