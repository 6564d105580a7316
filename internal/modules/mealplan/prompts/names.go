package prompts

type PromptName string

const (
	// Meal-plan generation
	PromptMealPlan PromptName = "meal_plan"

	// Conversational advice
	PromptHealthChat PromptName = "health_chat"
)
