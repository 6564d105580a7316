package prompts

import (
	"fmt"
	"sync"
)

var registerOnce sync.Once

// RegisterAll registers every prompt spec. Safe to call more than once.
func RegisterAll() {
	registerOnce.Do(func() {
		RegisterSpec(mealPlanSpec())
		RegisterSpec(healthChatSpec())
	})
}

func mealPlanSpec() Spec {
	return Spec{
		Name:       PromptMealPlan,
		Version:    3,
		SchemaName: "meal_plan",
		Schema:     MealPlanSchema,
		System: `You are a clinical nutrition assistant specialized in PCOS-friendly Indian meal planning.
You design practical, affordable meal plans grounded in the reference guidance provided.
You respond with JSON only, exactly matching the requested shape. No prose, no markdown fences.`,
		User: `Create a {{.Duration}}-day meal plan with {{.MealsPerDay}} meals per day.

USER PROFILE:
- Diet type: {{.DietType}}
{{.RestrictionLines}}- Daily budget: {{.DailyBudget}}
{{if .Region}}- Region: {{.Region}}
{{end}}{{if .CuisineCSV}}- Cuisines: {{.CuisineCSV}}
{{end}}
REFERENCE GUIDANCE:
{{.ContextBlock}}

{{if .CuisineRules}}{{.CuisineRules}}
{{if .ExcludedCuisines}}Avoid dishes strongly associated with these cuisines: {{.ExcludedCuisines}}.
{{end}}{{end}}NUTRITION TARGETS (per day):
- Roughly {{.TargetCalories}} kcal total
- 25-30% protein, 40-45% low-GI carbohydrates, 25-30% healthy fats
- 25-30 g fiber
- Prefer Low glycemic index meals

OUTPUT FORMAT:
Return JSON exactly in this shape (field names matter):
{{.JSONExample}}

Every day must have exactly {{.MealsPerDay}} meals. Use mealType values breakfast, lunch, dinner, snack.`,
		Validators: []Validator{
			func(in Input) error {
				if in.Duration <= 0 {
					return fmt.Errorf("duration must be positive")
				}
				if in.MealsPerDay <= 0 {
					return fmt.Errorf("mealsPerDay must be positive")
				}
				return nil
			},
		},
	}
}

func healthChatSpec() Spec {
	return Spec{
		Name:       PromptHealthChat,
		Version:    1,
		SchemaName: "chat_reply",
		Schema:     ChatReplySchema,
		System: `You are Sakhi, a supportive women's-health assistant focused on PCOS nutrition and lifestyle.
Answer briefly and practically, grounded in the reference guidance when it is relevant.
Never diagnose; suggest consulting a doctor for medical decisions.`,
		User: `{{if .GuidanceBlock}}REFERENCE GUIDANCE:
{{.GuidanceBlock}}

{{end}}USER MESSAGE:
{{.Message}}`,
	}
}
