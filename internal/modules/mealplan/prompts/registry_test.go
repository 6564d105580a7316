package prompts

import (
	"strings"
	"testing"
)

func buildMealPlanPrompt(t *testing.T, in Input) Prompt {
	t.Helper()
	RegisterAll()
	p, err := Build(PromptMealPlan, in)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p
}

func TestBuildMealPlanPrompt(t *testing.T) {
	in := Input{
		DietType:       "vegetarian",
		DailyBudget:    "INR 300",
		Duration:       3,
		MealsPerDay:    3,
		TargetCalories: 2000,
		ContextBlock:   "=== REGIONAL MEAL TEMPLATES ===\nMillet dosa with sambar",
		CuisineCSV:     "punjabi, gujarati",
		JSONExample:    JSONExample,
	}
	in.CuisineRules = CuisineRules([]string{"punjabi", "gujarati"}, 3)
	in.ExcludedCuisines = strings.Join(ExcludedCuisines([]string{"punjabi", "gujarati"}), ", ")

	p := buildMealPlanPrompt(t, in)
	if p.SchemaName != "meal_plan" {
		t.Fatalf("want schema name meal_plan, got %q", p.SchemaName)
	}
	if p.Schema == nil {
		t.Fatalf("want a structured-output schema")
	}
	for _, want := range []string{
		"3-day meal plan",
		"3 meals per day",
		"vegetarian",
		"Millet dosa with sambar",
		"CUISINE DISTRIBUTION RULES",
		"Avoid dishes strongly associated",
		`"dayNumber"`,
	} {
		if !strings.Contains(p.User, want) {
			t.Fatalf("user prompt missing %q:\n%s", want, p.User)
		}
	}
}

func TestBuildMealPlanPromptSingleCuisineOmitsRules(t *testing.T) {
	in := Input{
		DietType:       "vegan",
		DailyBudget:    "not specified",
		Duration:       2,
		MealsPerDay:    2,
		TargetCalories: 2000,
		ContextBlock:   "guidance",
		CuisineCSV:     "kerala",
		JSONExample:    JSONExample,
	}
	p := buildMealPlanPrompt(t, in)
	if strings.Contains(p.User, "CUISINE DISTRIBUTION RULES") {
		t.Fatalf("single-cuisine prompt must not carry distribution rules")
	}
	if strings.Contains(p.User, "Avoid dishes strongly associated") {
		t.Fatalf("single-cuisine prompt must not carry exclusions")
	}
}

func TestBuildRejectsInvalidInput(t *testing.T) {
	RegisterAll()
	if _, err := Build(PromptMealPlan, Input{Duration: 0, MealsPerDay: 3}); err == nil {
		t.Fatalf("want validator error for zero duration")
	}
	if _, err := Build(PromptName("missing"), Input{}); err == nil {
		t.Fatalf("want error for unknown prompt")
	}
}

func TestFingerprintStability(t *testing.T) {
	RegisterAll()
	in := Input{Duration: 2, MealsPerDay: 3, TargetCalories: 2000, ContextBlock: "c", JSONExample: JSONExample}
	a, err := Build(PromptMealPlan, in)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := Build(PromptMealPlan, in)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("same input produced different fingerprints")
	}
	in.Duration = 3
	c, err := Build(PromptMealPlan, in)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("different input produced identical fingerprints")
	}
}
