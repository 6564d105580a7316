package mealplan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sakhihealth/sakhi-backend/internal/domain"
	pkgerrors "github.com/sakhihealth/sakhi-backend/internal/pkg/errors"
	"github.com/sakhihealth/sakhi-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

// fakeRetriever serves canned documents and records every query it sees.
type fakeRetriever struct {
	docs    []domain.RetrievedDocument
	err     error
	queries []string
}

func (f *fakeRetriever) Retrieve(_ context.Context, query string, _ int) ([]domain.RetrievedDocument, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

// fakeLLM returns scripted responses per call, in order.
type fakeLLM struct {
	responses []any
	errs      []error
	calls     int
}

func (f *fakeLLM) Invoke(context.Context, string, string, InvokeOptions) (any, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return nil, errors.New("no scripted response")
}

// planJSON builds a well-formed plan payload for the given shape.
func planJSON(duration, mealsPerDay int) string {
	var b strings.Builder
	b.WriteString(`{"days":[`)
	for d := 1; d <= duration; d++ {
		if d > 1 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"dayNumber":%d,"meals":[`, d)
		for m := 0; m < mealsPerDay; m++ {
			if m > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, `{"name":"Meal %d-%d","mealType":"lunch","ingredients":[{"item":"dal","quantity":"1","unit":"cup"}],`+
				`"protein":25,"carbs":60,"fats":15,"fiber":8,"calories":475,"gi":"Low","time":"25 mins","tip":"Eat slowly.","recipe":"Cook."}`, d, m)
		}
		b.WriteString("]}")
	}
	b.WriteString("]}")
	return b.String()
}

func newTestGenerator(t *testing.T, cfg Config, ret Retriever, llm LLMClient) *Generator {
	t.Helper()
	gen, err := NewGenerator(testLogger(t), cfg, ret, llm)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return gen
}

func TestGenerateMealPlanRejectsBadInputs(t *testing.T) {
	gen := newTestGenerator(t, DefaultConfig(), &fakeRetriever{}, &fakeLLM{})

	tests := []struct {
		name  string
		prefs domain.UserPreferences
	}{
		{"zero duration", domain.UserPreferences{Duration: 0, MealsPerDay: 3}},
		{"negative duration", domain.UserPreferences{Duration: -2, MealsPerDay: 3}},
		{"too few meals", domain.UserPreferences{Duration: 3, MealsPerDay: 1}},
		{"too many meals", domain.UserPreferences{Duration: 3, MealsPerDay: 5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gen.GenerateMealPlan(context.Background(), tc.prefs, nil)
			if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
				t.Fatalf("want ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestGenerateMealPlanHappyPath(t *testing.T) {
	ret := &fakeRetriever{docs: []domain.RetrievedDocument{
		{Content: "Millet khichdi template"},
		{Content: "Low-GI guideline"},
	}}
	llm := &fakeLLM{responses: []any{planJSON(3, 3)}}
	gen := newTestGenerator(t, DefaultConfig(), ret, llm)

	prefs := domain.UserPreferences{
		Duration:    3,
		MealsPerDay: 3,
		DietType:    domain.DietVegetarian,
		Cuisines:    []string{"north-indian"},
	}
	plan, err := gen.GenerateMealPlan(context.Background(), prefs, nil)
	if err != nil {
		t.Fatalf("GenerateMealPlan: %v", err)
	}
	if len(plan.Days) != 3 {
		t.Fatalf("want 3 days, got %d", len(plan.Days))
	}
	if plan.Metadata.UsedFallback {
		t.Fatalf("fallback should not be used on a clean run")
	}
	for _, day := range plan.Days {
		if len(day.Meals) != 3 {
			t.Fatalf("day %d: want 3 meals, got %d", day.DayNumber, len(day.Meals))
		}
		for _, m := range day.Meals {
			if m.Calories != m.MacroCalories() {
				t.Fatalf("day %d meal %q: calories %v violate macro law (want %v)",
					day.DayNumber, m.Name, m.Calories, m.MacroCalories())
			}
		}
	}
}

func TestGenerateMealPlanLLMErrorFallsBack(t *testing.T) {
	ret := &fakeRetriever{docs: []domain.RetrievedDocument{{Content: "doc"}}}
	llm := &fakeLLM{errs: []error{errors.New("rate limited")}}
	cfg := DefaultConfig()
	gen := newTestGenerator(t, cfg, ret, llm)

	prefs := domain.UserPreferences{
		Duration:    3,
		MealsPerDay: 3,
		DietType:    domain.DietVegetarian,
	}
	plan, err := gen.GenerateMealPlan(context.Background(), prefs, nil)
	if err != nil {
		t.Fatalf("GenerateMealPlan should not fail on LLM errors, got %v", err)
	}
	if !plan.Metadata.UsedFallback {
		t.Fatalf("want UsedFallback=true")
	}
	if len(plan.Days) != 3 {
		t.Fatalf("want 3 fallback days, got %d", len(plan.Days))
	}
	for _, day := range plan.Days {
		if len(day.Meals) != 3 {
			t.Fatalf("day %d: want 3 meals, got %d", day.DayNumber, len(day.Meals))
		}
		if day.TotalCalories < cfg.TargetCalories-cfg.CalorieTolerance ||
			day.TotalCalories > cfg.TargetCalories+cfg.CalorieTolerance {
			t.Fatalf("day %d: total %v outside [%v,%v]",
				day.DayNumber, day.TotalCalories,
				cfg.TargetCalories-cfg.CalorieTolerance,
				cfg.TargetCalories+cfg.CalorieTolerance)
		}
		for _, m := range day.Meals {
			if m.Name == "" || m.MealType == "" {
				t.Fatalf("day %d: fallback meal missing name or type: %+v", day.DayNumber, m)
			}
			if m.Ingredients == nil {
				t.Fatalf("day %d meal %q: nil ingredients", day.DayNumber, m.Name)
			}
		}
	}
}

func TestGenerateMealPlanRetrievalErrorFallsBack(t *testing.T) {
	ret := &fakeRetriever{err: errors.New("index unavailable")}
	gen := newTestGenerator(t, DefaultConfig(), ret, &fakeLLM{responses: []any{planJSON(2, 3)}})

	plan, err := gen.GenerateMealPlan(context.Background(), domain.UserPreferences{Duration: 2, MealsPerDay: 3}, nil)
	if err != nil {
		t.Fatalf("GenerateMealPlan should not fail on retrieval errors, got %v", err)
	}
	if !plan.Metadata.UsedFallback {
		t.Fatalf("want UsedFallback=true after retrieval failure")
	}
	if len(plan.Days) != 2 {
		t.Fatalf("want 2 days, got %d", len(plan.Days))
	}
}

func TestGenerateMealPlanUnparseableOutputFallsBack(t *testing.T) {
	ret := &fakeRetriever{docs: []domain.RetrievedDocument{{Content: "doc"}}}
	llm := &fakeLLM{responses: []any{"I cannot produce a meal plan right now."}}
	gen := newTestGenerator(t, DefaultConfig(), ret, llm)

	plan, err := gen.GenerateMealPlan(context.Background(), domain.UserPreferences{Duration: 3, MealsPerDay: 2}, nil)
	if err != nil {
		t.Fatalf("GenerateMealPlan: %v", err)
	}
	if !plan.Metadata.UsedFallback {
		t.Fatalf("want UsedFallback=true for unparseable output")
	}
	for _, day := range plan.Days {
		if len(day.Meals) != 2 {
			t.Fatalf("day %d: want 2 meals, got %d", day.DayNumber, len(day.Meals))
		}
	}
}

func TestGenerateMealPlanDeduplicatesCuisines(t *testing.T) {
	ret := &fakeRetriever{docs: []domain.RetrievedDocument{{Content: "doc"}}}
	llm := &fakeLLM{responses: []any{planJSON(2, 3)}}
	gen := newTestGenerator(t, DefaultConfig(), ret, llm)

	prefs := domain.UserPreferences{
		Duration:    2,
		MealsPerDay: 3,
		Cuisines:    []string{"Punjabi", " punjabi ", "gujarati"},
	}
	plan, err := gen.GenerateMealPlan(context.Background(), prefs, nil)
	if err != nil {
		t.Fatalf("GenerateMealPlan: %v", err)
	}
	want := []string{"Punjabi", "gujarati"}
	if len(plan.Metadata.CuisinesUsed) != len(want) {
		t.Fatalf("want cuisines %v, got %v", want, plan.Metadata.CuisinesUsed)
	}
	for i, c := range want {
		if plan.Metadata.CuisinesUsed[i] != c {
			t.Fatalf("want cuisines %v, got %v", want, plan.Metadata.CuisinesUsed)
		}
	}
}

func TestCompletionTextShapes(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    string
		wantErr bool
	}{
		{"bare string", "hello", "hello", false},
		{"completion value", Completion{Content: "body"}, "body", false},
		{"completion pointer", &Completion{Content: "ptr"}, "ptr", false},
		{"map with content", map[string]any{"content": "mapped"}, "mapped", false},
		{"map without content", map[string]any{"text": "x"}, "", true},
		{"nil", nil, "", true},
		{"unsupported", 42, "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := completionText(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("want error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("completionText: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestQualityBand(t *testing.T) {
	tests := []struct {
		total int
		want  domain.RetrievalQuality
	}{
		{0, domain.QualityNone},
		{1, domain.QualityLow},
		{4, domain.QualityLow},
		{5, domain.QualityMedium},
		{9, domain.QualityMedium},
		{10, domain.QualityHigh},
		{14, domain.QualityHigh},
		{15, domain.QualityExcellent},
		{40, domain.QualityExcellent},
	}
	for _, tc := range tests {
		if got := qualityBand(tc.total); got != tc.want {
			t.Fatalf("qualityBand(%d): want %s, got %s", tc.total, tc.want, got)
		}
	}
}
