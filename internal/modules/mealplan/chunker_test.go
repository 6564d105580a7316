package mealplan

import (
	"context"
	"errors"
	"testing"

	"github.com/sakhihealth/sakhi-backend/internal/domain"
)

func TestSplitWindows(t *testing.T) {
	tests := []struct {
		duration, chunkSize int
		want                []dayWindow
	}{
		{7, 3, []dayWindow{{0, 3}, {3, 3}, {6, 1}}},
		{6, 3, []dayWindow{{0, 3}, {3, 3}}},
		{3, 3, []dayWindow{{0, 3}}},
		{1, 3, []dayWindow{{0, 1}}},
		{5, 2, []dayWindow{{0, 2}, {2, 2}, {4, 1}}},
	}
	for _, tc := range tests {
		got := splitWindows(tc.duration, tc.chunkSize)
		if len(got) != len(tc.want) {
			t.Fatalf("splitWindows(%d,%d): want %v, got %v", tc.duration, tc.chunkSize, tc.want, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("splitWindows(%d,%d): want %v, got %v", tc.duration, tc.chunkSize, tc.want, got)
			}
		}
	}
}

func TestGenerateChunkedSevenDays(t *testing.T) {
	ret := &fakeRetriever{docs: []domain.RetrievedDocument{{Content: "doc"}}}
	// Windows of 3, 3, and 1 day; each gets its own LLM call.
	llm := &fakeLLM{responses: []any{planJSON(3, 3), planJSON(3, 3), planJSON(1, 3)}}
	gen := newTestGenerator(t, DefaultConfig(), ret, llm)

	prefs := domain.UserPreferences{Duration: 7, MealsPerDay: 3, DietType: domain.DietVegetarian}
	plan, err := gen.GenerateMealPlan(context.Background(), prefs, nil)
	if err != nil {
		t.Fatalf("GenerateMealPlan: %v", err)
	}
	if llm.calls != 3 {
		t.Fatalf("want 3 LLM calls, got %d", llm.calls)
	}
	if len(plan.Days) != 7 {
		t.Fatalf("want 7 days, got %d", len(plan.Days))
	}
	for i, day := range plan.Days {
		if day.DayNumber != i+1 {
			t.Fatalf("day numbers not contiguous: index %d has dayNumber %d", i, day.DayNumber)
		}
		if len(day.Meals) != 3 {
			t.Fatalf("day %d: want 3 meals, got %d", day.DayNumber, len(day.Meals))
		}
	}
	if plan.Metadata.UsedFallback {
		t.Fatalf("no window failed; UsedFallback must be false")
	}
}

// A failing middle window is replaced by fallback days; the surrounding
// windows keep their generated content and numbering stays contiguous.
func TestGenerateChunkedContainsWindowFailure(t *testing.T) {
	ret := &fakeRetriever{docs: []domain.RetrievedDocument{{Content: "doc"}}}
	llm := &fakeLLM{
		responses: []any{planJSON(3, 3), nil, planJSON(1, 3)},
		errs:      []error{nil, errors.New("model overloaded"), nil},
	}
	cfg := DefaultConfig()
	gen := newTestGenerator(t, cfg, ret, llm)

	prefs := domain.UserPreferences{Duration: 7, MealsPerDay: 3, DietType: domain.DietVegetarian}
	plan, err := gen.GenerateMealPlan(context.Background(), prefs, nil)
	if err != nil {
		t.Fatalf("GenerateMealPlan: %v", err)
	}
	if len(plan.Days) != 7 {
		t.Fatalf("want 7 days, got %d", len(plan.Days))
	}
	for i, day := range plan.Days {
		if day.DayNumber != i+1 {
			t.Fatalf("day numbers not contiguous after window failure: index %d has %d", i, day.DayNumber)
		}
	}
	if !plan.Metadata.UsedFallback {
		t.Fatalf("want UsedFallback=true after a window failure")
	}
	// Generated windows survive: day 1 carries the scripted meal name.
	if plan.Days[0].Meals[0].Name != "Meal 1-0" {
		t.Fatalf("first window content lost: %q", plan.Days[0].Meals[0].Name)
	}
	// Fallback days still satisfy the calorie band.
	band := cfg.toleranceBand()
	for _, day := range plan.Days[3:6] {
		if day.TotalCalories < cfg.TargetCalories-band || day.TotalCalories > cfg.TargetCalories+band {
			t.Fatalf("fallback day %d total %v outside band", day.DayNumber, day.TotalCalories)
		}
	}
}

func TestGenerateChunkedAggregatesMetadata(t *testing.T) {
	ret := &fakeRetriever{docs: []domain.RetrievedDocument{{Content: "doc"}}}
	llm := &fakeLLM{responses: []any{planJSON(3, 3), planJSON(3, 3)}}
	gen := newTestGenerator(t, DefaultConfig(), ret, llm)

	prefs := domain.UserPreferences{Duration: 6, MealsPerDay: 3}
	plan, err := gen.GenerateMealPlan(context.Background(), prefs, nil)
	if err != nil {
		t.Fatalf("GenerateMealPlan: %v", err)
	}
	// Two windows, two passes each (no health context), one doc per pass.
	if plan.Metadata.MealTemplatesUsed != 2 || plan.Metadata.NutritionGuidelinesUsed != 2 {
		t.Fatalf("metadata counts not aggregated: %+v", plan.Metadata)
	}
	if plan.Metadata.RetrievalQuality != domain.QualityLow {
		t.Fatalf("want quality low for 4 total documents, got %s", plan.Metadata.RetrievalQuality)
	}
}
