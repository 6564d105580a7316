package mealplan

import (
	"math"
	"testing"

	"github.com/sakhihealth/sakhi-backend/internal/domain"
)

func mealWithMacros(p, c, f float64) domain.Meal {
	m := domain.Meal{Name: "m", MealType: domain.MealLunch, Protein: p, Carbs: c, Fats: f}
	m.Calories = m.MacroCalories()
	return m
}

func assertDayReconciled(t *testing.T, day domain.Day, target, tol float64) {
	t.Helper()
	for _, m := range day.Meals {
		if m.Calories != m.MacroCalories() {
			t.Fatalf("meal %q: calories %v, macro law says %v", m.Name, m.Calories, m.MacroCalories())
		}
		if m.Protein < 0 || m.Carbs < 0 || m.Fats < 0 {
			t.Fatalf("meal %q: negative macro after reconciliation: %+v", m.Name, m)
		}
	}
	if got := sumCalories(day.Meals); day.TotalCalories != got {
		t.Fatalf("TotalCalories %v does not match meal sum %v", day.TotalCalories, got)
	}
	if math.Abs(day.TotalCalories-target) > tol {
		t.Fatalf("total %v outside band [%v,%v]", day.TotalCalories, target-tol, target+tol)
	}
}

func TestReconcileDayWithinBandIsUntouched(t *testing.T) {
	day := domain.Day{Meals: []domain.Meal{
		mealWithMacros(30, 80, 20), // 620
		mealWithMacros(35, 90, 22), // 698
		mealWithMacros(30, 85, 20), // 640
	}}
	before := append([]domain.Meal(nil), day.Meals...)

	reconcileDay(&day, 2000, 200)

	for i, m := range day.Meals {
		if m.Protein != before[i].Protein || m.Carbs != before[i].Carbs || m.Fats != before[i].Fats {
			t.Fatalf("meal %d macros changed inside the band: %+v vs %+v", i, m, before[i])
		}
	}
	assertDayReconciled(t, day, 2000, 200)
}

func TestReconcileDayScalesLowCalorieDay(t *testing.T) {
	day := domain.Day{Meals: []domain.Meal{
		mealWithMacros(10, 30, 5),
		mealWithMacros(12, 35, 6),
		mealWithMacros(11, 32, 5),
	}}
	reconcileDay(&day, 2000, 200)
	assertDayReconciled(t, day, 2000, 200)
}

func TestReconcileDayScalesHighCalorieDay(t *testing.T) {
	day := domain.Day{Meals: []domain.Meal{
		mealWithMacros(80, 200, 60),
		mealWithMacros(90, 220, 70),
		mealWithMacros(85, 210, 65),
	}}
	reconcileDay(&day, 2000, 200)
	assertDayReconciled(t, day, 2000, 200)
}

// All-zero macros must not divide by zero; the minimum viable clamp makes
// the scale factor defined.
func TestReconcileDayAllZeroMacros(t *testing.T) {
	day := domain.Day{Meals: []domain.Meal{
		mealWithMacros(0, 0, 0),
		mealWithMacros(0, 0, 0),
		mealWithMacros(0, 0, 0),
	}}
	reconcileDay(&day, 2000, 200)
	assertDayReconciled(t, day, 2000, 200)
}

func TestReconcileDayClampsNegativeMacros(t *testing.T) {
	day := domain.Day{Meals: []domain.Meal{
		mealWithMacros(-10, 60, 15),
		mealWithMacros(25, -5, 18),
		mealWithMacros(30, 70, -3),
	}}
	reconcileDay(&day, 2000, 200)
	assertDayReconciled(t, day, 2000, 200)
}

// Reported calories that disagree with the macros are discarded before any
// band comparison.
func TestReconcileDayIgnoresReportedCalories(t *testing.T) {
	day := domain.Day{Meals: []domain.Meal{
		{Name: "a", Protein: 40, Carbs: 110, Fats: 25, Calories: 9999},
		{Name: "b", Protein: 45, Carbs: 115, Fats: 28, Calories: 1},
		{Name: "c", Protein: 42, Carbs: 112, Fats: 26, Calories: 0},
	}}
	reconcileDay(&day, 2000, 200)
	assertDayReconciled(t, day, 2000, 200)
}

func TestReconcileDayEmptyMeals(t *testing.T) {
	day := domain.Day{}
	reconcileDay(&day, 2000, 200)
	if day.TotalCalories != 0 {
		t.Fatalf("empty day should have zero total, got %v", day.TotalCalories)
	}
}

func TestTolerancePercentOverridesAbsolute(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TolerancePercent = 0.05
	if got := cfg.toleranceBand(); got != 100 {
		t.Fatalf("want band 100 from 5%% of 2000, got %v", got)
	}
	cfg.TolerancePercent = 0
	cfg.CalorieTolerance = 150
	if got := cfg.toleranceBand(); got != 150 {
		t.Fatalf("want band 150, got %v", got)
	}
}

func TestReconcilePlanCoversAllDays(t *testing.T) {
	days := []domain.Day{
		{Meals: []domain.Meal{mealWithMacros(10, 20, 5), mealWithMacros(10, 20, 5)}},
		{Meals: []domain.Meal{mealWithMacros(100, 300, 80), mealWithMacros(90, 280, 75)}},
	}
	cfg := DefaultConfig()
	reconcilePlan(days, cfg)
	for i, day := range days {
		if math.Abs(day.TotalCalories-cfg.TargetCalories) > cfg.toleranceBand() {
			t.Fatalf("day %d total %v outside band", i+1, day.TotalCalories)
		}
	}
}
