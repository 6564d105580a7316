package mealplan

import (
	"math"

	"github.com/sakhihealth/sakhi-backend/internal/domain"
)

// Minimum viable macros for a meal whose figures are degenerate (all zero
// or negative). Prevents the proportional scaler from dividing by zero.
const (
	minViableProteinG = 15.0
	minViableCarbsG   = 40.0
	minViableFatsG    = 10.0

	minCarbsG = 5.0
)

// reconcilePlan brings every day's total calories into the tolerance band
// around the target. Two passes per day: a proportional macro scale, then
// a single-meal carbohydrate patch for integer-rounding drift.
func reconcilePlan(days []domain.Day, cfg Config) {
	target := cfg.TargetCalories
	tol := cfg.toleranceBand()
	for i := range days {
		reconcileDay(&days[i], target, tol)
	}
}

func reconcileDay(day *domain.Day, target, tol float64) {
	if len(day.Meals) == 0 {
		day.TotalCalories = 0
		return
	}

	// The 4/4/9 law is the ground truth; reported calories are replaced by
	// macro-derived figures before any comparison.
	for i := range day.Meals {
		m := &day.Meals[i]
		if m.Protein < 0 {
			m.Protein = 0
		}
		if m.Carbs < 0 {
			m.Carbs = 0
		}
		if m.Fats < 0 {
			m.Fats = 0
		}
		m.Calories = m.MacroCalories()
	}

	total := sumCalories(day.Meals)

	// Degenerate input: clamp every meal to a minimum viable size so the
	// scale factor is defined.
	if total <= 0 {
		for i := range day.Meals {
			m := &day.Meals[i]
			m.Protein = minViableProteinG
			m.Carbs = minViableCarbsG
			m.Fats = minViableFatsG
			m.Calories = m.MacroCalories()
		}
		total = sumCalories(day.Meals)
	}

	if math.Abs(total-target) <= tol {
		day.TotalCalories = total
		return
	}

	// Pass 1: uniform proportional scale of all macros, rounded to grams.
	scale := target / total
	for i := range day.Meals {
		m := &day.Meals[i]
		m.Protein = math.Round(m.Protein * scale)
		m.Carbs = math.Round(m.Carbs * scale)
		m.Fats = math.Round(m.Fats * scale)
		m.Calories = m.MacroCalories()
	}
	total = sumCalories(day.Meals)

	// Pass 2: concentrate the rounding residual into the largest meal's
	// carbohydrate figure (1 g of carbs == 4 kcal).
	if math.Abs(total-target) > tol {
		idx := highestCalorieMeal(day.Meals)
		m := &day.Meals[idx]
		adjust := math.Round((target - total) / 4)
		m.Carbs = math.Max(minCarbsG, m.Carbs+adjust)
		m.Calories = m.MacroCalories()
		total = sumCalories(day.Meals)
	}

	day.TotalCalories = total
}

func sumCalories(meals []domain.Meal) float64 {
	var total float64
	for _, m := range meals {
		total += m.Calories
	}
	return total
}

func highestCalorieMeal(meals []domain.Meal) int {
	idx := 0
	for i, m := range meals {
		if m.Calories > meals[idx].Calories {
			idx = i
		}
	}
	return idx
}
