package mealplan

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/sakhihealth/sakhi-backend/internal/domain"
)

//go:embed templates/regions.yaml
var regionTemplatesYAML []byte

const defaultRegion = "north-india"

type templateMeal struct {
	Name        string `yaml:"name"`
	Ingredients []struct {
		Item     string `yaml:"item"`
		Quantity string `yaml:"quantity"`
		Unit     string `yaml:"unit"`
	} `yaml:"ingredients"`
	Recipe  string  `yaml:"recipe"`
	Protein float64 `yaml:"protein"`
	Carbs   float64 `yaml:"carbs"`
	Fats    float64 `yaml:"fats"`
	Fiber   float64 `yaml:"fiber"`
	GI      string  `yaml:"gi"`
	Time    string  `yaml:"time"`
	Tip     string  `yaml:"tip"`
}

type regionTemplates struct {
	Breakfast []templateMeal `yaml:"breakfast"`
	Lunch     []templateMeal `yaml:"lunch"`
	Dinner    []templateMeal `yaml:"dinner"`
	Snack     []templateMeal `yaml:"snack"`
}

type templateFile struct {
	Regions map[string]regionTemplates `yaml:"regions"`
}

var (
	templatesOnce sync.Once
	templates     map[string]regionTemplates
	templatesErr  error
)

func loadTemplates() (map[string]regionTemplates, error) {
	templatesOnce.Do(func() {
		var f templateFile
		if err := yaml.Unmarshal(regionTemplatesYAML, &f); err != nil {
			templatesErr = fmt.Errorf("parse region templates: %w", err)
			return
		}
		if len(f.Regions) == 0 {
			templatesErr = fmt.Errorf("region templates empty")
			return
		}
		templates = f.Regions
	})
	return templates, templatesErr
}

// cuisineRegions maps cuisine names onto template regions.
var cuisineRegions = map[string]string{
	"north-indian":  "north-india",
	"punjabi":       "north-india",
	"rajasthani":    "north-india",
	"south-indian":  "south-india",
	"kerala":        "south-india",
	"tamil":         "south-india",
	"andhra":        "south-india",
	"east-indian":   "east-india",
	"bengali":       "east-india",
	"west-indian":   "west-india",
	"gujarati":      "west-india",
	"maharashtrian": "west-india",
}

// buildFallbackDays assembles a complete plan from the static templates,
// cycling entries across days. It cannot fail: a broken template file
// still yields minimum-viable meals via reconciliation.
func buildFallbackDays(prefs domain.UserPreferences, cfg Config) []domain.Day {
	region := resolveRegion(prefs)

	regions, err := loadTemplates()
	var tmpl regionTemplates
	if err == nil {
		var ok bool
		tmpl, ok = regions[region]
		if !ok {
			tmpl = regions[defaultRegion]
		}
	}

	slots := mealSlots(prefs.MealsPerDay)
	days := make([]domain.Day, 0, prefs.Duration)
	for d := 0; d < prefs.Duration; d++ {
		day := domain.Day{DayNumber: d + 1}
		for _, slot := range slots {
			day.Meals = append(day.Meals, templateMealFor(tmpl, slot, d))
		}
		days = append(days, day)
	}
	reconcilePlan(days, cfg)
	return days
}

func resolveRegion(prefs domain.UserPreferences) string {
	for _, c := range prefs.Cuisines {
		if r, ok := cuisineRegions[strings.ToLower(strings.TrimSpace(c))]; ok {
			return r
		}
	}
	if r := strings.ToLower(strings.TrimSpace(prefs.Region)); r != "" {
		if _, ok := cuisineRegions[r]; ok {
			return cuisineRegions[r]
		}
		return r
	}
	return defaultRegion
}

func mealSlots(mealsPerDay int) []domain.MealType {
	switch {
	case mealsPerDay <= 2:
		return []domain.MealType{domain.MealBreakfast, domain.MealDinner}
	case mealsPerDay == 3:
		return []domain.MealType{domain.MealBreakfast, domain.MealLunch, domain.MealDinner}
	default:
		return []domain.MealType{domain.MealBreakfast, domain.MealLunch, domain.MealSnack, domain.MealDinner}
	}
}

func templateMealFor(tmpl regionTemplates, slot domain.MealType, dayIndex int) domain.Meal {
	var pool []templateMeal
	switch slot {
	case domain.MealBreakfast:
		pool = tmpl.Breakfast
	case domain.MealLunch:
		pool = tmpl.Lunch
	case domain.MealDinner:
		pool = tmpl.Dinner
	default:
		pool = tmpl.Snack
	}
	if len(pool) == 0 {
		// Reconciliation clamps this to a minimum viable meal.
		return domain.Meal{
			Name:          "Balanced " + string(slot),
			MealType:      slot,
			Ingredients:   []domain.Ingredient{},
			GlycemicIndex: defaultGI,
			PrepTime:      defaultPrepTime,
			Tip:           defaultTip,
		}
	}
	t := pool[dayIndex%len(pool)]

	meal := domain.Meal{
		Name:          t.Name,
		MealType:      slot,
		Recipe:        t.Recipe,
		Protein:       t.Protein,
		Carbs:         t.Carbs,
		Fats:          t.Fats,
		Fiber:         t.Fiber,
		GlycemicIndex: t.GI,
		PrepTime:      t.Time,
		Tip:           t.Tip,
	}
	meal.Calories = meal.MacroCalories()
	for _, ing := range t.Ingredients {
		meal.Ingredients = append(meal.Ingredients, domain.Ingredient{
			Item:     ing.Item,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}
	if meal.Ingredients == nil {
		meal.Ingredients = []domain.Ingredient{}
	}
	if meal.GlycemicIndex == "" {
		meal.GlycemicIndex = defaultGI
	}
	if meal.PrepTime == "" {
		meal.PrepTime = defaultPrepTime
	}
	if meal.Tip == "" {
		meal.Tip = defaultTip
	}
	return meal
}
