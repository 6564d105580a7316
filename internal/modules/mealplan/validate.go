package mealplan

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sakhihealth/sakhi-backend/internal/domain"
)

type parseStatus int

const (
	statusParsed parseStatus = iota
	statusRepaired
	statusFailed
)

// parseOutcome is the tagged result of the parse/validate/repair machine.
// statusFailed means the caller must substitute the static fallback; the
// machine itself never errors out.
type parseOutcome struct {
	Status parseStatus
	Days   []domain.Day
	Reason string
}

// Defaults used when repairing meals with missing or non-numeric fields.
const (
	defaultGI       = "Low"
	defaultPrepTime = "20 mins"
	defaultTip      = "Drink a glass of water before this meal."

	defaultProteinG = 12.0
	defaultCarbsG   = 35.0
	defaultFatsG    = 9.0
)

// parseAndValidate converts raw LLM text into validated days or reports
// failure. Repair is attempted once; its output is re-validated.
func parseAndValidate(raw string, duration, mealsPerDay int) parseOutcome {
	obj, ok := parsePlanObject(raw)
	if !ok {
		return parseOutcome{Status: statusFailed, Reason: "unparseable output"}
	}

	if err := validateShape(obj, duration, mealsPerDay); err == nil {
		return parseOutcome{Status: statusParsed, Days: decodeDays(obj)}
	}

	repaired := repairPlanObject(obj, duration, mealsPerDay)
	if err := validateShape(repaired, duration, mealsPerDay); err != nil {
		return parseOutcome{Status: statusFailed, Reason: err.Error()}
	}
	return parseOutcome{Status: statusRepaired, Days: decodeDays(repaired)}
}

// parsePlanObject strips markdown fences, tries a whole-text parse, then
// falls back to the first balanced top-level object.
func parsePlanObject(raw string) (map[string]any, bool) {
	text := stripCodeFences(raw)
	if text == "" {
		return nil, false
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj, true
	}

	block, ok := firstObjectBlock(text)
	if !ok {
		return nil, false
	}
	if err := json.Unmarshal([]byte(block), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func stripCodeFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		// drop the language tag line (```json etc.)
		text = text[idx+1:]
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// firstObjectBlock extracts the first balanced {...} block, ignoring braces
// inside string literals.
func firstObjectBlock(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// validateShape enforces the structural contract: days of the expected
// length, meals of the expected length, and the three required meal fields.
func validateShape(obj map[string]any, duration, mealsPerDay int) error {
	daysAny, ok := obj["days"].([]any)
	if !ok {
		return fmt.Errorf("missing days array")
	}
	if len(daysAny) != duration {
		return fmt.Errorf("expected %d days, got %d", duration, len(daysAny))
	}
	for di, dAny := range daysAny {
		day, ok := dAny.(map[string]any)
		if !ok {
			return fmt.Errorf("day %d is not an object", di+1)
		}
		mealsAny, ok := day["meals"].([]any)
		if !ok {
			return fmt.Errorf("day %d missing meals array", di+1)
		}
		if len(mealsAny) != mealsPerDay {
			return fmt.Errorf("day %d expected %d meals, got %d", di+1, mealsPerDay, len(mealsAny))
		}
		for mi, mAny := range mealsAny {
			meal, ok := mAny.(map[string]any)
			if !ok {
				return fmt.Errorf("day %d meal %d is not an object", di+1, mi+1)
			}
			if name, _ := meal["name"].(string); strings.TrimSpace(name) == "" {
				return fmt.Errorf("day %d meal %d missing name", di+1, mi+1)
			}
			if mt, _ := meal["mealType"].(string); strings.TrimSpace(mt) == "" {
				return fmt.Errorf("day %d meal %d missing mealType", di+1, mi+1)
			}
			if _, ok := meal["ingredients"].([]any); !ok {
				return fmt.Errorf("day %d meal %d ingredients is not a list", di+1, mi+1)
			}
		}
	}
	return nil
}

// repairPlanObject applies the recovery strategies in order: adopt an
// alternate day-array key, normalize day numbering, truncate overlong
// lists, and default the reconstructible meal fields.
func repairPlanObject(obj map[string]any, duration, mealsPerDay int) map[string]any {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		out[k] = v
	}

	if _, ok := out["days"].([]any); !ok {
		if alt, ok := findDayArray(out); ok {
			out["days"] = alt
		}
	}

	daysAny, ok := out["days"].([]any)
	if !ok {
		return out
	}
	if len(daysAny) > duration {
		daysAny = daysAny[:duration]
	}

	repairedDays := make([]any, 0, len(daysAny))
	for di, dAny := range daysAny {
		day, ok := dAny.(map[string]any)
		if !ok {
			repairedDays = append(repairedDays, dAny)
			continue
		}
		repairedDays = append(repairedDays, repairDay(day, di, mealsPerDay))
	}
	out["days"] = repairedDays
	return out
}

// findDayArray searches top-level keys for an array whose first element
// looks like a day (has meals or a day-number-like field).
func findDayArray(obj map[string]any) ([]any, bool) {
	for key, v := range obj {
		if key == "days" {
			continue
		}
		arr, ok := v.([]any)
		if !ok || len(arr) == 0 {
			continue
		}
		first, ok := arr[0].(map[string]any)
		if !ok {
			continue
		}
		if _, hasMeals := first["meals"]; hasMeals {
			return arr, true
		}
		for _, dayKey := range []string{"day", "dayNumber", "day_number"} {
			if _, has := first[dayKey]; has {
				return arr, true
			}
		}
	}
	return nil, false
}

func repairDay(day map[string]any, index, mealsPerDay int) map[string]any {
	out := make(map[string]any, len(day))
	for k, v := range day {
		out[k] = v
	}

	if _, ok := out["dayNumber"]; !ok {
		if v, ok := out["day"]; ok {
			out["dayNumber"] = v
			delete(out, "day")
		} else if v, ok := out["day_number"]; ok {
			out["dayNumber"] = v
			delete(out, "day_number")
		} else {
			out["dayNumber"] = float64(index + 1)
		}
	}

	mealsAny, ok := out["meals"].([]any)
	if !ok {
		return out
	}
	if len(mealsAny) > mealsPerDay {
		mealsAny = mealsAny[:mealsPerDay]
	}
	repairedMeals := make([]any, 0, len(mealsAny))
	for _, mAny := range mealsAny {
		meal, ok := mAny.(map[string]any)
		if !ok {
			repairedMeals = append(repairedMeals, mAny)
			continue
		}
		repairedMeals = append(repairedMeals, repairMeal(meal))
	}
	out["meals"] = repairedMeals
	return out
}

func repairMeal(meal map[string]any) map[string]any {
	out := make(map[string]any, len(meal))
	for k, v := range meal {
		out[k] = v
	}

	if s, _ := out["gi"].(string); strings.TrimSpace(s) == "" {
		out["gi"] = defaultGI
	}
	if s, _ := out["time"].(string); strings.TrimSpace(s) == "" {
		out["time"] = defaultPrepTime
	}
	if s, _ := out["tip"].(string); strings.TrimSpace(s) == "" {
		out["tip"] = defaultTip
	}
	if _, ok := out["ingredients"].([]any); !ok {
		out["ingredients"] = []any{}
	}

	protein, pOK := numericField(out["protein"])
	carbs, cOK := numericField(out["carbs"])
	fats, fOK := numericField(out["fats"])
	if !pOK || protein < 0 {
		protein = defaultProteinG
	}
	if !cOK || carbs < 0 {
		carbs = defaultCarbsG
	}
	if !fOK || fats < 0 {
		fats = defaultFatsG
	}
	out["protein"] = protein
	out["carbs"] = carbs
	out["fats"] = fats

	if _, ok := numericField(out["calories"]); !ok {
		out["calories"] = math.Round(protein*4 + carbs*4 + fats*9)
	}
	return out
}

// numericField coerces JSON numbers and numeric strings ("35", "35 g").
func numericField(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(t)
		end := 0
		for end < len(s) && (s[end] == '.' || s[end] == '-' || (s[end] >= '0' && s[end] <= '9')) {
			end++
		}
		if end == 0 {
			return 0, false
		}
		f, err := strconv.ParseFloat(s[:end], 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// decodeDays converts a validated plan object into domain days. Numeric
// and enum fields are defensively coerced; validateShape has already
// guaranteed the structure.
func decodeDays(obj map[string]any) []domain.Day {
	daysAny, _ := obj["days"].([]any)
	days := make([]domain.Day, 0, len(daysAny))
	for di, dAny := range daysAny {
		dayMap, _ := dAny.(map[string]any)
		day := domain.Day{DayNumber: di + 1}
		if n, ok := numericField(dayMap["dayNumber"]); ok && n > 0 {
			day.DayNumber = int(n)
		}
		mealsAny, _ := dayMap["meals"].([]any)
		for _, mAny := range mealsAny {
			mealMap, _ := mAny.(map[string]any)
			day.Meals = append(day.Meals, decodeMeal(mealMap))
		}
		days = append(days, day)
	}
	return days
}

func decodeMeal(m map[string]any) domain.Meal {
	meal := domain.Meal{
		Name:          stringField(m["name"]),
		MealType:      normalizeMealType(stringField(m["mealType"])),
		Recipe:        firstStringField(m, "recipe", "instructions"),
		GlycemicIndex: stringField(m["gi"]),
		PrepTime:      stringField(m["time"]),
		Tip:           stringField(m["tip"]),
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

	meal.Protein, _ = numericField(m["protein"])
	meal.Carbs, _ = numericField(m["carbs"])
	meal.Fats, _ = numericField(m["fats"])
	meal.Fiber, _ = numericField(m["fiber"])
	if cal, ok := numericField(m["calories"]); ok {
		meal.Calories = cal
	} else {
		meal.Calories = meal.MacroCalories()
	}

	ingAny, _ := m["ingredients"].([]any)
	for _, iAny := range ingAny {
		iMap, ok := iAny.(map[string]any)
		if !ok {
			if s, ok := iAny.(string); ok && strings.TrimSpace(s) != "" {
				meal.Ingredients = append(meal.Ingredients, domain.Ingredient{Item: s})
			}
			continue
		}
		ing := domain.Ingredient{
			Item:     stringField(iMap["item"]),
			Quantity: stringField(iMap["quantity"]),
			Unit:     stringField(iMap["unit"]),
		}
		if ing.Quantity == "" {
			if n, ok := numericField(iMap["quantity"]); ok {
				ing.Quantity = strconv.FormatFloat(n, 'f', -1, 64)
			}
		}
		if ing.Item != "" {
			meal.Ingredients = append(meal.Ingredients, ing)
		}
	}
	return meal
}

func stringField(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func firstStringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringField(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func normalizeMealType(raw string) domain.MealType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "breakfast":
		return domain.MealBreakfast
	case "lunch":
		return domain.MealLunch
	case "dinner":
		return domain.MealDinner
	case "snack", "snacks":
		return domain.MealSnack
	default:
		return domain.MealType(strings.ToLower(strings.TrimSpace(raw)))
	}
}
