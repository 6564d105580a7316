package mealplan

import (
	"testing"

	"github.com/sakhihealth/sakhi-backend/internal/domain"
)

func TestParseAndValidateCleanJSON(t *testing.T) {
	out := parseAndValidate(planJSON(2, 3), 2, 3)
	if out.Status != statusParsed {
		t.Fatalf("want statusParsed, got %v (reason %q)", out.Status, out.Reason)
	}
	if len(out.Days) != 2 {
		t.Fatalf("want 2 days, got %d", len(out.Days))
	}
	if out.Days[0].Meals[0].Name != "Meal 1-0" {
		t.Fatalf("unexpected meal name %q", out.Days[0].Meals[0].Name)
	}
}

func TestParseAndValidateStripsCodeFences(t *testing.T) {
	raw := "```json\n" + planJSON(1, 2) + "\n```"
	out := parseAndValidate(raw, 1, 2)
	if out.Status != statusParsed {
		t.Fatalf("want statusParsed, got %v (reason %q)", out.Status, out.Reason)
	}
}

func TestParseAndValidateExtractsEmbeddedObject(t *testing.T) {
	raw := "Here is your plan:\n" + planJSON(1, 2) + "\nEnjoy!"
	out := parseAndValidate(raw, 1, 2)
	if out.Status != statusParsed {
		t.Fatalf("want statusParsed, got %v (reason %q)", out.Status, out.Reason)
	}
}

// A plan under an alternate top-level key with missing gi/time/tip must
// repair, not fall back.
func TestParseAndValidateRepairsAltKeysAndMissingFields(t *testing.T) {
	raw := `{"plan":[{"day":1,"meals":[
		{"name":"Poha","mealType":"breakfast","ingredients":[{"item":"poha","quantity":"1","unit":"cup"}],"protein":10,"carbs":45,"fats":8,"calories":292},
		{"name":"Dal rice","mealType":"lunch","ingredients":[],"protein":"20g","carbs":70,"fats":12,"calories":"468"}
	]}]}`
	out := parseAndValidate(raw, 1, 2)
	if out.Status != statusRepaired {
		t.Fatalf("want statusRepaired, got %v (reason %q)", out.Status, out.Reason)
	}
	day := out.Days[0]
	if day.DayNumber != 1 {
		t.Fatalf("want dayNumber 1, got %d", day.DayNumber)
	}
	for _, m := range day.Meals {
		if m.GlycemicIndex != defaultGI {
			t.Fatalf("meal %q: want gi %q, got %q", m.Name, defaultGI, m.GlycemicIndex)
		}
		if m.PrepTime != defaultPrepTime {
			t.Fatalf("meal %q: want time %q, got %q", m.Name, defaultPrepTime, m.PrepTime)
		}
		if m.Tip != defaultTip {
			t.Fatalf("meal %q: missing tip", m.Name)
		}
	}
	// "20g" coerces by numeric prefix.
	if out.Days[0].Meals[1].Protein != 20 {
		t.Fatalf("want protein 20 from %q, got %v", "20g", out.Days[0].Meals[1].Protein)
	}
}

// Negative macros are reset only when the repair path runs; the alternate
// top-level key forces it here.
func TestParseAndValidateRepairsNegativeMacros(t *testing.T) {
	raw := `{"plan":[{"day":1,"meals":[
		{"name":"Upma","mealType":"breakfast","ingredients":[],"protein":-4,"carbs":50,"fats":10,"calories":300},
		{"name":"Khichdi","mealType":"dinner","ingredients":[],"protein":18,"carbs":55,"fats":12,"calories":400}
	]}]}`
	out := parseAndValidate(raw, 1, 2)
	if out.Status != statusRepaired {
		t.Fatalf("want statusRepaired, got %v (reason %q)", out.Status, out.Reason)
	}
	m := out.Days[0].Meals[0]
	if m.Protein != defaultProteinG {
		t.Fatalf("negative protein should reset to %v, got %v", defaultProteinG, m.Protein)
	}
	if m.Carbs != 50 || m.Fats != 10 {
		t.Fatalf("valid macros must survive repair, got c=%v f=%v", m.Carbs, m.Fats)
	}
}

func TestParseAndValidateTruncatesOverlongPlan(t *testing.T) {
	out := parseAndValidate(planJSON(4, 3), 2, 3)
	if out.Status != statusRepaired {
		t.Fatalf("want statusRepaired, got %v (reason %q)", out.Status, out.Reason)
	}
	if len(out.Days) != 2 {
		t.Fatalf("want 2 days after truncation, got %d", len(out.Days))
	}
}

func TestParseAndValidateFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"prose only", "Sorry, I cannot help with that."},
		{"bare array", `[1,2,3]`},
		{"no day array", `{"message":"ok"}`},
		{"too few days", planJSON(1, 3)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := parseAndValidate(tc.raw, 3, 3)
			if out.Status != statusFailed {
				t.Fatalf("want statusFailed, got %v", out.Status)
			}
			if out.Reason == "" {
				t.Fatalf("failed outcome must carry a reason")
			}
		})
	}
}

func TestFirstObjectBlockIgnoresBracesInStrings(t *testing.T) {
	text := `prefix {"a":"value with } brace","b":{"c":1}} suffix`
	block, ok := firstObjectBlock(text)
	if !ok {
		t.Fatalf("want a block")
	}
	if block != `{"a":"value with } brace","b":{"c":1}}` {
		t.Fatalf("unexpected block %q", block)
	}
}

func TestNumericFieldCoercion(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float", 12.5, 12.5, true},
		{"int", 7, 7, true},
		{"numeric string", "42", 42, true},
		{"unit suffix", "15 g", 15, true},
		{"negative", "-5", -5, true},
		{"prose", "about right", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := numericField(tc.in)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("numericField(%v): want (%v,%v), got (%v,%v)", tc.in, tc.want, tc.ok, got, ok)
			}
		})
	}
}

func TestDecodeMealNormalizesType(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.MealType
	}{
		{"Breakfast", domain.MealBreakfast},
		{"LUNCH", domain.MealLunch},
		{"Snacks", domain.MealSnack},
		{"dinner", domain.MealDinner},
	}
	for _, tc := range tests {
		m := decodeMeal(map[string]any{"name": "x", "mealType": tc.raw, "ingredients": []any{}})
		if m.MealType != tc.want {
			t.Fatalf("normalize %q: want %s, got %s", tc.raw, tc.want, m.MealType)
		}
	}
}
