package prompts

import (
	"fmt"
	"strings"
)

// KnownCuisines is the universe the exclusion instruction is derived from.
// The excluded set is always computed as known-minus-selected; a static
// exclusion list can forbid a cuisine the user actually asked for.
var KnownCuisines = []string{
	"north-indian",
	"south-indian",
	"east-indian",
	"west-indian",
	"bengali",
	"gujarati",
	"punjabi",
	"maharashtrian",
	"rajasthani",
	"kerala",
	"tamil",
	"andhra",
	"continental",
	"mediterranean",
	"chinese",
	"thai",
	"italian",
	"mexican",
}

// ExcludedCuisines returns every known cuisine the user did not select,
// matching case-insensitively.
func ExcludedCuisines(selected []string) []string {
	chosen := make(map[string]bool, len(selected))
	for _, c := range selected {
		chosen[strings.ToLower(strings.TrimSpace(c))] = true
	}
	out := make([]string, 0, len(KnownCuisines))
	for _, c := range KnownCuisines {
		if !chosen[strings.ToLower(c)] {
			out = append(out, c)
		}
	}
	return out
}

// CuisineRules renders the multi-cuisine distribution instructions: an
// explicit day-by-day alternation example plus the requirement that every
// selected cuisine appears multiple times across the full duration.
func CuisineRules(cuisines []string, duration int) string {
	if len(cuisines) < 2 {
		return ""
	}
	var b strings.Builder
	b.WriteString("CUISINE DISTRIBUTION RULES:\n")
	fmt.Fprintf(&b, "The user selected %d cuisines: %s.\n", len(cuisines), strings.Join(cuisines, ", "))
	b.WriteString("Alternate cuisines across days, for example:\n")
	for d := 1; d <= duration && d <= 6; d++ {
		fmt.Fprintf(&b, "- Day %d: %s dishes\n", d, cuisines[(d-1)%len(cuisines)])
	}
	fmt.Fprintf(&b, "Every selected cuisine MUST appear on multiple days across the %d-day plan.\n", duration)
	return b.String()
}

// JSONExample is the literal output shape embedded in the prompt. Field
// names here are the contract the validator enforces.
const JSONExample = `{
  "days": [
    {
      "dayNumber": 1,
      "meals": [
        {
          "name": "Vegetable Poha",
          "mealType": "breakfast",
          "ingredients": [
            {"item": "flattened rice", "quantity": "1", "unit": "cup"},
            {"item": "peas", "quantity": "50", "unit": "g"}
          ],
          "recipe": "Rinse poha, saute with mustard seeds, add vegetables.",
          "protein": 12,
          "carbs": 45,
          "fats": 8,
          "fiber": 6,
          "calories": 300,
          "gi": "Low",
          "time": "20 mins",
          "tip": "Add lemon juice for better iron absorption."
        }
      ]
    }
  ]
}`
