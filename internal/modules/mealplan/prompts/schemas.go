package prompts

func StringArraySchema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}

func NumberSchema() map[string]any {
	return map[string]any{"type": "number"}
}

func IntSchema() map[string]any {
	return map[string]any{"type": "integer"}
}

func EnumSchema(values ...string) map[string]any {
	arr := make([]any, 0, len(values))
	for _, v := range values {
		arr = append(arr, v)
	}
	return map[string]any{"type": "string", "enum": arr}
}

func ingredientSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"item":     map[string]any{"type": "string"},
			"quantity": map[string]any{"type": "string"},
			"unit":     map[string]any{"type": "string"},
		},
		"required":             []string{"item", "quantity"},
		"additionalProperties": false,
	}
}

func mealSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":     map[string]any{"type": "string"},
			"mealType": EnumSchema("breakfast", "lunch", "dinner", "snack"),
			"ingredients": map[string]any{
				"type":  "array",
				"items": ingredientSchema(),
			},
			"recipe":   map[string]any{"type": "string"},
			"protein":  NumberSchema(),
			"carbs":    NumberSchema(),
			"fats":     NumberSchema(),
			"fiber":    NumberSchema(),
			"calories": NumberSchema(),
			"gi":       EnumSchema("Low", "Medium", "High"),
			"time":     map[string]any{"type": "string"},
			"tip":      map[string]any{"type": "string"},
		},
		"required":             []string{"name", "mealType", "ingredients", "protein", "carbs", "fats", "calories"},
		"additionalProperties": false,
	}
}

// MealPlanSchema is the strict output contract for meal-plan generation.
func MealPlanSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"days": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"dayNumber": IntSchema(),
						"meals": map[string]any{
							"type":  "array",
							"items": mealSchema(),
						},
					},
					"required":             []string{"dayNumber", "meals"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"days"},
		"additionalProperties": false,
	}
}

// ChatReplySchema keeps chat answers as a single text field.
func ChatReplySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reply": map[string]any{"type": "string"},
		},
		"required":             []string{"reply"},
		"additionalProperties": false,
	}
}
