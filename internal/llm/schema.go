package llm

// BuildMenuJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. Passed to the completion service as a structured output
// constraint and also used locally to validate.
func BuildMenuJSONSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":         map[string]any{"type": "string", "minLength": 1},
			"description":  map[string]any{"type": "string"},
			"price":        map[string]any{"type": "integer", "minimum": 0},
			"allergens":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"categoryName": map[string]any{"type": "string"},
		},
		"required": []string{"name", "price"},
	}

	category := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":        map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string"},
			"items":       map[string]any{"type": "array", "items": item},
		},
		"required": []string{"name", "items"},
	}

	choice := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":          map[string]any{"type": "string", "minLength": 1},
			"priceModifier": map[string]any{"type": "integer"},
		},
		"required": []string{"name", "priceModifier"},
	}

	optionGroup := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":        map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string"},
			"type": map[string]any{
				"type": "string",
				"enum": []string{"single_select", "multi_select", "quantity_select"},
			},
			"isRequired": map[string]any{"type": "boolean"},
			"choices":    map[string]any{"type": "array", "items": choice},
			"appliesTo":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"name", "type", "choices"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"categories":   map[string]any{"type": "array", "items": category},
			"optionGroups": map[string]any{"type": "array", "items": optionGroup},
			"confidence":   map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		},
		"required": []string{"categories"},
	}
}
