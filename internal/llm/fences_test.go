package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"no fences":      {`{"a":1}`, `{"a":1}`},
		"plain fence":    {"```\n{\"a\":1}\n```", `{"a":1}`},
		"json fence":     {"```json\n{\"a\":1}\n```", `{"a":1}`},
		"padded":         {"  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		"no close fence": {"```json\n{\"a\":1}", `{"a":1}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripCodeFences(tc.in))
		})
	}
}

func TestBuildUserPromptDelimitsDocument(t *testing.T) {
	out := BuildUserPrompt("Pizza - 12.00", PromptContext{
		ExistingCategoryNames: []string{"Pizzas"},
		ExistingItemNames:     []string{"Margherita Pizza"},
	})
	assert.Contains(t, out, "<menu-document>\nPizza - 12.00\n</menu-document>")
	assert.Contains(t, out, "Pizzas")
	assert.Contains(t, out, "Margherita Pizza")
}

func TestValidateMenuSchemaAcceptsCanonicalShape(t *testing.T) {
	doc := []byte(`{
		"categories": [
			{"name": "Pizzas", "items": [{"name": "Margherita Pizza", "price": 1200}]}
		],
		"optionGroups": [
			{"name": "Size", "type": "single_select", "isRequired": true,
			 "choices": [{"name": "Large", "priceModifier": 300}]}
		],
		"confidence": 0.92
	}`)
	assert.NoError(t, ValidateJSONAgainstSchema(BuildMenuJSONSchema(), doc))
}

func TestValidateMenuSchemaRejectsBadShape(t *testing.T) {
	doc := []byte(`{"categories": "not-an-array"}`)
	assert.Error(t, ValidateJSONAgainstSchema(BuildMenuJSONSchema(), doc))
}
