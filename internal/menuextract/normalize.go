package menuextract

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tablecraft/menu-importer/internal/entity"
)

// Top-level keys that are never treated as implicit category names when
// recovering an arbitrary model shape.
var reservedKeys = map[string]struct{}{
	"confidence":    {},
	"optionGroups":  {},
	"option_groups": {},
	"options":       {},
	"modifiers":     {},
}

const defaultConfidence = 0.7

// TitleCase trims, lowercases, then capitalizes each word. Applied to names
// on the schema-constrained path for consistent downstream matching.
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// normalizeRaw interprets a generic decoded model payload as ExtractedMenuData.
// Canonical {categories, optionGroups, confidence} shapes are normalized in
// place; anything else falls back to key-to-category inference, where each
// non-reserved top-level key holding an array becomes a category.
//
// Casing note: the canonical branch title-cases names; the inference branch
// deliberately does not re-case item names the model already produced, only
// the category names it derives from keys.
func normalizeRaw(m map[string]any) entity.ExtractedMenuData {
	if rawCats, ok := m["categories"].([]any); ok {
		return entity.ExtractedMenuData{
			Categories:   parseCategories(rawCats, true),
			OptionGroups: parseOptionGroups(optionGroupsValue(m)),
			Confidence:   confidenceValue(m),
		}
	}

	// Key-to-category inference: e.g. {"main_courses": [...]} becomes a
	// "Main Courses" category.
	var cats []entity.ExtractedCategory
	for _, k := range sortedKeys(m) {
		if _, reserved := reservedKeys[k]; reserved {
			continue
		}
		arr, ok := m[k].([]any)
		if !ok {
			continue
		}
		name := TitleCase(strings.ReplaceAll(k, "_", " "))
		cat := entity.ExtractedCategory{Name: name}
		for _, el := range arr {
			im, ok := el.(map[string]any)
			if !ok {
				continue
			}
			cat.Items = append(cat.Items, parseItem(im, false))
		}
		cats = append(cats, cat)
	}

	return entity.ExtractedMenuData{
		Categories:   cats,
		OptionGroups: parseOptionGroups(optionGroupsValue(m)),
		Confidence:   confidenceValue(m),
	}
}

func parseCategories(raw []any, recase bool) []entity.ExtractedCategory {
	var out []entity.ExtractedCategory
	for _, el := range raw {
		cm, ok := el.(map[string]any)
		if !ok {
			continue
		}
		cat := entity.ExtractedCategory{
			Name:        stringValue(cm, "name"),
			Description: stringValue(cm, "description"),
		}
		if recase {
			cat.Name = TitleCase(cat.Name)
		}
		if items, ok := cm["items"].([]any); ok {
			for _, it := range items {
				im, ok := it.(map[string]any)
				if !ok {
					continue
				}
				cat.Items = append(cat.Items, parseItem(im, recase))
			}
		}
		out = append(out, cat)
	}
	return out
}

func parseItem(m map[string]any, recase bool) entity.ExtractedItem {
	item := entity.ExtractedItem{
		Name:         stringValue(m, "name"),
		Description:  stringValue(m, "description"),
		Price:        minorUnits(firstValue(m, "price", "price_cents", "amount")),
		Allergens:    stringSlice(m["allergens"]),
		CategoryName: firstString(m, "categoryName", "category_name", "category"),
	}
	if recase {
		item.Name = TitleCase(item.Name)
	}
	if item.Price < 0 {
		item.Price = 0
	}
	return item
}

func optionGroupsValue(m map[string]any) []any {
	for _, k := range []string{"optionGroups", "option_groups", "options", "modifiers"} {
		if arr, ok := m[k].([]any); ok {
			return arr
		}
	}
	return nil
}

func parseOptionGroups(raw []any) []entity.ExtractedOptionGroup {
	var out []entity.ExtractedOptionGroup
	for _, el := range raw {
		gm, ok := el.(map[string]any)
		if !ok {
			continue
		}
		g := entity.ExtractedOptionGroup{
			Name:        stringValue(gm, "name"),
			Description: stringValue(gm, "description"),
			Type:        normalizeGroupType(firstString(gm, "type", "selection_type")),
			IsRequired:  boolValue(firstValue(gm, "isRequired", "is_required", "required")),
			AppliesTo:   stringSlice(firstValue(gm, "appliesTo", "applies_to", "items")),
		}
		if choices, ok := firstValue(gm, "choices", "options").([]any); ok {
			for _, ch := range choices {
				chm, ok := ch.(map[string]any)
				if !ok {
					continue
				}
				g.Choices = append(g.Choices, entity.ExtractedOptionChoice{
					Name:          stringValue(chm, "name"),
					PriceModifier: minorUnits(firstValue(chm, "priceModifier", "price_modifier", "price")),
				})
			}
		}
		out = append(out, g)
	}
	return out
}

func normalizeGroupType(s string) entity.OptionGroupType {
	switch strings.ToLower(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s))) {
	case "multi_select", "multi", "multiple", "multiple_select":
		return entity.OptionMultiSelect
	case "quantity_select", "quantity":
		return entity.OptionQuantitySelect
	default:
		return entity.OptionSingleSelect
	}
}

// minorUnits coerces a model-supplied price into integer minor units.
// Whole numbers are taken as already-minor units; fractional values are
// treated as major units and converted (12.5 -> 1250).
func minorUnits(v any) int {
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) {
			return int(t)
		}
		return int(math.Round(t * 100))
	case int:
		return t
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimLeft(s, "$€£¥")
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return minorUnits(f)
	default:
		return 0
	}
}

func stringValue(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func firstValue(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}

func boolValue(v any) bool {
	b, _ := v.(bool)
	return b
}

func stringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, el := range arr {
		if s, ok := el.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func confidenceValue(m map[string]any) float64 {
	if f, ok := m["confidence"].(float64); ok && f >= 0 && f <= 1 {
		return f
	}
	return defaultConfidence
}

// sortedKeys keeps inferred category order deterministic regardless of map
// iteration order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
