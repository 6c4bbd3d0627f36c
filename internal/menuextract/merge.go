package menuextract

import (
	"strings"

	"github.com/tablecraft/menu-importer/internal/entity"
)

// Merge unions per-chunk extraction results. Categories and option groups are
// unioned by case-insensitive name (first-seen casing wins); colliding
// categories concatenate their items without dedup; colliding option groups
// set-union their appliesTo lists. Confidence is the arithmetic mean across
// inputs. Union semantics are order-independent, so callers may merge chunk
// results in any order.
func Merge(results ...entity.ExtractedMenuData) entity.ExtractedMenuData {
	if len(results) == 0 {
		return entity.ExtractedMenuData{Confidence: defaultConfidence}
	}
	if len(results) == 1 {
		return results[0]
	}

	var (
		catOrder   []string
		catByKey   = map[string]*entity.ExtractedCategory{}
		groupOrder []string
		groupByKey = map[string]*entity.ExtractedOptionGroup{}
		confSum    float64
	)

	for _, r := range results {
		confSum += r.Confidence

		for _, c := range r.Categories {
			key := strings.ToLower(strings.TrimSpace(c.Name))
			if existing, ok := catByKey[key]; ok {
				existing.Items = append(existing.Items, c.Items...)
				if existing.Description == "" {
					existing.Description = c.Description
				}
				continue
			}
			clone := c
			clone.Items = append([]entity.ExtractedItem(nil), c.Items...)
			catByKey[key] = &clone
			catOrder = append(catOrder, key)
		}

		for _, g := range r.OptionGroups {
			key := strings.ToLower(strings.TrimSpace(g.Name))
			if existing, ok := groupByKey[key]; ok {
				existing.AppliesTo = unionStrings(existing.AppliesTo, g.AppliesTo)
				if len(existing.Choices) == 0 {
					existing.Choices = append([]entity.ExtractedOptionChoice(nil), g.Choices...)
				}
				continue
			}
			clone := g
			clone.Choices = append([]entity.ExtractedOptionChoice(nil), g.Choices...)
			clone.AppliesTo = append([]string(nil), g.AppliesTo...)
			groupByKey[key] = &clone
			groupOrder = append(groupOrder, key)
		}
	}

	out := entity.ExtractedMenuData{Confidence: confSum / float64(len(results))}
	for _, key := range catOrder {
		out.Categories = append(out.Categories, *catByKey[key])
	}
	for _, key := range groupOrder {
		out.OptionGroups = append(out.OptionGroups, *groupByKey[key])
	}
	return out
}

// unionStrings appends elements of b not already in a (case-insensitive).
func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a))
	for _, s := range a {
		seen[strings.ToLower(s)] = struct{}{}
	}
	for _, s := range b {
		if _, ok := seen[strings.ToLower(s)]; !ok {
			seen[strings.ToLower(s)] = struct{}{}
			a = append(a, s)
		}
	}
	return a
}
