package menucompare

import (
	"github.com/tablecraft/menu-importer/internal/entity"
)

// Compare matches extracted entities against the existing menu snapshot and
// classifies each as create/update/skip. Pure and synchronous; zero existing
// entities is not an error, it just yields more creates.
func Compare(extracted entity.ExtractedMenuData, existing *entity.ExistingMenuSnapshot) entity.MenuComparisonData {
	if existing == nil {
		existing = &entity.ExistingMenuSnapshot{}
	}

	out := entity.MenuComparisonData{ExtractedMenu: extracted}

	for _, cat := range extracted.Categories {
		out.Categories = append(out.Categories, compareCategory(cat, existing.Categories))
	}
	for _, g := range extracted.OptionGroups {
		out.OptionGroups = append(out.OptionGroups, compareOptionGroup(g, existing.OptionGroups))
	}
	out.Summary = summarize(out)
	return out
}

func compareCategory(cat entity.ExtractedCategory, existing []entity.ExistingCategory) entity.CategoryComparison {
	cmp := entity.CategoryComparison{Extracted: cat}

	var best *entity.ExistingCategory
	for i := range existing {
		score := Similarity(cat.Name, existing[i].Name)
		if best == nil || score > cmp.MatchScore {
			best = &existing[i]
			cmp.MatchScore = score
		}
	}
	if best != nil {
		id := best.ID
		cmp.MatchedCategoryID = &id
		cmp.MatchedName = best.Name
	}

	// Items are matched within the best-matched existing category only.
	var candidates []entity.ExistingItem
	if best != nil {
		candidates = best.Items
	}
	itemsChanged := false
	for _, item := range cat.Items {
		ic := compareItem(item, candidates)
		if ic.Action != entity.ActionSkip {
			itemsChanged = true
		}
		cmp.Items = append(cmp.Items, ic)
	}

	// The category's own score drives its action; changed items only veto
	// the skip classification.
	cmp.Action = classify(cmp.MatchScore, itemsChanged)
	return cmp
}

func compareItem(item entity.ExtractedItem, candidates []entity.ExistingItem) entity.ItemComparison {
	cmp := entity.ItemComparison{Extracted: item}

	var best *entity.ExistingItem
	for i := range candidates {
		score := itemMatchScore(item, candidates[i])
		if best == nil || score > cmp.MatchScore {
			best = &candidates[i]
			cmp.MatchScore = score
		}
	}

	var changes []entity.FieldChange
	if best != nil {
		id := best.ID
		cmp.MatchedItemID = &id
		cmp.MatchedName = best.Name
		changes = fieldChanges(item, *best)
	}

	cmp.Action = classify(cmp.MatchScore, len(changes) > 0)
	if cmp.Action == entity.ActionUpdate {
		cmp.Changes = changes
	}
	return cmp
}

// fieldChanges detects differing fields between an extracted item and its
// matched existing item. Currently price and description.
func fieldChanges(ext entity.ExtractedItem, exist entity.ExistingItem) []entity.FieldChange {
	var changes []entity.FieldChange
	if ext.Price != exist.Price {
		changes = append(changes, entity.FieldChange{
			Field:    "price",
			OldValue: exist.Price,
			NewValue: ext.Price,
		})
	}
	if ext.Description != "" && ext.Description != exist.Description {
		changes = append(changes, entity.FieldChange{
			Field:    "description",
			OldValue: exist.Description,
			NewValue: ext.Description,
		})
	}
	return changes
}

func compareOptionGroup(g entity.ExtractedOptionGroup, existing []entity.ExistingOptionGroup) entity.OptionGroupComparison {
	cmp := entity.OptionGroupComparison{Extracted: g}

	var best *entity.ExistingOptionGroup
	for i := range existing {
		score := Similarity(g.Name, existing[i].Name)
		if best == nil || score > cmp.MatchScore {
			best = &existing[i]
			cmp.MatchScore = score
		}
	}
	if best != nil {
		id := best.ID
		cmp.MatchedGroupID = &id
		cmp.MatchedName = best.Name
	}

	cmp.Action = classify(cmp.MatchScore, false)
	return cmp
}

// summarize counts per-action totals. Reporting only, no control flow.
func summarize(d entity.MenuComparisonData) entity.ComparisonSummary {
	var s entity.ComparisonSummary
	for _, c := range d.Categories {
		s.TotalCategories++
		switch c.Action {
		case entity.ActionCreate:
			s.NewCategories++
		case entity.ActionUpdate:
			s.UpdatedCategories++
		}
		for _, it := range c.Items {
			s.TotalItems++
			switch it.Action {
			case entity.ActionCreate:
				s.NewItems++
			case entity.ActionUpdate:
				s.UpdatedItems++
			}
		}
	}
	for _, g := range d.OptionGroups {
		s.TotalOptionGroups++
		switch g.Action {
		case entity.ActionCreate:
			s.NewOptionGroups++
		case entity.ActionUpdate:
			s.UpdatedOptionGroups++
		}
	}
	return s
}
