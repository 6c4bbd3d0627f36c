package menuextract

import (
	"github.com/tablecraft/menu-importer/constants"
	"github.com/tablecraft/menu-importer/internal/entity"
)

// moderate tests every extracted name and description against the moderation
// blocklist. A match replaces the entire field with a fixed placeholder,
// never a partial redaction.
func moderate(d *entity.ExtractedMenuData) int {
	hits := 0
	filterName := func(s *string) {
		if *s != "" && blocked(*s) {
			*s = constants.FilteredItemPlaceholder
			hits++
		}
	}
	filterDesc := func(s *string) {
		if *s != "" && blocked(*s) {
			*s = constants.FilteredDescriptionPlaceholder
			hits++
		}
	}

	for ci := range d.Categories {
		cat := &d.Categories[ci]
		filterName(&cat.Name)
		filterDesc(&cat.Description)
		for ii := range cat.Items {
			filterName(&cat.Items[ii].Name)
			filterDesc(&cat.Items[ii].Description)
		}
	}
	for gi := range d.OptionGroups {
		g := &d.OptionGroups[gi]
		filterName(&g.Name)
		filterDesc(&g.Description)
		for chi := range g.Choices {
			filterName(&g.Choices[chi].Name)
		}
	}
	return hits
}

func blocked(s string) bool {
	for _, p := range constants.ModerationBlocklist {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
