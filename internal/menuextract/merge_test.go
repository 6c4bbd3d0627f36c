package menuextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablecraft/menu-importer/internal/entity"
)

func TestMergeUnionsCategoriesCaseInsensitively(t *testing.T) {
	a := entity.ExtractedMenuData{
		Categories: []entity.ExtractedCategory{{
			Name:  "Drinks",
			Items: []entity.ExtractedItem{{Name: "Cola", Price: 300}},
		}},
		Confidence: 0.9,
	}
	b := entity.ExtractedMenuData{
		Categories: []entity.ExtractedCategory{{
			Name:  "drinks",
			Items: []entity.ExtractedItem{{Name: "Lemonade", Price: 350}},
		}},
		Confidence: 0.7,
	}

	merged := Merge(a, b)

	require.Len(t, merged.Categories, 1)
	assert.Equal(t, "Drinks", merged.Categories[0].Name)
	require.Len(t, merged.Categories[0].Items, 2)
	assert.Equal(t, "Cola", merged.Categories[0].Items[0].Name)
	assert.Equal(t, "Lemonade", merged.Categories[0].Items[1].Name)
	assert.InDelta(t, 0.8, merged.Confidence, 1e-9)
}

func TestMergeKeepsDuplicateItems(t *testing.T) {
	a := entity.ExtractedMenuData{Categories: []entity.ExtractedCategory{{
		Name:  "Mains",
		Items: []entity.ExtractedItem{{Name: "Risotto", Price: 1600}},
	}}}
	b := entity.ExtractedMenuData{Categories: []entity.ExtractedCategory{{
		Name:  "Mains",
		Items: []entity.ExtractedItem{{Name: "Risotto", Price: 1600}},
	}}}

	merged := Merge(a, b)

	require.Len(t, merged.Categories, 1)
	assert.Len(t, merged.Categories[0].Items, 2)
}

func TestMergeOptionGroupsUnionAppliesTo(t *testing.T) {
	a := entity.ExtractedMenuData{OptionGroups: []entity.ExtractedOptionGroup{{
		Name:      "Size",
		Type:      entity.OptionSingleSelect,
		AppliesTo: []string{"Cola"},
		Choices:   []entity.ExtractedOptionChoice{{Name: "Large", PriceModifier: 100}},
	}}}
	b := entity.ExtractedMenuData{OptionGroups: []entity.ExtractedOptionGroup{{
		Name:      "size",
		AppliesTo: []string{"cola", "Lemonade"},
	}}}

	merged := Merge(a, b)

	require.Len(t, merged.OptionGroups, 1)
	g := merged.OptionGroups[0]
	assert.Equal(t, "Size", g.Name)
	assert.Equal(t, []string{"Cola", "Lemonade"}, g.AppliesTo)
	require.Len(t, g.Choices, 1)
	assert.Equal(t, "Large", g.Choices[0].Name)
}

func TestMergeOrderIndependentNameSets(t *testing.T) {
	a := entity.ExtractedMenuData{
		Categories: []entity.ExtractedCategory{{Name: "Starters"}, {Name: "Mains"}},
		Confidence: 0.6,
	}
	b := entity.ExtractedMenuData{
		Categories: []entity.ExtractedCategory{{Name: "mains"}, {Name: "Desserts"}},
		Confidence: 0.8,
	}

	ab := Merge(a, b)
	ba := Merge(b, a)

	names := func(d entity.ExtractedMenuData) map[string]bool {
		set := map[string]bool{}
		for _, c := range d.Categories {
			set[c.Name] = true
		}
		return set
	}
	assert.Len(t, ab.Categories, 3)
	assert.Len(t, ba.Categories, 3)
	assert.InDelta(t, ab.Confidence, ba.Confidence, 1e-9)
	assert.Equal(t, len(names(ab)), len(names(ba)))
}

func TestMergeAssociativeByName(t *testing.T) {
	a := entity.ExtractedMenuData{Categories: []entity.ExtractedCategory{
		{Name: "Starters", Items: []entity.ExtractedItem{{Name: "Bruschetta", Price: 550}}},
	}}
	b := entity.ExtractedMenuData{Categories: []entity.ExtractedCategory{
		{Name: "starters", Items: []entity.ExtractedItem{{Name: "Garlic Bread", Price: 400}}},
		{Name: "Mains"},
	}}
	c := entity.ExtractedMenuData{Categories: []entity.ExtractedCategory{
		{Name: "Desserts"},
	}}

	flat := Merge(a, b, c)
	nested := Merge(Merge(a, b), c)

	require.Equal(t, len(flat.Categories), len(nested.Categories))
	for i := range flat.Categories {
		assert.Equal(t, flat.Categories[i].Name, nested.Categories[i].Name)
		assert.Equal(t, len(flat.Categories[i].Items), len(nested.Categories[i].Items))
	}
}

func TestMergeEdgeArities(t *testing.T) {
	empty := Merge()
	assert.InDelta(t, defaultConfidence, empty.Confidence, 1e-9)
	assert.Empty(t, empty.Categories)

	single := entity.ExtractedMenuData{Confidence: 0.42}
	assert.Equal(t, single, Merge(single))
}
