package entity

// DiffAction classifies an extracted entity against the existing menu.
type DiffAction string

const (
	ActionCreate DiffAction = "create"
	ActionUpdate DiffAction = "update"
	ActionSkip   DiffAction = "skip"
)

// Entity type labels used by selective application.
type EntityType string

const (
	EntityCategory    EntityType = "category"
	EntityItem        EntityType = "item"
	EntityOptionGroup EntityType = "option_group"
)

// FieldChange is emitted per differing field on an update-classified item.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue any    `json:"oldValue"`
	NewValue any    `json:"newValue"`
}

type ItemComparison struct {
	Extracted     ExtractedItem `json:"extracted"`
	MatchedItemID *int64        `json:"matchedItemId,omitempty"`
	MatchedName   string        `json:"matchedName,omitempty"`
	Action        DiffAction    `json:"action"`
	MatchScore    float64       `json:"matchScore"`
	Changes       []FieldChange `json:"changes,omitempty"`
}

type CategoryComparison struct {
	Extracted         ExtractedCategory `json:"extracted"`
	MatchedCategoryID *int64            `json:"matchedCategoryId,omitempty"`
	MatchedName       string            `json:"matchedName,omitempty"`
	Action            DiffAction        `json:"action"`
	MatchScore        float64           `json:"matchScore"`
	Items             []ItemComparison  `json:"items"`
}

type OptionGroupComparison struct {
	Extracted      ExtractedOptionGroup `json:"extracted"`
	MatchedGroupID *int64               `json:"matchedGroupId,omitempty"`
	MatchedName    string               `json:"matchedName,omitempty"`
	Action         DiffAction           `json:"action"`
	MatchScore     float64              `json:"matchScore"`
}

// ComparisonSummary aggregates per-action totals for reporting.
type ComparisonSummary struct {
	TotalCategories     int `json:"totalCategories"`
	NewCategories       int `json:"newCategories"`
	UpdatedCategories   int `json:"updatedCategories"`
	TotalItems          int `json:"totalItems"`
	NewItems            int `json:"newItems"`
	UpdatedItems        int `json:"updatedItems"`
	TotalOptionGroups   int `json:"totalOptionGroups"`
	NewOptionGroups     int `json:"newOptionGroups"`
	UpdatedOptionGroups int `json:"updatedOptionGroups"`
}

// MenuComparisonData is the full reconciliation result. It is persisted on
// READY jobs and later re-read by the review UI and the apply path, so its
// shape must stay stable.
type MenuComparisonData struct {
	ExtractedMenu ExtractedMenuData       `json:"extractedMenu"`
	Categories    []CategoryComparison    `json:"categories"`
	OptionGroups  []OptionGroupComparison `json:"optionGroups"`
	Summary       ComparisonSummary       `json:"summary"`
}
