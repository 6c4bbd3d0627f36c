package entity

// Option group selection behavior.
type OptionGroupType string

const (
	OptionSingleSelect   OptionGroupType = "single_select"
	OptionMultiSelect    OptionGroupType = "multi_select"
	OptionQuantitySelect OptionGroupType = "quantity_select"
)

// ExtractedItem is a single menu item produced by the extraction engine.
// Prices are integer minor currency units. Immutable once produced.
type ExtractedItem struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Price        int      `json:"price"`
	Allergens    []string `json:"allergens,omitempty"`
	CategoryName string   `json:"categoryName"`
}

// ExtractedCategory groups items. Every contained item's CategoryName equals
// the category's Name; the engine re-stamps this before returning.
type ExtractedCategory struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Items       []ExtractedItem `json:"items"`
}

type ExtractedOptionChoice struct {
	Name          string `json:"name"`
	PriceModifier int    `json:"priceModifier"` // minor units, may be negative
}

type ExtractedOptionGroup struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Type        OptionGroupType         `json:"type"`
	IsRequired  bool                    `json:"isRequired"`
	Choices     []ExtractedOptionChoice `json:"choices"`
	AppliesTo   []string                `json:"appliesTo,omitempty"` // item names
}

// ExtractedMenuData is the contract boundary between the extraction engine
// and the comparison engine.
type ExtractedMenuData struct {
	Categories   []ExtractedCategory    `json:"categories"`
	OptionGroups []ExtractedOptionGroup `json:"optionGroups"`
	Confidence   float64                `json:"confidence"`
}

// ExistingMenuSnapshot mirrors the live menu shape. Read-only input to
// comparison; never mutated by the pipeline.
type ExistingMenuSnapshot struct {
	StoreRef     string                `json:"storeRef"`
	Categories   []ExistingCategory    `json:"categories"`
	OptionGroups []ExistingOptionGroup `json:"optionGroups"`
}

type ExistingCategory struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Items       []ExistingItem `json:"items"`
}

type ExistingItem struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       int      `json:"price"`
	Allergens   []string `json:"allergens,omitempty"`
}

type ExistingOptionGroup struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Type        OptionGroupType `json:"type"`
}
