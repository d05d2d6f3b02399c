package model

// CatalogFile models the static product document: a top-level categories
// mapping keyed by category id.
type CatalogFile struct {
	Categories OrderedCategories `json:"categories"`
}

type Category struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Overview     string   `json:"overview,omitempty"`
	Advantages   []string `json:"advantages,omitempty"`
	Applications []string `json:"applications,omitempty"`
	Items        []Item   `json:"items"`
}

type Item struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Slug           string         `json:"slug"`
	Image          string         `json:"image"`
	Description    string         `json:"description,omitempty"`
	Price          *PriceRange    `json:"price,omitempty"`
	Specifications map[string]any `json:"specifications,omitempty"`
	Features       []string       `json:"features,omitempty"`
	Applications   []string       `json:"applications,omitempty"`
}

type PriceRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
	Unit     string  `json:"unit"`
}

// ListedItem is an Item flattened out of its category for listing pages.
type ListedItem struct {
	Item
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}
