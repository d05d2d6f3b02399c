package catalog

import (
	"dp-catalog/internal/model"
)

// Rejection records a dropped scope (category/item) with reason.
type Rejection struct {
	Scope  string `json:"scope"`  // e.g. "category:metering-pumps" or "item:metering-pumps:mr-g"
	Reason string `json:"reason"` // e.g. "item.name missing"
}

// ValidateCategory performs category-level validation.
// If a category is invalid, the whole category and its items are discarded.
func ValidateCategory(cat model.Category) (valid bool, rejectReason string) {
	if cat.ID == "" {
		return false, "category.id missing"
	}
	if cat.Name == "" {
		return false, "category.name missing"
	}
	return true, ""
}

// ValidateItem performs item-level validation.
// If an item is invalid, only that item is discarded (category continues).
func ValidateItem(item model.Item) (valid bool, rejectReason string) {
	if item.ID == "" {
		return false, "item.id missing"
	}
	if item.Name == "" {
		return false, "item.name missing"
	}
	if p := item.Price; p != nil {
		if p.Currency == "" {
			return false, "item.price.currency missing"
		}
		if p.Min < 0 || p.Max < p.Min {
			return false, "item.price range invalid"
		}
	}
	return true, ""
}
