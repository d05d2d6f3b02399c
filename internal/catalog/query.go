package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"dp-catalog/internal/model"
)

// AllCategories is the category selection that disables category filtering.
const AllCategories = "all"

type SortField string

const (
	SortByName SortField = "name"
	SortByID   SortField = "id"
)

type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// Query describes a product listing request.
type Query struct {
	Search   string    // case-insensitive substring over name and description
	Category string    // category id, AllCategories or empty for every category
	SortBy   SortField // SortByName when unset or unknown
	Order    SortOrder // Ascending unless Descending
}

// ParseSortField maps a user supplied value onto a SortField.
func ParseSortField(s string) SortField {
	if SortField(strings.ToLower(s)) == SortByID {
		return SortByID
	}
	return SortByName
}

// ParseSortOrder maps a user supplied value onto a SortOrder.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(strings.ToLower(s)) == Descending {
		return Descending
	}
	return Ascending
}

// Query filters and orders the flattened item list. An empty result is not an
// error.
func (c *Catalog) Query(q Query) []model.ListedItem {
	search := strings.ToLower(q.Search)
	allCats := q.Category == "" || q.Category == AllCategories

	out := []model.ListedItem{}
	for _, it := range c.items {
		if !allCats && it.CategoryID != q.Category {
			continue
		}
		if search != "" && !matches(it, search) {
			continue
		}
		out = append(out, it)
	}

	sortItems(out, q.SortBy, q.Order)
	return out
}

func matches(it model.ListedItem, needle string) bool {
	return strings.Contains(strings.ToLower(it.Name), needle) ||
		strings.Contains(strings.ToLower(it.Description), needle)
}

// sortItems orders items in place by field, keeping the relative order of
// items that compare equal.
func sortItems(items []model.ListedItem, field SortField, order SortOrder) {
	key := func(it model.ListedItem) string { return it.Name }
	if field == SortByID {
		key = func(it model.ListedItem) string { return it.ID }
	}

	// Collators keep internal buffers and are not safe for concurrent use.
	col := collate.New(language.English)
	slices.SortStableFunc(items, func(a, b model.ListedItem) int {
		cmp := col.CompareString(key(a), key(b))
		if order == Descending {
			return -cmp
		}
		return cmp
	})
}
