// Package catalog holds the static product catalog in memory and answers the
// listing, search and detail lookups the storefront needs.
//
// A Catalog is built once at startup and never mutated afterwards, so a single
// value can be shared by every request handler without locking.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"dp-catalog/internal/model"
)

// ErrNotFound is returned when a category or item identifier does not match
// anything in the catalog.
var ErrNotFound = errors.New("catalog: not found")

// Catalog is the immutable, load-once view over the product document.
type Catalog struct {
	categories []model.Category
	byCategory map[string]int

	items    []model.ListedItem
	byItemID map[string]int

	rejections []Rejection
}

// Load reads and parses the catalog document at path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog document from r.
func Parse(r io.Reader) (*Catalog, error) {
	var doc model.CatalogFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return New(doc.Categories), nil
}

// New builds a Catalog from already decoded categories. Categories and items
// that fail validation are left out and reported through Rejections.
func New(categories []model.Category) *Catalog {
	c := &Catalog{
		categories: make([]model.Category, 0, len(categories)),
		byCategory: make(map[string]int, len(categories)),
		byItemID:   make(map[string]int),
	}

	for _, cat := range categories {
		if valid, reason := ValidateCategory(cat); !valid {
			c.reject("category:"+cat.ID, reason)
			continue
		}
		if _, dup := c.byCategory[cat.ID]; dup {
			c.reject("category:"+cat.ID, "duplicate category id")
			continue
		}

		items := make([]model.Item, 0, len(cat.Items))
		for _, item := range cat.Items {
			if valid, reason := ValidateItem(item); !valid {
				c.reject("item:"+cat.ID+":"+item.ID, reason)
				continue
			}
			// Item ids are global lookup keys, first occurrence wins.
			if _, dup := c.byItemID[item.ID]; dup {
				c.reject("item:"+cat.ID+":"+item.ID, "duplicate item id")
				continue
			}
			c.byItemID[item.ID] = len(c.items)
			c.items = append(c.items, model.ListedItem{
				Item:         item,
				CategoryID:   cat.ID,
				CategoryName: cat.Name,
			})
			items = append(items, item)
		}
		cat.Items = items

		c.byCategory[cat.ID] = len(c.categories)
		c.categories = append(c.categories, cat)
	}

	return c
}

func (c *Catalog) reject(scope, reason string) {
	c.rejections = append(c.rejections, Rejection{Scope: scope, Reason: reason})
}

// Categories returns the categories in document order.
func (c *Catalog) Categories() []model.Category {
	out := make([]model.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Items returns every item flattened across categories, in document order.
func (c *Catalog) Items() []model.ListedItem {
	out := make([]model.ListedItem, len(c.items))
	copy(out, c.items)
	return out
}

// Category resolves a category by id.
func (c *Catalog) Category(id string) (model.Category, error) {
	idx, ok := c.byCategory[id]
	if !ok {
		return model.Category{}, fmt.Errorf("category %q: %w", id, ErrNotFound)
	}
	return c.categories[idx], nil
}

// Item resolves a product by id, falling back to a scan over slugs.
func (c *Catalog) Item(idOrSlug string) (model.ListedItem, error) {
	if idx, ok := c.byItemID[idOrSlug]; ok {
		return c.items[idx], nil
	}
	for _, it := range c.items {
		if it.Slug != "" && it.Slug == idOrSlug {
			return it, nil
		}
	}
	return model.ListedItem{}, fmt.Errorf("item %q: %w", idOrSlug, ErrNotFound)
}

// Related returns up to limit other items from the same category as item.
func (c *Catalog) Related(item model.ListedItem, limit int) []model.ListedItem {
	out := []model.ListedItem{}
	for _, it := range c.items {
		if len(out) >= limit {
			break
		}
		if it.CategoryID == item.CategoryID && it.ID != item.ID {
			out = append(out, it)
		}
	}
	return out
}

// Rejections lists the categories and items dropped while building the catalog.
func (c *Catalog) Rejections() []Rejection {
	out := make([]Rejection, len(c.rejections))
	copy(out, c.rejections)
	return out
}
