package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OrderedCategories keeps categories in the order they appear in the JSON
// object, which drives the order of listings and category menus.
type OrderedCategories []Category

func (oc *OrderedCategories) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*oc = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("categories: expected object, got %v", tok)
	}

	out := OrderedCategories{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("categories: expected string key, got %v", keyTok)
		}

		var cat Category
		if err := dec.Decode(&cat); err != nil {
			return fmt.Errorf("categories[%s]: %w", key, err)
		}
		// The map key is authoritative for lookups.
		if cat.ID == "" {
			cat.ID = key
		} else if cat.ID != key {
			return fmt.Errorf("categories[%s]: id %q does not match key", key, cat.ID)
		}
		out = append(out, cat)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*oc = out
	return nil
}
