// Package menu turns a published menu spreadsheet into typed items and resolves
// which of them are visible for a category selection.
package menu

// ItemType marks an item as vegetarian or not.
type ItemType string

const (
	TypeVeg    ItemType = "veg"
	TypeNonVeg ItemType = "non-veg"
)

// Item is a normalized menu entry. Values are never modified after Normalize
// returns them.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Type        ItemType `json:"type"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
}

// IsVeg reports whether the item is vegetarian.
func (i Item) IsVeg() bool { return i.Type == TypeVeg }

// Collection is the result of one feed load for one language.
type Collection struct {
	Language string
	Items    []Item
	// Records is the number of rows read from the feed before language filtering.
	Records int
	// Skipped is the number of rows the parser could not read.
	Skipped int
}

// Len returns the number of items in the collection.
func (c Collection) Len() int { return len(c.Items) }

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
