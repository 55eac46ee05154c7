package menu

import (
	"errors"

	"github.com/aaronsmenu/menu-web/internal/catalog"
)

// ErrUnknownSubCategory is returned when a sub-category is selected that does
// not belong to the selected parent.
var ErrUnknownSubCategory = errors.New("menu: sub-category not in selected parent")

// VisibleItems returns the items whose category equals subCategoryID ignoring
// case. An empty subCategoryID selects nothing. The result never aliases items.
func VisibleItems(items []Item, subCategoryID string) []Item {
	key := catalog.Key(subCategoryID)
	out := []Item{}
	if key == "" {
		return out
	}
	for _, it := range items {
		if catalog.Key(it.Category) == key {
			out = append(out, it)
		}
	}
	return out
}

// Selection is the navigation state: a parent category and one of its
// sub-categories.
type Selection struct {
	ParentID      string `json:"parentId"`
	SubCategoryID string `json:"subCategoryId"`
}

// Resolver tracks the selection for one loaded collection and recomputes the
// visible items on every transition. It is not safe for concurrent use.
type Resolver struct {
	index   *catalog.Index
	items   []Item
	state   Selection
	visible []Item
}

// NewResolver starts at the first parent of index and its first sub-category.
func NewResolver(index *catalog.Index, items []Item) *Resolver {
	r := &Resolver{
		index: index,
		items: cloneItems(items),
	}
	r.SelectParent(index.FirstParent())
	return r
}

// SelectParent moves to parentID and its first sub-category. Selecting a parent
// that has no sub-categories leaves nothing visible.
func (r *Resolver) SelectParent(parentID string) {
	r.state = Selection{
		ParentID:      parentID,
		SubCategoryID: r.index.FirstSubCategoryOf(parentID),
	}
	r.refresh()
}

// SelectSubCategory selects subID within the current parent. When subID is not
// one of the parent's sub-categories the state is left unchanged and
// ErrUnknownSubCategory is returned.
func (r *Resolver) SelectSubCategory(subID string) error {
	sub, ok := r.index.SubCategory(r.state.ParentID, subID)
	if !ok {
		return ErrUnknownSubCategory
	}
	r.state.SubCategoryID = sub.ID
	r.refresh()
	return nil
}

// State returns the current selection.
func (r *Resolver) State() Selection { return r.state }

// Visible returns the items shown for the current selection.
func (r *Resolver) Visible() []Item { return cloneItems(r.visible) }

// Items returns the full collection the resolver filters.
func (r *Resolver) Items() []Item { return cloneItems(r.items) }

// SubCategory returns the selected sub-category entry, if any.
func (r *Resolver) SubCategory() (catalog.SubCategory, bool) {
	return r.index.SubCategory(r.state.ParentID, r.state.SubCategoryID)
}

func (r *Resolver) refresh() {
	r.visible = VisibleItems(r.items, r.state.SubCategoryID)
}
