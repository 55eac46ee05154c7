// Package catalog holds the hand-curated category hierarchy shown for each
// language variant of the menu.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrDuplicateID is returned when a parent or sub-category id repeats.
	ErrDuplicateID = errors.New("catalog: duplicate id")
	// ErrEmptyID is returned when a parent or sub-category has no id.
	ErrEmptyID = errors.New("catalog: empty id")
)

// SubCategory is a second-level grouping. ID is matched against an item's
// category, ignoring case.
type SubCategory struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// ParentCategory is a top-level navigation entry.
type ParentCategory struct {
	ID            string        `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	Icon          string        `json:"icon" yaml:"icon"`
	SubCategories []SubCategory `json:"subCategories" yaml:"sub_categories"`
}

// Index is an immutable, ordered category hierarchy.
type Index struct {
	parents []ParentCategory
	byID    map[string]int
}

// NewIndex validates parents and builds an index. Parent ids must be unique
// and sub-category ids must be unique within their parent.
func NewIndex(parents []ParentCategory) (*Index, error) {
	idx := &Index{
		parents: make([]ParentCategory, 0, len(parents)),
		byID:    make(map[string]int, len(parents)),
	}
	for _, p := range parents {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("%w: parent %q", ErrEmptyID, p.Name)
		}
		if _, ok := idx.byID[p.ID]; ok {
			return nil, fmt.Errorf("%w: parent %q", ErrDuplicateID, p.ID)
		}
		seen := make(map[string]struct{}, len(p.SubCategories))
		subs := make([]SubCategory, 0, len(p.SubCategories))
		for _, s := range p.SubCategories {
			key := Key(s.ID)
			if key == "" {
				return nil, fmt.Errorf("%w: sub-category of %q", ErrEmptyID, p.ID)
			}
			if _, ok := seen[key]; ok {
				return nil, fmt.Errorf("%w: sub-category %q of %q", ErrDuplicateID, s.ID, p.ID)
			}
			seen[key] = struct{}{}
			subs = append(subs, s)
		}
		p.SubCategories = subs
		idx.byID[p.ID] = len(idx.parents)
		idx.parents = append(idx.parents, p)
	}
	return idx, nil
}

// MustIndex is like NewIndex but panics on invalid input.
func MustIndex(parents []ParentCategory) *Index {
	idx, err := NewIndex(parents)
	if err != nil {
		panic(err)
	}
	return idx
}

// Parents returns the parent categories in display order.
func (x *Index) Parents() []ParentCategory {
	if x == nil {
		return nil
	}
	out := make([]ParentCategory, len(x.parents))
	for i, p := range x.parents {
		out[i] = cloneParent(p)
	}
	return out
}

// Parent looks up a parent category by its exact id.
func (x *Index) Parent(id string) (ParentCategory, bool) {
	if x == nil {
		return ParentCategory{}, false
	}
	i, ok := x.byID[id]
	if !ok {
		return ParentCategory{}, false
	}
	return cloneParent(x.parents[i]), true
}

// FirstParent returns the id of the first parent, or "" for an empty index.
func (x *Index) FirstParent() string {
	if x == nil || len(x.parents) == 0 {
		return ""
	}
	return x.parents[0].ID
}

// SubCategoriesOf returns the ordered sub-categories of parentID, or an empty
// slice when the parent is unknown.
func (x *Index) SubCategoriesOf(parentID string) []SubCategory {
	p, ok := x.Parent(parentID)
	if !ok {
		return []SubCategory{}
	}
	return p.SubCategories
}

// FirstSubCategoryOf returns the id of the first sub-category of parentID, or
// "" when there is none.
func (x *Index) FirstSubCategoryOf(parentID string) string {
	subs := x.SubCategoriesOf(parentID)
	if len(subs) == 0 {
		return ""
	}
	return subs[0].ID
}

// SubCategory finds subID in parentID's list, ignoring case, and returns the
// canonical entry.
func (x *Index) SubCategory(parentID, subID string) (SubCategory, bool) {
	key := Key(subID)
	if key == "" {
		return SubCategory{}, false
	}
	for _, s := range x.SubCategoriesOf(parentID) {
		if Key(s.ID) == key {
			return s, true
		}
	}
	return SubCategory{}, false
}

// Len returns the number of parent categories.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.parents)
}

// Key is the comparison form of a category id: trimmed, NFC, case folded.
func Key(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// Casers keep state between calls and must not be shared.
	return cases.Fold().String(norm.NFC.String(s))
}

// SameCategory reports whether two category ids match ignoring case.
func SameCategory(a, b string) bool {
	ka := Key(a)
	return ka != "" && ka == Key(b)
}

func cloneParent(p ParentCategory) ParentCategory {
	subs := make([]SubCategory, len(p.SubCategories))
	copy(subs, p.SubCategories)
	p.SubCategories = subs
	return p
}
