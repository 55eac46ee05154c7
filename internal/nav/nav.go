// Package nav builds the category tab and language picker view models.
package nav

import (
	"net/url"

	"github.com/aaronsmenu/menu-web/internal/catalog"
	"github.com/aaronsmenu/menu-web/internal/menu"
)

// Tab is a view model for a category tab.
type Tab struct {
	ID     string
	Label  string
	Icon   string
	Href   string
	Active bool
}

// Language is a view model for the language picker.
type Language struct {
	Slug   string
	Label  string
	Href   string
	Active bool
}

// MenuPath returns the page path for a variant slug.
func MenuPath(slug string) string {
	return "/menu/" + url.PathEscape(slug)
}

// Href links to the menu page of slug with the given selection. Empty values
// are omitted.
func Href(slug, parentID, subID string) string {
	q := url.Values{}
	if parentID != "" {
		q.Set("category", parentID)
	}
	if subID != "" {
		q.Set("sub", subID)
	}
	if len(q) == 0 {
		return MenuPath(slug)
	}
	return MenuPath(slug) + "?" + q.Encode()
}

// Tabs renders the parent categories with the selected one active.
func Tabs(slug string, index *catalog.Index, sel menu.Selection) []Tab {
	parents := index.Parents()
	tabs := make([]Tab, 0, len(parents))
	for _, p := range parents {
		tabs = append(tabs, Tab{
			ID:     p.ID,
			Label:  p.Name,
			Icon:   p.Icon,
			Href:   Href(slug, p.ID, ""),
			Active: p.ID == sel.ParentID,
		})
	}
	return tabs
}

// SubTabs renders the sub-categories of the selected parent. A parent with a
// single sub-category gets no tabs.
func SubTabs(slug string, index *catalog.Index, sel menu.Selection) []Tab {
	subs := index.SubCategoriesOf(sel.ParentID)
	if len(subs) <= 1 {
		return []Tab{}
	}
	tabs := make([]Tab, 0, len(subs))
	for _, s := range subs {
		tabs = append(tabs, Tab{
			ID:     s.ID,
			Label:  s.Name,
			Href:   Href(slug, sel.ParentID, s.ID),
			Active: catalog.SameCategory(s.ID, sel.SubCategoryID),
		})
	}
	return tabs
}

// Languages lists every variant for the picker, marking current active.
func Languages(variants *catalog.Variants, current string) []Language {
	all := variants.All()
	out := make([]Language, 0, len(all))
	for _, v := range all {
		out = append(out, Language{
			Slug:   v.Slug,
			Label:  v.NativeName,
			Href:   MenuPath(v.Slug),
			Active: v.Slug == current,
		})
	}
	return out
}
