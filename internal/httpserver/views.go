package httpserver

import (
	"github.com/aaronsmenu/menu-web/internal/catalog"
	"github.com/aaronsmenu/menu-web/internal/menu"
	"github.com/aaronsmenu/menu-web/internal/nav"
)

// pageView feeds both the language picker and the menu page.
type pageView struct {
	Page  string
	Lang  string
	Brand string
	Title string

	Heading   string
	Languages []nav.Language

	Back    string
	Empty   string
	Tabs    []nav.Tab
	SubTabs []nav.Tab
	Items   []menu.Item
}

type menuResponse struct {
	Language   string                   `json:"language"`
	Slug       string                   `json:"slug"`
	Categories []catalog.ParentCategory `json:"categories"`
	Selection  menu.Selection           `json:"selection"`
	Items      []menu.Item              `json:"items"`
	Total      int                      `json:"total"`
	Skipped    int                      `json:"skipped,omitempty"`
}
