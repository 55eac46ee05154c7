// Package format renders menu values for display.
package format

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"

	"github.com/aaronsmenu/menu-web/internal/menu"
)

// CurrencySymbol prefixes every rendered price.
const CurrencySymbol = "₹"

// Price formats amount with the rupee sign and two decimals.
// Example: Price(250) => "₹250.00"
func Price(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		amount = 0
	}
	return CurrencySymbol + strconv.FormatFloat(amount, 'f', 2, 64)
}

// ParsePrice reads a value produced by Price. The currency sign is optional.
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, CurrencySymbol))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("format: parse price %q: %w", s, err)
	}
	return v, nil
}

var (
	markdown = newMarkdown()
	policy   = descriptionPolicy()
)

// newMarkdown only recognises paragraphs, so cells starting with "#", "1." or
// "-" are not turned into headings or lists.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(goldmark.WithParser(parser.NewParser(
		parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
		parser.WithInlineParsers(parser.DefaultInlineParsers()...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)))
}

func descriptionPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "strong", "em", "code")
	return p
}

// Description renders inline emphasis (**spicy**, _mild_) in a description
// cell. The cell is escaped first, so angle brackets and every other character
// are shown as written.
func Description(s string) template.HTML {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(template.HTMLEscapeString(s)), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(strings.TrimSpace(policy.Sanitize(buf.String())))
}

// TypeClass returns the marker class for an item type.
func TypeClass(t menu.ItemType) string {
	if t == menu.TypeVeg {
		return "marker-veg"
	}
	return "marker-non-veg"
}

// TypeLabel returns the accessible label for an item type.
func TypeLabel(t menu.ItemType) string {
	if t == menu.TypeVeg {
		return "Vegetarian"
	}
	return "Non-vegetarian"
}
