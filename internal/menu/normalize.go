package menu

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Feed column names.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldCategory    = "category"
	FieldPrice       = "price"
	FieldType        = "type"
	FieldDescription = "description"
	FieldLanguage    = "language"
)

// Normalize converts a raw feed row into an Item for the target language.
// It reports false when the row belongs to another language. Normalize never
// rejects a row for bad field values: a missing or unparseable price becomes 0,
// any type other than "veg" becomes non-veg, and absent text fields are "".
// The returned item's Language is target as given, not the raw cell.
func Normalize(raw Record, target string) (Item, bool) {
	if !languageMatches(raw.Get(FieldLanguage), target) {
		return Item{}, false
	}
	return Item{
		ID:          trimField(raw.Get(FieldID)),
		Name:        textField(raw.Get(FieldName)),
		Category:    textField(raw.Get(FieldCategory)),
		Price:       parsePrice(raw.Get(FieldPrice)),
		Type:        parseType(raw.Get(FieldType)),
		Description: textField(raw.Get(FieldDescription)),
		Language:    strings.TrimSpace(target),
	}, true
}

// NormalizeAll normalizes records for target and keeps feed order.
func NormalizeAll(records []Record, target string) []Item {
	items := make([]Item, 0, len(records))
	for _, rec := range records {
		if item, ok := Normalize(rec, target); ok {
			items = append(items, item)
		}
	}
	return items
}

func languageMatches(raw, target string) bool {
	return lowerField(raw) == lowerField(target)
}

func trimField(s string) string {
	return strings.TrimSpace(s)
}

func lowerField(s string) string {
	return strings.ToLower(trimField(s))
}

// textField trims and composes to NFC so that Gujarati and Devanagari text
// typed with different input methods compares equal.
func textField(s string) string {
	s = trimField(s)
	if s == "" {
		return s
	}
	return norm.NFC.String(s)
}

func parsePrice(s string) float64 {
	v, ok := decimalNumber(s)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}

// decimalNumber parses a plain decimal number. Go literal forms that
// strconv also accepts (digit separators, hex mantissas) are rejected.
func decimalNumber(s string) (float64, bool) {
	s = trimField(s)
	if s == "" || strings.ContainsRune(s, '_') {
		return 0, false
	}
	unsigned := strings.TrimLeft(s, "+-")
	if len(unsigned) > 1 && unsigned[0] == '0' && (unsigned[1] == 'x' || unsigned[1] == 'X') {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseType(s string) ItemType {
	if lowerField(s) == string(TypeVeg) {
		return TypeVeg
	}
	return TypeNonVeg
}
