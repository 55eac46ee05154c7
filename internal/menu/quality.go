package menu

import (
	"sort"
	"strconv"

	"github.com/aaronsmenu/menu-web/internal/catalog"
)

// Report summarises data-quality findings for one language of a feed. It only
// describes the defaults Normalize applied; it never changes them.
type Report struct {
	Language string `json:"language"`
	Records  int    `json:"records"`
	Items    int    `json:"items"`
	// UnknownTypes maps raw type values other than veg/non-veg to item ids.
	UnknownTypes map[string][]string `json:"unknownTypes,omitempty"`
	// BadPrices lists ids whose price cell was present but not a non-negative number.
	BadPrices []string `json:"badPrices,omitempty"`
	// EmptyNames lists ids of items without a name.
	EmptyNames []string `json:"emptyNames,omitempty"`
	// DuplicateIDs lists ids used by more than one item.
	DuplicateIDs []string `json:"duplicateIds,omitempty"`
	// Uncategorized lists ids whose category matches no sub-category.
	Uncategorized []string `json:"uncategorized,omitempty"`
}

// Clean reports whether no finding was recorded.
func (r Report) Clean() bool {
	return len(r.UnknownTypes) == 0 && len(r.BadPrices) == 0 && len(r.EmptyNames) == 0 &&
		len(r.DuplicateIDs) == 0 && len(r.Uncategorized) == 0
}

// Inspect checks the records of target against the category index. A nil
// index skips the category check.
func Inspect(records []Record, target string, index *catalog.Index) Report {
	rep := Report{Language: target, Records: len(records)}
	known := knownCategories(index)
	seen := map[string]int{}

	for i, rec := range records {
		item, ok := Normalize(rec, target)
		if !ok {
			continue
		}
		rep.Items++
		ref := item.ID
		if ref == "" {
			ref = "row " + strconv.Itoa(i+1)
		}

		switch rawType := lowerField(rec.Get(FieldType)); rawType {
		case string(TypeVeg), string(TypeNonVeg):
		default:
			if rep.UnknownTypes == nil {
				rep.UnknownTypes = map[string][]string{}
			}
			rep.UnknownTypes[rawType] = append(rep.UnknownTypes[rawType], ref)
		}
		if rawPrice := trimField(rec.Get(FieldPrice)); rawPrice != "" && item.Price == 0 && !isZero(rawPrice) {
			rep.BadPrices = append(rep.BadPrices, ref)
		}
		if item.Name == "" {
			rep.EmptyNames = append(rep.EmptyNames, ref)
		}
		if item.ID != "" {
			seen[item.ID]++
		}
		if known != nil {
			if _, ok := known[catalog.Key(item.Category)]; !ok {
				rep.Uncategorized = append(rep.Uncategorized, ref)
			}
		}
	}

	for id, n := range seen {
		if n > 1 {
			rep.DuplicateIDs = append(rep.DuplicateIDs, id)
		}
	}
	sort.Strings(rep.DuplicateIDs)
	return rep
}

func knownCategories(index *catalog.Index) map[string]struct{} {
	if index == nil {
		return nil
	}
	known := map[string]struct{}{}
	for _, p := range index.Parents() {
		for _, s := range p.SubCategories {
			known[catalog.Key(s.ID)] = struct{}{}
		}
	}
	return known
}

func isZero(s string) bool {
	v, ok := decimalNumber(s)
	return ok && v == 0
}
