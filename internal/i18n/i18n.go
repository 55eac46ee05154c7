// Package i18n serves the static per-language labels of the menu variants.
package i18n

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/aaronsmenu/menu-web/internal/catalog"
)

// Bundle maps variant slugs to their label dictionaries.
type Bundle struct {
	dict     map[string]map[string]string
	fallback string
	slugs    []string
	byTag    map[language.Tag]string
	matcher  language.Matcher
	// matched holds the slug for each tag given to matcher, in order.
	matched []string
}

// New builds a bundle from the variant table. The table's default variant is
// the fallback.
func New(variants *catalog.Variants) (*Bundle, error) {
	all := variants.All()
	if len(all) == 0 {
		return nil, errors.New("i18n: no variants")
	}
	b := &Bundle{
		dict:     make(map[string]map[string]string, len(all)),
		fallback: variants.Default().Slug,
		byTag:    make(map[language.Tag]string, len(all)),
	}
	// The fallback goes first so the matcher returns it when nothing matches.
	tags := []language.Tag{}
	if fb, ok := variants.Lookup(b.fallback); ok && fb.Tag != language.Und {
		tags = append(tags, fb.Tag)
		b.matched = append(b.matched, fb.Slug)
	}
	for _, v := range all {
		labels := make(map[string]string, len(v.Labels))
		for k, val := range v.Labels {
			labels[k] = val
		}
		b.dict[v.Slug] = labels
		b.slugs = append(b.slugs, v.Slug)
		if v.Tag == language.Und {
			continue
		}
		if _, dup := b.byTag[v.Tag]; dup {
			return nil, fmt.Errorf("i18n: variants share language tag %s", v.Tag)
		}
		b.byTag[v.Tag] = v.Slug
		if v.Slug != b.fallback {
			tags = append(tags, v.Tag)
			b.matched = append(b.matched, v.Slug)
		}
	}
	if _, ok := b.dict[b.fallback]; !ok {
		return nil, fmt.Errorf("i18n: fallback %q not loaded", b.fallback)
	}
	sort.Strings(b.slugs)
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

// Supported returns the sorted variant slugs.
func (b *Bundle) Supported() []string {
	out := make([]string, len(b.slugs))
	copy(out, b.slugs)
	return out
}

// Fallback returns the default variant slug.
func (b *Bundle) Fallback() string { return b.fallback }

// Tag returns the BCP 47 tag of slug, or "" when slug is unknown.
func (b *Bundle) Tag(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for t, s := range b.byTag {
		if s == slug {
			return t.String()
		}
	}
	return ""
}

// IsSupported reports whether slug names a variant.
func (b *Bundle) IsSupported(slug string) bool {
	_, ok := b.dict[strings.ToLower(strings.TrimSpace(slug))]
	return ok
}

// T returns the label for key in lang, falling back to the default variant and
// finally to key itself.
func (b *Bundle) T(lang, key string) string {
	if lang != "" {
		if m, ok := b.dict[strings.ToLower(lang)]; ok {
			if v, ok := m[key]; ok && v != "" {
				return v
			}
		}
	}
	if m, ok := b.dict[b.fallback]; ok {
		if v, ok := m[key]; ok && v != "" {
			return v
		}
	}
	return key
}

// Resolve picks a variant slug. hl may be a slug ("marathi") or a language
// tag ("mr"); when it names nothing, acceptLang is matched against the
// variants' tags. The fallback is returned when neither matches.
func (b *Bundle) Resolve(hl, acceptLang string) string {
	if slug, ok := b.lookup(hl); ok {
		return slug
	}
	if strings.TrimSpace(acceptLang) == "" {
		return b.fallback
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(prefs) == 0 {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(prefs...)
	if conf == language.No {
		return b.fallback
	}
	return b.slugAt(idx)
}

func (b *Bundle) lookup(hl string) (string, bool) {
	hl = strings.ToLower(strings.TrimSpace(hl))
	if hl == "" {
		return "", false
	}
	if _, ok := b.dict[hl]; ok {
		return hl, true
	}
	tag, err := language.Parse(hl)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	for t, slug := range b.byTag {
		if tb, _ := t.Base(); tb == base {
			return slug, true
		}
	}
	return "", false
}

func (b *Bundle) slugAt(idx int) string {
	if idx < 0 || idx >= len(b.matched) {
		return b.fallback
	}
	return b.matched[idx]
}
