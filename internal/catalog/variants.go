package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed variants.yaml
var builtinVariants []byte

// ErrUnknownVariant is returned when a slug names no configured variant.
var ErrUnknownVariant = errors.New("catalog: unknown variant")

// Label keys every variant is expected to define.
const (
	LabelBrand          = "brand"
	LabelTitle          = "title"
	LabelBack           = "back"
	LabelEmpty          = "empty"
	LabelChooseLanguage = "choose_language"
)

// Variant is one language edition of the menu: its feed, its static labels and
// its category hierarchy.
type Variant struct {
	Slug       string
	Language   string
	Tag        language.Tag
	NativeName string
	FeedURL    string
	Labels     map[string]string
	Index      *Index
}

// Label returns the static label for key, or "" when undefined.
func (v Variant) Label(key string) string {
	return v.Labels[key]
}

// Variants is the table of all language variants, in configuration order.
type Variants struct {
	list   []Variant
	bySlug map[string]int
	def    string
}

type variantsDocument struct {
	Default  string            `yaml:"default"`
	Variants []variantDocument `yaml:"variants"`
}

type variantDocument struct {
	Slug       string            `yaml:"slug"`
	Language   string            `yaml:"language"`
	Tag        string            `yaml:"tag"`
	NativeName string            `yaml:"native_name"`
	FeedURL    string            `yaml:"feed_url"`
	Labels     map[string]string `yaml:"labels"`
	Categories []ParentCategory  `yaml:"categories"`
}

// LoadVariants returns the built-in variant table.
func LoadVariants() (*Variants, error) {
	return ParseVariants(builtinVariants)
}

// ParseVariants decodes and validates a YAML variant table.
func ParseVariants(raw []byte) (*Variants, error) {
	var doc variantsDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode variants: %w", err)
	}
	if len(doc.Variants) == 0 {
		return nil, errors.New("catalog: no variants defined")
	}

	vs := &Variants{
		list:   make([]Variant, 0, len(doc.Variants)),
		bySlug: make(map[string]int, len(doc.Variants)),
	}
	for _, d := range doc.Variants {
		v, err := d.variant()
		if err != nil {
			return nil, err
		}
		if _, ok := vs.bySlug[v.Slug]; ok {
			return nil, fmt.Errorf("%w: variant %q", ErrDuplicateID, v.Slug)
		}
		vs.bySlug[v.Slug] = len(vs.list)
		vs.list = append(vs.list, v)
	}

	def := normalizeSlug(doc.Default)
	if def == "" {
		def = vs.list[0].Slug
	}
	if _, ok := vs.bySlug[def]; !ok {
		return nil, fmt.Errorf("%w: default %q", ErrUnknownVariant, doc.Default)
	}
	vs.def = def
	return vs, nil
}

func (d variantDocument) variant() (Variant, error) {
	slug := normalizeSlug(d.Slug)
	if slug == "" {
		return Variant{}, fmt.Errorf("%w: variant slug for %q", ErrEmptyID, d.Language)
	}
	lang := strings.TrimSpace(d.Language)
	if lang == "" {
		return Variant{}, fmt.Errorf("catalog: variant %q has no language", slug)
	}
	tag, err := language.Parse(strings.TrimSpace(d.Tag))
	if err != nil {
		return Variant{}, fmt.Errorf("catalog: variant %q tag %q: %w", slug, d.Tag, err)
	}
	feedURL, err := validateFeedURL(d.FeedURL)
	if err != nil {
		return Variant{}, fmt.Errorf("catalog: variant %q: %w", slug, err)
	}
	idx, err := NewIndex(d.Categories)
	if err != nil {
		return Variant{}, fmt.Errorf("catalog: variant %q: %w", slug, err)
	}
	labels := make(map[string]string, len(d.Labels))
	for k, v := range d.Labels {
		labels[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	native := strings.TrimSpace(d.NativeName)
	if native == "" {
		native = lang
	}
	return Variant{
		Slug:       slug,
		Language:   lang,
		Tag:        tag,
		NativeName: native,
		FeedURL:    feedURL,
		Labels:     labels,
		Index:      idx,
	}, nil
}

// All returns every variant in configuration order.
func (vs *Variants) All() []Variant {
	if vs == nil {
		return nil
	}
	out := make([]Variant, len(vs.list))
	copy(out, vs.list)
	return out
}

// Slugs returns the sorted variant slugs.
func (vs *Variants) Slugs() []string {
	if vs == nil {
		return nil
	}
	out := make([]string, 0, len(vs.list))
	for _, v := range vs.list {
		out = append(out, v.Slug)
	}
	sort.Strings(out)
	return out
}

// Lookup finds a variant by slug, ignoring case.
func (vs *Variants) Lookup(slug string) (Variant, bool) {
	if vs == nil {
		return Variant{}, false
	}
	i, ok := vs.bySlug[normalizeSlug(slug)]
	if !ok {
		return Variant{}, false
	}
	return vs.list[i], true
}

// Default returns the fallback variant.
func (vs *Variants) Default() Variant {
	v, _ := vs.Lookup(vs.def)
	return v
}

// WithFeedURLs returns a copy of the table whose feed URLs are replaced by the
// given slug=url overrides.
func (vs *Variants) WithFeedURLs(urls map[string]string) (*Variants, error) {
	out := vs.clone()
	for slug, raw := range urls {
		i, ok := out.bySlug[normalizeSlug(slug)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, slug)
		}
		u, err := validateFeedURL(raw)
		if err != nil {
			return nil, fmt.Errorf("catalog: variant %q: %w", slug, err)
		}
		out.list[i].FeedURL = u
	}
	return out, nil
}

// WithDefault returns a copy of the table using slug as the fallback variant.
func (vs *Variants) WithDefault(slug string) (*Variants, error) {
	s := normalizeSlug(slug)
	if s == "" {
		return vs, nil
	}
	if _, ok := vs.bySlug[s]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, slug)
	}
	out := vs.clone()
	out.def = s
	return out, nil
}

func (vs *Variants) clone() *Variants {
	out := &Variants{
		list:   make([]Variant, len(vs.list)),
		bySlug: make(map[string]int, len(vs.bySlug)),
		def:    vs.def,
	}
	copy(out.list, vs.list)
	for k, v := range vs.bySlug {
		out.bySlug[k] = v
	}
	return out
}

func normalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validateFeedURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("feed url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("feed url %q: scheme must be http or https", raw)
	}
	return raw, nil
}
