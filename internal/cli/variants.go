package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aaronsmenu/menu-web/internal/catalog"
)

// VariantInfo describes one configured language variant.
type VariantInfo struct {
	Slug       string                   `json:"slug" yaml:"slug"`
	Language   string                   `json:"language" yaml:"language"`
	Tag        string                   `json:"tag" yaml:"tag"`
	Default    bool                     `json:"default" yaml:"default"`
	FeedURL    string                   `json:"feedUrl" yaml:"feed_url"`
	Categories []catalog.ParentCategory `json:"categories" yaml:"categories"`
}

// VariantsResult is the output of the variants command.
type VariantsResult struct {
	Variants []VariantInfo `json:"variants" yaml:"variants"`
}

func (r *VariantsResult) ToJSON() any { return r }

func (r *VariantsResult) ToText(w io.Writer) {
	for i, v := range r.Variants {
		if i > 0 {
			fmt.Fprintln(w)
		}
		def := ""
		if v.Default {
			def = " [default]"
		}
		fmt.Fprintf(w, "%s (%s, %s)%s\n", v.Slug, v.Language, v.Tag, def)
		feedURL := v.FeedURL
		if feedURL == "" {
			feedURL = "(none)"
		}
		fmt.Fprintf(w, "  feed: %s\n", feedURL)
		for _, p := range v.Categories {
			fmt.Fprintf(w, "  %s %s [%s]\n", p.Icon, p.Name, p.ID)
			for _, s := range p.SubCategories {
				fmt.Fprintf(w, "    - %s [%s]\n", s.Name, s.ID)
			}
		}
	}
}

func newVariantsCommand(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "variants",
		Short: "List the configured language variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			def := a.deps.Variants.Default().Slug
			res := &VariantsResult{}
			for _, v := range a.deps.Variants.All() {
				res.Variants = append(res.Variants, VariantInfo{
					Slug:       v.Slug,
					Language:   v.Language,
					Tag:        v.Tag.String(),
					Default:    v.Slug == def,
					FeedURL:    v.FeedURL,
					Categories: v.Index.Parents(),
				})
			}
			return Output(cmd.OutOrStdout(), res, format)
		},
	}
	setupFormatFlag(cmd, &format)
	return cmd
}
