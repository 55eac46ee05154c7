package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aaronsmenu/menu-web/internal/format"
	"github.com/aaronsmenu/menu-web/internal/menu"
)

// DumpResult is the output of the dump command.
type DumpResult struct {
	Language  string          `json:"language" yaml:"language"`
	Records   int             `json:"records" yaml:"records"`
	Skipped   int             `json:"skipped" yaml:"skipped"`
	Selection *menu.Selection `json:"selection,omitempty" yaml:"selection,omitempty"`
	Items     []menu.Item     `json:"items" yaml:"items"`
}

func (r *DumpResult) ToJSON() any { return r }

func (r *DumpResult) ToText(w io.Writer) {
	fmt.Fprintf(w, "%s: %d items (%d records, %d skipped)\n", r.Language, len(r.Items), r.Records, r.Skipped)
	if r.Selection != nil {
		fmt.Fprintf(w, "selection: %s / %s\n", r.Selection.ParentID, r.Selection.SubCategoryID)
	}
	for _, it := range r.Items {
		fmt.Fprintf(w, "%-8s %-30s %-20s %-8s %10s\n", it.ID, it.Name, it.Category, it.Type, format.Price(it.Price))
	}
}

func newDumpCommand(a *app) *cobra.Command {
	var (
		outFormat string
		feedURL   string
		category  string
		sub       string
	)
	cmd := &cobra.Command{
		Use:   "dump [variant]",
		Short: "Fetch a feed and print its items",
		Long: `Fetch the feed of a variant once, parse and normalise it, and print the
items in feed order. With --category (and optionally --sub) only the items
visible under that selection are printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.variant(args, feedURL)
			if err != nil {
				return err
			}
			loader := menu.NewLoader(a.deps.Fetcher, menu.WithLoaderLogger(a.deps.Logger))
			col, err := loader.Load(cmd.Context(), menu.Source{URL: v.FeedURL, Language: v.Language})
			var pe *menu.ParseError
			if err != nil && !errors.As(err, &pe) {
				return err
			}
			res := &DumpResult{
				Language: v.Language,
				Records:  col.Records,
				Skipped:  col.Skipped,
				Items:    col.Items,
			}
			if category != "" {
				r := menu.NewResolver(v.Index, col.Items)
				r.SelectParent(category)
				if sub != "" {
					if err := r.SelectSubCategory(sub); err != nil {
						return fmt.Errorf("%w: %q", err, sub)
					}
				}
				sel := r.State()
				res.Selection = &sel
				res.Items = r.Visible()
			}
			return Output(cmd.OutOrStdout(), res, outFormat)
		},
	}
	setupFormatFlag(cmd, &outFormat)
	cmd.Flags().StringVar(&feedURL, "url", "", "Feed URL overriding the configured one")
	cmd.Flags().StringVar(&category, "category", "", "Parent category to select")
	cmd.Flags().StringVar(&sub, "sub", "", "Sub-category to select within --category")
	return cmd
}
