package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aaronsmenu/menu-web/internal/menu"
)

// ErrFindings is returned by inspect --strict when the report is not clean.
var ErrFindings = errors.New("menu feed has data-quality findings")

// InspectResult is the output of the inspect command.
type InspectResult struct {
	menu.Report `yaml:",inline"`
	SkippedRows []string `json:"skippedRows,omitempty" yaml:"skipped_rows,omitempty"`
}

func (r *InspectResult) ToJSON() any { return r }

func (r *InspectResult) ToText(w io.Writer) {
	fmt.Fprintf(w, "%s: %d of %d records\n", r.Language, r.Items, r.Records)
	if r.Clean() && len(r.SkippedRows) == 0 {
		fmt.Fprintln(w, "no findings")
		return
	}
	list := func(title string, refs []string) {
		if len(refs) == 0 {
			return
		}
		fmt.Fprintf(w, "%s (%d):\n", title, len(refs))
		for _, ref := range refs {
			fmt.Fprintf(w, "  %s\n", ref)
		}
	}
	list("unreadable rows", r.SkippedRows)
	types := make([]string, 0, len(r.UnknownTypes))
	for t := range r.UnknownTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		list(fmt.Sprintf("type %q shown as non-veg", t), r.UnknownTypes[t])
	}
	list("unreadable prices shown as 0", r.BadPrices)
	list("empty names", r.EmptyNames)
	list("duplicate ids", r.DuplicateIDs)
	list("categories matching no tab", r.Uncategorized)
}

func newInspectCommand(a *app) *cobra.Command {
	var (
		outFormat string
		feedURL   string
		strict    bool
	)
	cmd := &cobra.Command{
		Use:   "inspect [variant]",
		Short: "Report data-quality problems in a feed",
		Long: `Fetch the feed of a variant once and report rows the menu silently
corrects or hides: unknown veg/non-veg markers, unreadable prices, empty names,
duplicate ids, categories that match no tab, and rows the parser skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.variant(args, feedURL)
			if err != nil {
				return err
			}
			text, err := a.deps.Fetcher.Fetch(cmd.Context(), v.FeedURL)
			if err != nil {
				return err
			}
			records, parseErr := menu.Parse(text)
			res := &InspectResult{Report: menu.Inspect(records, v.Language, v.Index)}
			var pe *menu.ParseError
			if errors.As(parseErr, &pe) {
				for _, row := range pe.Rows {
					res.SkippedRows = append(res.SkippedRows, row.Error())
				}
			}
			if err := Output(cmd.OutOrStdout(), res, outFormat); err != nil {
				return err
			}
			if strict && (!res.Clean() || len(res.SkippedRows) > 0) {
				return ErrFindings
			}
			return nil
		},
	}
	setupFormatFlag(cmd, &outFormat)
	cmd.Flags().StringVar(&feedURL, "url", "", "Feed URL overriding the configured one")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when there are findings")
	return cmd
}
