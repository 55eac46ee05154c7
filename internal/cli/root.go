// Package cli implements the menuctl command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aaronsmenu/menu-web/internal/catalog"
	"github.com/aaronsmenu/menu-web/internal/config"
	"github.com/aaronsmenu/menu-web/internal/feed"
	"github.com/aaronsmenu/menu-web/internal/menu"
	"github.com/aaronsmenu/menu-web/internal/observability"
)

// Deps are the collaborators the commands run against. Nil fields are built
// from configuration on first use.
type Deps struct {
	Variants *catalog.Variants
	Fetcher  menu.Fetcher
	Logger   *zap.Logger
}

type app struct {
	deps    Deps
	envFile string
}

// NewRootCommand builds the menuctl command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	a := &app{deps: deps}
	root := &cobra.Command{
		Use:   "menuctl",
		Short: "Inspect the restaurant menu feeds",
		Long: `menuctl runs the menu feed pipeline outside the web server: it lists the
configured language variants, dumps the items of a feed, and reports data
quality problems an editor should fix in the spreadsheet.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Environment file with MENU_* settings")

	root.AddCommand(newVariantsCommand(a))
	root.AddCommand(newDumpCommand(a))
	root.AddCommand(newInspectCommand(a))
	return root
}

func (a *app) init() error {
	if a.deps.Variants != nil && a.deps.Fetcher != nil && a.deps.Logger != nil {
		return nil
	}
	cfg, err := config.Load(config.WithEnvFile(a.envFile))
	if err != nil {
		return err
	}
	if a.deps.Logger == nil {
		logger, err := observability.NewLogger(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		a.deps.Logger = logger.Named("menuctl")
	}
	if a.deps.Variants == nil {
		variants, err := catalog.LoadVariants()
		if err != nil {
			return err
		}
		if variants, err = variants.WithFeedURLs(cfg.Feed.URLs); err != nil {
			return err
		}
		if variants, err = variants.WithDefault(cfg.Menu.DefaultLanguage); err != nil {
			return err
		}
		a.deps.Variants = variants
	}
	if a.deps.Fetcher == nil {
		a.deps.Fetcher = feed.New(
			feed.WithTimeout(cfg.Feed.Timeout),
			feed.WithMaxBytes(cfg.Feed.MaxBytes),
			feed.WithLogger(a.deps.Logger.Named("feed")),
		)
	}
	return nil
}

// variant resolves the command argument, defaulting to the default variant,
// and applies a --url override.
func (a *app) variant(args []string, urlOverride string) (catalog.Variant, error) {
	v := a.deps.Variants.Default()
	if len(args) > 0 {
		found, ok := a.deps.Variants.Lookup(args[0])
		if !ok {
			return catalog.Variant{}, fmt.Errorf("%w: %q (known: %v)", catalog.ErrUnknownVariant, args[0], a.deps.Variants.Slugs())
		}
		v = found
	}
	if urlOverride != "" {
		v.FeedURL = urlOverride
	}
	if v.FeedURL == "" {
		return catalog.Variant{}, fmt.Errorf("variant %q has no feed url; pass --url or set MENU_FEED_URLS", v.Slug)
	}
	return v, nil
}
