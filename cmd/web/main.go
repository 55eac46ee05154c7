package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/aaronsmenu/menu-web/internal/catalog"
	"github.com/aaronsmenu/menu-web/internal/config"
	"github.com/aaronsmenu/menu-web/internal/feed"
	"github.com/aaronsmenu/menu-web/internal/httpserver"
	"github.com/aaronsmenu/menu-web/internal/i18n"
	"github.com/aaronsmenu/menu-web/internal/menu"
	"github.com/aaronsmenu/menu-web/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		var vErr *config.ValidationError
		if errors.As(err, &vErr) {
			fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", vErr.Fields())
		} else {
			fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		}
		os.Exit(1)
	}

	baseLogger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("web")

	variants, err := loadVariants(cfg)
	if err != nil {
		logger.Fatal("failed to load menu variants", zap.Error(err))
	}
	bundle, err := i18n.New(variants)
	if err != nil {
		logger.Fatal("failed to build labels", zap.Error(err))
	}

	fetcher := feed.New(
		feed.WithTimeout(cfg.Feed.Timeout),
		feed.WithMaxBytes(cfg.Feed.MaxBytes),
		feed.WithLogger(baseLogger.Named("feed")),
	)
	loader := menu.NewLoader(fetcher, menu.WithLoaderLogger(baseLogger.Named("menu")))

	srv := httpserver.New(httpserver.Config{
		Address:        cfg.Server.Address,
		Variants:       variants,
		Loader:         loader,
		Bundle:         bundle,
		Logger:         baseLogger,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		RequestTimeout: cfg.Server.RequestTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	for _, v := range variants.All() {
		if v.FeedURL == "" {
			logger.Warn("variant has no feed url; its menu will be empty", zap.String("variant", v.Slug))
		}
	}
	logger.Info("menu server listening",
		zap.String("addr", cfg.Server.Address),
		zap.Strings("variants", variants.Slugs()),
		zap.String("default", variants.Default().Slug),
	)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		cancel()
		stop()
		os.Exit(1)
	}
	logger.Info("menu server stopped")
}

func loadVariants(cfg config.Config) (*catalog.Variants, error) {
	variants, err := catalog.LoadVariants()
	if err != nil {
		return nil, err
	}
	if variants, err = variants.WithFeedURLs(cfg.Feed.URLs); err != nil {
		return nil, err
	}
	return variants.WithDefault(cfg.Menu.DefaultLanguage)
}
