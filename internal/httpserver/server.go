// Package httpserver serves the menu pages and the JSON menu API.
package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/aaronsmenu/menu-web/internal/catalog"
	"github.com/aaronsmenu/menu-web/internal/i18n"
	"github.com/aaronsmenu/menu-web/internal/menu"
	custommw "github.com/aaronsmenu/menu-web/internal/middleware"
	"github.com/aaronsmenu/menu-web/internal/observability"
	"github.com/aaronsmenu/menu-web/internal/templates"
	"github.com/aaronsmenu/menu-web/public"
)

// MenuLoader runs the feed pipeline for one language.
type MenuLoader interface {
	Load(ctx context.Context, src menu.Source) (menu.Collection, error)
}

// Config holds runtime options for the menu HTTP server.
type Config struct {
	Address        string
	Variants       *catalog.Variants
	Loader         MenuLoader
	Bundle         *i18n.Bundle
	Logger         *zap.Logger
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bundle := cfg.Bundle
	if bundle == nil {
		b, err := i18n.New(cfg.Variants)
		if err != nil {
			panic(fmt.Sprintf("httpserver: build label bundle: %v", err))
		}
		bundle = b
	}
	staticContent, err := public.StaticFS()
	if err != nil {
		panic(fmt.Sprintf("httpserver: embed static: %v", err))
	}

	h := &handlers{
		variants: cfg.Variants,
		loader:   cfg.Loader,
		bundle:   bundle,
		views:    templates.Must(),
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; deploy behind a proxy that sets it.
	router.Use(chimw.RealIP)
	router.Use(observability.InjectLogger(logger.Named("http")))
	router.Use(observability.Trace)
	router.Use(observability.RequestLogger)
	router.Use(observability.Recoverer)
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(durationOr(cfg.RequestTimeout, 30*time.Second)))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/public/static/*", http.StripPrefix("/public/static/", http.FileServer(http.FS(staticContent))))

	router.Group(func(r chi.Router) {
		r.Use(custommw.HTMX)
		r.Use(custommw.Locale(bundle))
		r.Use(custommw.VaryLocale)

		r.Get("/", h.home)
		r.Get("/menu/{lang}", h.menuPage)
	})

	api := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
		MaxAge:         600,
	})
	router.Route("/api", func(r chi.Router) {
		r.Use(api.Handler)
		r.Get("/menu/{lang}", h.menuJSON)
	})

	return &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       durationOr(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      durationOr(cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:       durationOr(cfg.IdleTimeout, 120*time.Second),
	}
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
