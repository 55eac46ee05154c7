package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/aaronsmenu/menu-web/internal/i18n"
	"github.com/aaronsmenu/menu-web/internal/observability"
)

// LangCookie remembers the visitor's language choice.
const LangCookie = "hl"

const langCookieMaxAge = 365 * 24 * 60 * 60

// Locale resolves the preferred variant from the `hl` query parameter (which is
// then remembered in a cookie), the `hl` cookie, or Accept-Language.
func Locale(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accept := r.Header.Get("Accept-Language")
			var lang string
			if q := strings.TrimSpace(r.URL.Query().Get("hl")); q != "" {
				lang = bundle.Resolve(q, accept)
				http.SetCookie(w, &http.Cookie{
					Name:     LangCookie,
					Value:    lang,
					Path:     "/",
					MaxAge:   langCookieMaxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			} else if c, err := r.Cookie(LangCookie); err == nil && bundle.IsSupported(c.Value) {
				lang = strings.ToLower(strings.TrimSpace(c.Value))
			} else {
				lang = bundle.Resolve("", accept)
			}

			if tag := bundle.Tag(lang); tag != "" {
				w.Header().Set("Content-Language", tag)
			}
			ctx := WithLang(r.Context(), lang)
			ctx = observability.WithLogger(ctx, observability.FromContext(ctx).With(zap.String("lang", lang)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// VaryLocale sets Vary header for Accept-Language on dynamic responses
func VaryLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Language")
		next.ServeHTTP(w, r)
	})
}

// Lang returns the resolved variant slug, or fallback when Locale did not run.
func Lang(r *http.Request, fallback string) string {
	if lang, ok := LangFromContext(r.Context()); ok {
		return lang
	}
	return fallback
}
