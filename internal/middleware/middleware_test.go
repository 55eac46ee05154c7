package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronsmenu/menu-web/internal/catalog"
	"github.com/aaronsmenu/menu-web/internal/i18n"
)

func newBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	variants, err := catalog.LoadVariants()
	require.NoError(t, err)
	b, err := i18n.New(variants)
	require.NoError(t, err)
	return b
}

func serveLocale(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var got string
	h := Locale(newBundle(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Lang(r, "none")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return got, rec
}

func TestLocaleQueryOverridesAndSetsCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?hl=mr", nil)
	req.AddCookie(&http.Cookie{Name: LangCookie, Value: "gujarati"})

	lang, rec := serveLocale(t, req)
	assert.Equal(t, "marathi", lang)
	assert.Equal(t, "mr", rec.Header().Get("Content-Language"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, LangCookie, cookies[0].Name)
	assert.Equal(t, "marathi", cookies[0].Value)
}

func TestLocaleCookieBeatsAcceptLanguage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: LangCookie, Value: "marathi"})
	req.Header.Set("Accept-Language", "gu")

	lang, rec := serveLocale(t, req)
	assert.Equal(t, "marathi", lang)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLocaleIgnoresUnknownCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: LangCookie, Value: "hindi"})
	req.Header.Set("Accept-Language", "mr-IN,en;q=0.5")

	lang, _ := serveLocale(t, req)
	assert.Equal(t, "marathi", lang)
}

func TestLocaleFallsBackToDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US")

	lang, rec := serveLocale(t, req)
	assert.Equal(t, "gujarati", lang)
	assert.Equal(t, "gu", rec.Header().Get("Content-Language"))
}

func TestLangWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "gujarati", Lang(req, "gujarati"))
}

func TestHTMX(t *testing.T) {
	var is bool
	h := HTMX(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is = IsHTMX(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.True(t, is)
	assert.Equal(t, "HX-Request", rec.Header().Get("Vary"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, is)
}

func TestVaryLocale(t *testing.T) {
	h := VaryLocale(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "Accept-Language", rec.Header().Get("Vary"))
}
