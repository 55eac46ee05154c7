package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/aaronsmenu/menu-web/internal/catalog"
	"github.com/aaronsmenu/menu-web/internal/i18n"
	"github.com/aaronsmenu/menu-web/internal/menu"
	custommw "github.com/aaronsmenu/menu-web/internal/middleware"
	"github.com/aaronsmenu/menu-web/internal/nav"
	"github.com/aaronsmenu/menu-web/internal/observability"
	"github.com/aaronsmenu/menu-web/internal/templates"
)

type handlers struct {
	variants *catalog.Variants
	loader   MenuLoader
	bundle   *i18n.Bundle
	views    *templates.Renderer
}

// menuState is the outcome of one page load: the loaded collection and the
// selection requested by the query string.
type menuState struct {
	variant    catalog.Variant
	collection menu.Collection
	resolver   *menu.Resolver
}

func (h *handlers) home(w http.ResponseWriter, r *http.Request) {
	lang := custommw.Lang(r, h.bundle.Fallback())
	view := pageView{
		Page:      "home",
		Lang:      h.bundle.Tag(lang),
		Brand:     h.bundle.T(lang, catalog.LabelBrand),
		Title:     h.bundle.T(lang, catalog.LabelChooseLanguage),
		Heading:   h.bundle.T(lang, catalog.LabelChooseLanguage),
		Languages: nav.Languages(h.variants, lang),
	}
	h.render(w, r, "base", view)
}

func (h *handlers) menuPage(w http.ResponseWriter, r *http.Request) {
	st, ok := h.load(w, r)
	if !ok {
		return
	}
	view := h.menuView(st)
	name := "base"
	if custommw.IsHTMX(r.Context()) {
		name = "menu"
	}
	h.render(w, r, name, view)
}

func (h *handlers) menuJSON(w http.ResponseWriter, r *http.Request) {
	st, ok := h.load(w, r)
	if !ok {
		return
	}
	resp := menuResponse{
		Language:   st.variant.Language,
		Slug:       st.variant.Slug,
		Categories: st.variant.Index.Parents(),
		Selection:  st.resolver.State(),
		Items:      st.resolver.Visible(),
		Total:      st.collection.Len(),
		Skipped:    st.collection.Skipped,
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		observability.FromContext(r.Context()).Warn("encode menu response", zap.Error(err))
	}
}

// load runs the pipeline once for the variant named in the path and applies
// the query-string selection. It writes the response itself and reports false
// when the request is already answered.
func (h *handlers) load(w http.ResponseWriter, r *http.Request) (menuState, bool) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	variant, ok := h.variants.Lookup(chi.URLParam(r, "lang"))
	if !ok {
		http.NotFound(w, r)
		return menuState{}, false
	}
	if tag := h.bundle.Tag(variant.Slug); tag != "" {
		w.Header().Set("Content-Language", tag)
	}

	col := menu.Collection{Language: variant.Language, Items: []menu.Item{}}
	if h.loader != nil {
		loaded, err := h.loader.Load(ctx, menu.Source{URL: variant.FeedURL, Language: variant.Language})
		if err != nil {
			if ctx.Err() != nil {
				logger.Debug("menu request abandoned", zap.Error(err))
				return menuState{}, false
			}
			logger.Warn("menu degraded", zap.String("variant", variant.Slug), zap.Error(err))
		}
		col = loaded
	}

	resolver := menu.NewResolver(variant.Index, col.Items)
	q := r.URL.Query()
	if parent := strings.TrimSpace(q.Get("category")); parent != "" {
		resolver.SelectParent(parent)
	}
	if sub := strings.TrimSpace(q.Get("sub")); sub != "" {
		if err := resolver.SelectSubCategory(sub); err != nil && !errors.Is(err, menu.ErrUnknownSubCategory) {
			logger.Warn("select sub-category", zap.Error(err))
		}
	}
	return menuState{variant: variant, collection: col, resolver: resolver}, true
}

func (h *handlers) menuView(st menuState) pageView {
	slug := st.variant.Slug
	sel := st.resolver.State()
	heading := ""
	if sub, ok := st.resolver.SubCategory(); ok {
		heading = sub.Name
	}
	return pageView{
		Page:    "menu",
		Lang:    h.bundle.Tag(slug),
		Brand:   h.bundle.T(slug, catalog.LabelBrand),
		Title:   h.bundle.T(slug, catalog.LabelTitle),
		Back:    h.bundle.T(slug, catalog.LabelBack),
		Empty:   h.bundle.T(slug, catalog.LabelEmpty),
		Heading: heading,
		Tabs:    nav.Tabs(slug, st.variant.Index, sel),
		SubTabs: nav.SubTabs(slug, st.variant.Index, sel),
		Items:   st.resolver.Visible(),
	}
}

func (h *handlers) render(w http.ResponseWriter, r *http.Request, name string, view pageView) {
	if err := h.views.Render(w, http.StatusOK, name, view); err != nil {
		observability.FromContext(r.Context()).Error("render view", zap.String("template", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
