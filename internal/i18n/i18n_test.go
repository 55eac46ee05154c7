package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronsmenu/menu-web/internal/catalog"
)

func newBundle(t *testing.T) *Bundle {
	t.Helper()
	variants, err := catalog.LoadVariants()
	require.NoError(t, err)
	b, err := New(variants)
	require.NoError(t, err)
	return b
}

func TestResolveHonorsQValues(t *testing.T) {
	b := newBundle(t)

	assert.Equal(t, "marathi", b.Resolve("", "gu;q=0.8, mr;q=0.9"))
	assert.Equal(t, "gujarati", b.Resolve("", "mr;q=0.5, gu-IN"))
}

func TestResolvePrefersExplicitChoice(t *testing.T) {
	b := newBundle(t)

	assert.Equal(t, "marathi", b.Resolve("Marathi", "gu"))
	assert.Equal(t, "marathi", b.Resolve("mr", "gu"))
	assert.Equal(t, "gujarati", b.Resolve("klingon", "gu"))
}

func TestResolveFallsBack(t *testing.T) {
	b := newBundle(t)

	assert.Equal(t, "gujarati", b.Fallback())
	assert.Equal(t, "gujarati", b.Resolve("", ""))
	assert.Equal(t, "gujarati", b.Resolve("", "fr-FR, de;q=0.7"))
	assert.Equal(t, "gujarati", b.Resolve("", ";;;"))
}

func TestTranslate(t *testing.T) {
	b := newBundle(t)

	assert.Equal(t, "आमचा मेनू", b.T("marathi", catalog.LabelTitle))
	assert.Equal(t, "Aaron's", b.T("marathi", catalog.LabelBrand))
	assert.Equal(t, b.T("gujarati", catalog.LabelTitle), b.T("unknown", catalog.LabelTitle))
	assert.Equal(t, "missing.key", b.T("marathi", "missing.key"))
}

func TestSupported(t *testing.T) {
	b := newBundle(t)

	assert.Equal(t, []string{"gujarati", "marathi"}, b.Supported())
	assert.True(t, b.IsSupported(" MARATHI "))
	assert.False(t, b.IsSupported("hindi"))
}

func TestNewUsesConfiguredDefault(t *testing.T) {
	variants, err := catalog.LoadVariants()
	require.NoError(t, err)
	variants, err = variants.WithDefault("marathi")
	require.NoError(t, err)

	b, err := New(variants)
	require.NoError(t, err)
	assert.Equal(t, "marathi", b.Fallback())
	assert.Equal(t, "marathi", b.Resolve("", "en-US"))
}

func TestTag(t *testing.T) {
	b := newBundle(t)

	assert.Equal(t, "mr", b.Tag("marathi"))
	assert.Equal(t, "gu", b.Tag("Gujarati"))
	assert.Equal(t, "", b.Tag("hindi"))
}
