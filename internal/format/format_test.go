package format

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronsmenu/menu-web/internal/menu"
)

func TestPrice(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		in   float64
		want string
	}{
		"whole":    {in: 250, want: "₹250.00"},
		"fraction": {in: 99.5, want: "₹99.50"},
		"rounding": {in: 12.346, want: "₹12.35"},
		"zero":     {in: 0, want: "₹0.00"},
		"negative": {in: -3, want: "₹0.00"},
		"nan":      {in: math.NaN(), want: "₹0.00"},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Price(tc.in))
		})
	}
}

func TestParsePriceRoundTrip(t *testing.T) {
	t.Parallel()

	for _, x := range []float64{0, 0.01, 1, 9.99, 120, 250, 1234.5, 99999.99} {
		got, err := ParsePrice(Price(x))
		require.NoError(t, err)
		assert.InDelta(t, x, got, 0.005, "round trip of %v", x)
	}
}

func TestParsePriceRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := ParsePrice("₹abc")
	require.Error(t, err)

	v, err := ParsePrice(" 42.10 ")
	require.NoError(t, err)
	assert.Equal(t, 42.10, v)
}

func TestDescription(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", string(Description("   ")))
	assert.Equal(t, "<p>Smoky and tender</p>", string(Description("Smoky and tender")))

	rich := string(Description("**Spicy** tikka"))
	assert.Contains(t, rich, "<strong>Spicy</strong>")

	unsafe := string(Description(`<script>alert(1)</script>[x](javascript:alert(1)) <img src=x onerror=alert(1)>`))
	assert.NotContains(t, unsafe, "<script")
	assert.NotContains(t, unsafe, "<img")
	assert.NotContains(t, unsafe, "<a")
	assert.Contains(t, unsafe, "&lt;script&gt;")

	kept := map[string]string{
		"Served with <mint chutney>":    "<p>Served with &lt;mint chutney&gt;</p>",
		"Half plate <spicy> full plate": "<p>Half plate &lt;spicy&gt; full plate</p>",
		"# of pieces: 6":                "<p># of pieces: 6</p>",
		"1. Spicy":                      "<p>1. Spicy</p>",
		"- Boneless":                    "<p>- Boneless</p>",
	}
	for in, want := range kept {
		assert.Equal(t, want, string(Description(in)), "description %q", in)
	}

	gujarati := string(Description("મસાલેદાર & ગરમ"))
	assert.True(t, strings.Contains(gujarati, "મસાલેદાર &amp; ગરમ"), gujarati)
}

func TestTypeClass(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "marker-veg", TypeClass(menu.TypeVeg))
	assert.Equal(t, "marker-non-veg", TypeClass(menu.TypeNonVeg))
	assert.Equal(t, "Vegetarian", TypeLabel(menu.TypeVeg))
}
