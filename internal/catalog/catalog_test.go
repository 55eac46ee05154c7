package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndexOrderAndLookup(t *testing.T) {
	t.Parallel()

	idx, err := NewIndex([]ParentCategory{
		{ID: "chicken", Name: "Chicken", SubCategories: []SubCategory{{ID: "Chicken", Name: "Chicken"}}},
		{ID: "starters", Name: "Starters", SubCategories: []SubCategory{{ID: "Soup"}, {ID: "Momos"}}},
		{ID: "soon", Name: "Soon"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, "chicken", idx.FirstParent())
	assert.Equal(t, "Soup", idx.FirstSubCategoryOf("starters"))
	assert.Equal(t, "", idx.FirstSubCategoryOf("soon"))
	assert.Equal(t, "", idx.FirstSubCategoryOf("missing"))
	assert.NotNil(t, idx.SubCategoriesOf("missing"))
	assert.Empty(t, idx.SubCategoriesOf("missing"))

	sub, ok := idx.SubCategory("starters", " momos ")
	require.True(t, ok)
	assert.Equal(t, "Momos", sub.ID)

	_, ok = idx.SubCategory("chicken", "Momos")
	assert.False(t, ok, "sub-categories are scoped to their parent")
	_, ok = idx.SubCategory("starters", "")
	assert.False(t, ok)

	_, ok = idx.Parent("Chicken")
	assert.False(t, ok, "parent ids are exact")
}

func TestNewIndexRejectsBadIDs(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		parents []ParentCategory
		want    error
	}{
		"empty parent": {
			parents: []ParentCategory{{ID: " ", Name: "Nameless"}},
			want:    ErrEmptyID,
		},
		"duplicate parent": {
			parents: []ParentCategory{{ID: "a"}, {ID: "a"}},
			want:    ErrDuplicateID,
		},
		"empty sub": {
			parents: []ParentCategory{{ID: "a", SubCategories: []SubCategory{{ID: ""}}}},
			want:    ErrEmptyID,
		},
		"duplicate sub ignoring case": {
			parents: []ParentCategory{{ID: "a", SubCategories: []SubCategory{{ID: "Soup"}, {ID: "SOUP"}}}},
			want:    ErrDuplicateID,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewIndex(tc.parents)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestIndexDoesNotLeakInternalSlices(t *testing.T) {
	t.Parallel()

	idx := MustIndex([]ParentCategory{{ID: "a", SubCategories: []SubCategory{{ID: "x", Name: "X"}}}})
	parents := idx.Parents()
	parents[0].SubCategories[0].Name = "changed"
	idx.SubCategoriesOf("a")[0].Name = "changed"

	sub, ok := idx.SubCategory("a", "x")
	require.True(t, ok)
	assert.Equal(t, "X", sub.Name)
}

func TestNilIndex(t *testing.T) {
	t.Parallel()

	var idx *Index
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, "", idx.FirstParent())
	assert.Empty(t, idx.SubCategoriesOf("a"))
}

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "chicken shawarma", Key("  Chicken SHAWARMA "))
	assert.Equal(t, "", Key("   "))
	assert.Equal(t, Key("\u0915\u093c"), Key("\u0958"), "canonically equivalent forms compare equal")

	assert.True(t, SameCategory("momos", "MOMOS"))
	assert.False(t, SameCategory("", ""))
	assert.False(t, SameCategory("Chicken", "Chicken Shawarma"))
}
