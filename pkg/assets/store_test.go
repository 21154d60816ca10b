// Test Type: Unit Test
// Description: Tests for the assets package - brand and icon CRUD over afero

package assets_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphkit/glyphkit/pkg/assets"
	"github.com/glyphkit/glyphkit/pkg/errors"
)

const validSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><path d="M3 6h18"/></svg>`

func newStore(t *testing.T) *assets.Store {
	t.Helper()
	return assets.New(afero.NewMemMapFs(), "assets")
}

func TestListBrandsEmptyRoot(t *testing.T) {
	store := newStore(t)
	brands, err := store.ListBrands()
	assert.NoError(t, err)
	assert.Empty(t, brands)
}

func TestCreateBrand(t *testing.T) {
	store := newStore(t)

	brand, err := store.CreateBrand("Global Brand")
	require.NoError(t, err)
	assert.Equal(t, "global-brand", brand.Name)

	_, err = store.CreateBrand("global brand")
	assert.True(t, errors.IsErrorCode(err, errors.ErrBrandExists))

	_, err = store.CreateBrand("///")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidName))
}

func TestRemoveBrand(t *testing.T) {
	store := newStore(t)

	err := store.RemoveBrand("missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrBrandNotFound))

	_, err = store.AddIcon("ifa", "a", []byte(validSVG), assets.FormatVector)
	require.NoError(t, err)

	// Non-empty removal succeeds (destructive, warned) and is recursive.
	require.NoError(t, store.RemoveBrand("ifa"))
	_, err = store.ListIcons("ifa")
	assert.True(t, errors.IsErrorCode(err, errors.ErrBrandNotFound))
}

func TestAddIcon(t *testing.T) {
	store := newStore(t)

	icon, err := store.AddIcon("Global", "Ice Cream", []byte(validSVG), assets.FormatVector)
	require.NoError(t, err)
	assert.Equal(t, "global", icon.Brand)
	assert.Equal(t, "ice-cream", icon.Name)
	assert.Equal(t, "Ice Cream", icon.OriginalName)

	// Brand was auto-created.
	brands, err := store.ListBrands()
	require.NoError(t, err)
	require.Len(t, brands, 1)
	assert.Equal(t, "global", brands[0].Name)
	assert.Equal(t, 1, brands[0].IconCount)
}

func TestAddIconDuplicateIsError(t *testing.T) {
	store := newStore(t)

	_, err := store.AddIcon("global", "hamburger", []byte(validSVG), assets.FormatVector)
	require.NoError(t, err)

	// Same identity through a different display name.
	_, err = store.AddIcon("global", "Hamburger!", []byte(validSVG), assets.FormatVector)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIconExists))

	// The store is unchanged: still exactly one icon.
	icons, err := store.ListIcons("global")
	require.NoError(t, err)
	require.Len(t, icons, 1)
	assert.Equal(t, "hamburger", icons[0].Name)
}

func TestAddIconRejectsInvalidVectorContent(t *testing.T) {
	store := newStore(t)

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"binary_junk", "\x89PNG\r\n"},
		{"html_root", "<html></html>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.AddIcon("global", "bad", []byte(tt.content), assets.FormatVector)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidContent))
		})
	}

	// Nothing was written: the brand holds no icons (and may not exist).
	if icons, err := store.ListIcons("global"); err == nil {
		assert.Empty(t, icons)
	}
}

func TestAddIconRasterSkipsSniff(t *testing.T) {
	store := newStore(t)
	_, err := store.AddIcon("global", "photo", []byte("\x89PNG\r\n..."), assets.FormatRaster)
	assert.NoError(t, err)
}

func TestAddIconUnsupportedFormat(t *testing.T) {
	store := newStore(t)
	_, err := store.AddIcon("global", "doc", []byte("x"), "pdf")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidFormat))
}

func TestListIconsSorted(t *testing.T) {
	store := newStore(t)
	for _, name := range []string{"zebra", "alpha", "middle"} {
		_, err := store.AddIcon("global", name, []byte(validSVG), assets.FormatVector)
		require.NoError(t, err)
	}

	icons, err := store.ListIcons("global")
	require.NoError(t, err)
	require.Len(t, icons, 3)
	assert.Equal(t, "alpha", icons[0].Name)
	assert.Equal(t, "middle", icons[1].Name)
	assert.Equal(t, "zebra", icons[2].Name)
}

func TestListIconsUnknownBrand(t *testing.T) {
	store := newStore(t)
	_, err := store.ListIcons("nope")
	assert.True(t, errors.IsErrorCode(err, errors.ErrBrandNotFound))
}

func TestRemoveIcon(t *testing.T) {
	store := newStore(t)

	_, err := store.AddIcon("global", "hamburger", []byte(validSVG), assets.FormatVector)
	require.NoError(t, err)

	require.NoError(t, store.RemoveIcon("global", "hamburger"))

	err = store.RemoveIcon("global", "hamburger")
	assert.True(t, errors.IsErrorCode(err, errors.ErrIconNotFound))
}

func TestRemoveIconSearchesAllFormats(t *testing.T) {
	store := newStore(t)

	_, err := store.AddIcon("global", "photo", []byte("raster-bytes"), assets.FormatRaster)
	require.NoError(t, err)

	assert.True(t, store.HasIcon("global", "photo"))
	require.NoError(t, store.RemoveIcon("global", "photo"))
	assert.False(t, store.HasIcon("global", "photo"))
}

func TestReadIcon(t *testing.T) {
	store := newStore(t)

	_, err := store.AddIcon("global", "hamburger", []byte(validSVG), assets.FormatVector)
	require.NoError(t, err)

	content, err := store.ReadIcon("global", "hamburger")
	require.NoError(t, err)
	assert.Equal(t, validSVG, string(content))

	_, err = store.ReadIcon("global", "missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrIconNotFound))
}

func TestIconPathNormalizesBothParts(t *testing.T) {
	store := assets.New(afero.NewMemMapFs(), "assets")
	assert.Equal(t, "assets/global/ice-cream.svg", store.IconPath("Global", "Ice Cream", "svg"))
}
