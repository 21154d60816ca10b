// Package assets implements the brand-scoped asset store: one directory per
// brand under a single root, one file per icon. The store is the sole source
// of truth for which brands and icons currently exist; the token registry is
// only ever a projection of it.
package assets

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/glyphkit/glyphkit/pkg/errors"
	"github.com/glyphkit/glyphkit/pkg/logging"
	"github.com/glyphkit/glyphkit/pkg/naming"
	"github.com/glyphkit/glyphkit/pkg/svg"
)

// Formats supported by the store. Vector is the primary format; raster
// files only appear as build inputs that were previously synced as such.
const (
	FormatVector = "svg"
	FormatRaster = "png"
)

// supportedFormats is the lookup order for operations that search by name.
var supportedFormats = []string{FormatVector, FormatRaster}

// Brand is one named partition of the icon catalog.
type Brand struct {
	Name      string
	Path      string
	IconCount int
}

// Icon is one stored asset, identified by (brand, normalized name).
type Icon struct {
	Brand        string
	Name         string
	OriginalName string
	Format       string
	Path         string
	Size         int64
	ModTime      int64
}

// Store wraps a filesystem root holding one directory per brand.
type Store struct {
	fs   afero.Fs
	root string
}

// New creates a store over root. The root itself is created lazily on the
// first mutating operation.
func New(fs afero.Fs, root string) *Store {
	return &Store{fs: fs, root: root}
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// BrandPath returns the directory for a brand, normalized.
func (s *Store) BrandPath(brand string) string {
	return filepath.Join(s.root, naming.Normalize(brand))
}

// IconPath returns the file path an icon of the given format would occupy.
func (s *Store) IconPath(brand, name, format string) string {
	return filepath.Join(s.BrandPath(brand), naming.Normalize(name)+"."+format)
}

// ListBrands scans the root and returns all brands sorted by name. Icon
// counts are computed on every call, never cached.
func (s *Store) ListBrands() ([]Brand, error) {
	entries, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot read assets root").
			WithDetail("path", s.root)
	}

	var brands []Brand
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		icons, err := s.ListIcons(entry.Name())
		if err != nil {
			return nil, err
		}
		brands = append(brands, Brand{
			Name:      entry.Name(),
			Path:      filepath.Join(s.root, entry.Name()),
			IconCount: len(icons),
		})
	}
	sort.Slice(brands, func(i, j int) bool { return brands[i].Name < brands[j].Name })
	return brands, nil
}

// CreateBrand creates an empty brand namespace.
func (s *Store) CreateBrand(name string) (Brand, error) {
	normalized := naming.Normalize(name)
	if normalized == "" {
		return Brand{}, errors.Newf(errors.ErrInvalidName, "brand name %q normalizes to nothing", name)
	}

	path := filepath.Join(s.root, normalized)
	if exists, _ := afero.DirExists(s.fs, path); exists {
		return Brand{}, errors.Newf(errors.ErrBrandExists, "brand %q already exists", normalized).
			WithDetail("path", path)
	}
	if err := s.fs.MkdirAll(path, 0755); err != nil {
		return Brand{}, errors.Wrapf(err, errors.ErrFileWrite, "cannot create brand %q", normalized)
	}

	logger := logging.GetLogger("assets")
	logger.Info().Str("brand", normalized).Msg("Brand created")
	return Brand{Name: normalized, Path: path}, nil
}

// RemoveBrand deletes a brand directory recursively. Removing a brand that
// still holds icons is allowed but logged as destructive.
func (s *Store) RemoveBrand(name string) error {
	normalized := naming.Normalize(name)
	path := filepath.Join(s.root, normalized)

	exists, _ := afero.DirExists(s.fs, path)
	if !exists {
		return errors.Newf(errors.ErrBrandNotFound, "brand %q does not exist", normalized)
	}

	logger := logging.GetLogger("assets")
	if icons, err := s.ListIcons(normalized); err == nil && len(icons) > 0 {
		logger.Warn().
			Str("brand", normalized).
			Int("icons", len(icons)).
			Msg("Removing non-empty brand, icons will be deleted")
	}

	if err := s.fs.RemoveAll(path); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot remove brand %q", normalized)
	}
	logger.Info().Str("brand", normalized).Msg("Brand removed")
	return nil
}

// ListIcons returns the brand's icons sorted by name ascending. Stable
// ordering keeps sync diffs and build outputs deterministic.
func (s *Store) ListIcons(brand string) ([]Icon, error) {
	normalized := naming.Normalize(brand)
	path := filepath.Join(s.root, normalized)

	entries, err := afero.ReadDir(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrBrandNotFound, "brand %q does not exist", normalized)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read brand %q", normalized)
	}

	var icons []Icon
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.TrimPrefix(filepath.Ext(entry.Name()), ".")
		if ext != FormatVector && ext != FormatRaster {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		icons = append(icons, Icon{
			Brand:   normalized,
			Name:    name,
			Format:  ext,
			Path:    filepath.Join(path, entry.Name()),
			Size:    entry.Size(),
			ModTime: entry.ModTime().Unix(),
		})
	}
	sort.Slice(icons, func(i, j int) bool { return icons[i].Name < icons[j].Name })
	return icons, nil
}

// HasIcon reports whether (brand, name) exists in any supported format.
func (s *Store) HasIcon(brand, name string) bool {
	for _, format := range supportedFormats {
		if exists, _ := afero.Exists(s.fs, s.IconPath(brand, name, format)); exists {
			return true
		}
	}
	return false
}

// ReadIcon returns the stored content of an icon.
func (s *Store) ReadIcon(brand, name string) ([]byte, error) {
	for _, format := range supportedFormats {
		path := s.IconPath(brand, name, format)
		if exists, _ := afero.Exists(s.fs, path); exists {
			content, err := afero.ReadFile(s.fs, path)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read icon %q", name)
			}
			return content, nil
		}
	}
	return nil, errors.Newf(errors.ErrIconNotFound, "icon %q not found in brand %q",
		naming.Normalize(name), naming.Normalize(brand))
}

// AddIcon writes a new icon. The brand is auto-created when missing.
// Duplicate names are an error, never a silent overwrite; vector content is
// sniff-checked before anything is written.
func (s *Store) AddIcon(brand, name string, content []byte, format string) (Icon, error) {
	normalizedBrand := naming.Normalize(brand)
	normalizedName := naming.Normalize(name)
	if normalizedBrand == "" || normalizedName == "" {
		return Icon{}, errors.Newf(errors.ErrInvalidName, "brand %q / icon %q normalize to nothing", brand, name)
	}

	if format == "" {
		format = FormatVector
	}
	if format != FormatVector && format != FormatRaster {
		return Icon{}, errors.Newf(errors.ErrInvalidFormat, "unsupported format %q", format)
	}
	if format == FormatVector {
		if err := svg.Validate(content); err != nil {
			return Icon{}, errors.Wrapf(err, errors.ErrInvalidContent, "icon %q is not a valid vector document", normalizedName).
				WithDetail("brand", normalizedBrand)
		}
	}

	if s.HasIcon(normalizedBrand, normalizedName) {
		return Icon{}, errors.Newf(errors.ErrIconExists, "icon %q already exists in brand %q", normalizedName, normalizedBrand)
	}

	brandPath := filepath.Join(s.root, normalizedBrand)
	if err := s.fs.MkdirAll(brandPath, 0755); err != nil {
		return Icon{}, errors.Wrapf(err, errors.ErrFileWrite, "cannot create brand %q", normalizedBrand)
	}

	path := filepath.Join(brandPath, normalizedName+"."+format)
	if err := afero.WriteFile(s.fs, path, content, 0644); err != nil {
		return Icon{}, errors.Wrapf(err, errors.ErrFileWrite, "cannot write icon %q", normalizedName)
	}

	logger := logging.GetLogger("assets")
	logger.Debug().
		Str("brand", normalizedBrand).
		Str("icon", normalizedName).
		Int("bytes", len(content)).
		Msg("Icon added")

	return Icon{
		Brand:        normalizedBrand,
		Name:         normalizedName,
		OriginalName: name,
		Format:       format,
		Path:         path,
		Size:         int64(len(content)),
	}, nil
}

// RemoveIcon deletes an icon, searching all supported formats.
func (s *Store) RemoveIcon(brand, name string) error {
	normalizedBrand := naming.Normalize(brand)
	normalizedName := naming.Normalize(name)

	for _, format := range supportedFormats {
		path := s.IconPath(normalizedBrand, normalizedName, format)
		if exists, _ := afero.Exists(s.fs, path); exists {
			if err := s.fs.Remove(path); err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot remove icon %q", normalizedName)
			}
			logger := logging.GetLogger("assets")
			logger.Debug().
				Str("brand", normalizedBrand).
				Str("icon", normalizedName).
				Msg("Icon removed")
			return nil
		}
	}
	return errors.Newf(errors.ErrIconNotFound, "icon %q not found in brand %q", normalizedName, normalizedBrand)
}
