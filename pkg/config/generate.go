package config

import (
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/glyphkit/glyphkit/pkg/errors"
)

// projectFile is the subset of Config worth pinning in a project file.
// Credentials stay in the environment on purpose.
type projectFile struct {
	Organization      string `toml:"organization"`
	OutputRoot        string `toml:"output_root"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
	RasterSizes       []int  `toml:"raster_sizes"`
	FontTool          string `toml:"font_tool"`
	PageTraversal     string `toml:"page_traversal"`
}

// Generate writes a starter glyphkit.toml at path, seeded from cfg.
func Generate(fs afero.Fs, cfg *Config, path string) error {
	out, err := toml.Marshal(projectFile{
		Organization:      cfg.Organization,
		OutputRoot:        cfg.OutputRoot,
		RequestsPerMinute: cfg.RequestsPerMinute,
		RasterSizes:       cfg.RasterSizes,
		FontTool:          cfg.FontTool,
		PageTraversal:     cfg.PageTraversal,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to marshal project config")
	}
	header := []byte("# glyphkit project configuration\n# Credentials are read from the environment, never from this file.\n\n")
	if err := afero.WriteFile(fs, path, append(header, out...), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	return nil
}
