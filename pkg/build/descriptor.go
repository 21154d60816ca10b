package build

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/spf13/afero"

	"github.com/glyphkit/glyphkit/pkg/assets"
	"github.com/glyphkit/glyphkit/pkg/errors"
)

// descriptorVersion is a placeholder; release tooling stamps the real
// version at publish time.
const descriptorVersion = "0.0.0"

// IconMeta is the per-icon metadata snapshot embedded in the descriptor.
type IconMeta struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
}

// DescriptorMeta carries the brand-level build metadata.
type DescriptorMeta struct {
	Brand       string     `json:"brand"`
	IconCount   int        `json:"iconCount"`
	GeneratedAt string     `json:"generatedAt"`
	Icons       []IconMeta `json:"icons"`
}

// Descriptor is the publishable package manifest emitted for every brand
// build, regardless of which stages ran.
type Descriptor struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Main        string            `json:"main"`
	Files       []string          `json:"files"`
	Exports     map[string]string `json:"exports"`
	Metadata    DescriptorMeta    `json:"metadata"`
}

// writeDescriptor emits the brand's package.json and returns its
// manifest-relative path.
func (p *Pipeline) writeDescriptor(brand string, icons []assets.Icon, outDir string, files []string) (string, error) {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	iconMeta := make([]IconMeta, 0, len(icons))
	for _, icon := range icons {
		iconMeta = append(iconMeta, IconMeta{Name: icon.Name, Format: icon.Format, Size: icon.Size})
	}

	descriptor := Descriptor{
		Name:        "@" + p.cfg.Organization + "/icons-" + brand,
		Version:     descriptorVersion,
		Description: "Icon assets for brand " + brand,
		Main:        "component/glyphkit-" + brand + "-icon.js",
		Files:       sorted,
		Exports: map[string]string{
			".":       "./component/glyphkit-" + brand + "-icon.js",
			"./font":  "./font/glyphkit-" + brand + ".css",
			"./svg/*": "./svg/*",
			"./png/*": "./png/*",
		},
		Metadata: DescriptorMeta{
			Brand:       brand,
			IconCount:   len(icons),
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			Icons:       iconMeta,
		},
	}

	out, err := json.MarshalIndent(descriptor, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "cannot marshal package descriptor")
	}
	out = append(out, '\n')

	path := outFile(outDir, "package.json")
	if err := afero.WriteFile(p.fs, path, out, 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path)
	}
	return relOut(outDir, path), nil
}
