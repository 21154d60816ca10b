package build

import (
	"github.com/spf13/afero"

	"github.com/glyphkit/glyphkit/pkg/assets"
	"github.com/glyphkit/glyphkit/pkg/errors"
)

// vectorStage copies every vector icon's source content verbatim into the
// brand's svg output directory.
func (p *Pipeline) vectorStage(brand string, icons []assets.Icon, outDir string) ([]string, error) {
	dir := outFile(outDir, "svg")
	if err := p.fs.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrFileWrite, "cannot create svg output directory")
	}

	var files []string
	for _, icon := range icons {
		if icon.Format != assets.FormatVector {
			continue
		}
		content, err := p.store.ReadIcon(brand, icon.Name)
		if err != nil {
			return nil, err
		}
		path := outFile(dir, icon.Name+".svg")
		if err := afero.WriteFile(p.fs, path, content, 0644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path)
		}
		files = append(files, relOut(outDir, path))
	}
	return files, nil
}
