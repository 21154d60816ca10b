package build

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/glyphkit/glyphkit/pkg/assets"
	"github.com/glyphkit/glyphkit/pkg/errors"
)

// rasterStage renders every vector icon at the configured size set,
// emitting one independent {icon}-{size}.png per size. Each icon is
// rendered once at the largest size and downscaled from there, so the
// whole size set stays visually consistent.
func (p *Pipeline) rasterStage(brand string, icons []assets.Icon, outDir string) ([]string, error) {
	sizes := p.cfg.RasterSizes
	if len(sizes) == 0 {
		sizes = []int{16, 24, 32, 48, 64}
	}
	max := sizes[0]
	for _, size := range sizes {
		if size > max {
			max = size
		}
	}

	dir := outFile(outDir, "png")
	if err := p.fs.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrFileWrite, "cannot create png output directory")
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
		base, err := renderSVG(content, max)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidContent, "cannot rasterize icon %q", icon.Name)
		}
		for _, size := range sizes {
			var img image.Image = base
			if size != max {
				img = imaging.Resize(base, size, size, imaging.Lanczos)
			}
			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				return nil, errors.Wrapf(err, errors.ErrInternal, "cannot encode %s-%d.png", icon.Name, size)
			}
			path := outFile(dir, fmt.Sprintf("%s-%d.png", icon.Name, size))
			if err := afero.WriteFile(p.fs, path, buf.Bytes(), 0644); err != nil {
				return nil, errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path)
			}
			files = append(files, relOut(outDir, path))
		}
	}
	return files, nil
}

// renderSVG rasterizes a vector document into a size x size RGBA image.
func renderSVG(content []byte, size int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)
	return img, nil
}
