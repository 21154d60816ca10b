// Package build drives the multi-brand build pipeline: every selected brand
// fans out into its own build, stages run sequentially inside a brand
// (vector, raster, font, component, package descriptor), and one brand's
// failure never cancels its siblings.
package build

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/glyphkit/glyphkit/pkg/assets"
	"github.com/glyphkit/glyphkit/pkg/config"
	"github.com/glyphkit/glyphkit/pkg/errors"
	"github.com/glyphkit/glyphkit/pkg/logging"
	"github.com/glyphkit/glyphkit/pkg/naming"
)

// Platform selects which renderers run.
type Platform string

const (
	PlatformAll       Platform = "all"
	PlatformVector    Platform = "vector"
	PlatformRaster    Platform = "raster"
	PlatformFont      Platform = "font"
	PlatformComponent Platform = "component"
)

// ParsePlatform validates a platform selector from the CLI.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformAll, PlatformVector, PlatformRaster, PlatformFont, PlatformComponent:
		return Platform(s), nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown platform %q (want all, vector, raster, font or component)", s)
}

// Options selects what one pipeline run builds.
type Options struct {
	// Brands is an explicit selection; empty means every brand holding at
	// least one icon.
	Brands   []string
	Platform Platform
	// OutputRoot overrides the configured output directory when non-empty.
	OutputRoot string
}

// BrandResult is one brand's build outcome.
type BrandResult struct {
	Brand     string
	Status    string // "built" or "failed"
	IconCount int
	Files     []string
	Err       error
}

// Report aggregates a whole pipeline run.
type Report struct {
	Duration   time.Duration
	TotalIcons int
	Built      int
	Failed     int
	Results    []BrandResult
}

// OK reports whether every selected brand built.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Pipeline renders brand icon sets into output artifacts.
type Pipeline struct {
	cfg      *config.Config
	store    *assets.Store
	fs       afero.Fs
	compiler FontCompiler
	log      zerolog.Logger
}

// New wires a pipeline. A nil compiler falls back to the configured
// external font tool.
func New(cfg *config.Config, store *assets.Store, fs afero.Fs, compiler FontCompiler) *Pipeline {
	if compiler == nil {
		compiler = &ExecCompiler{Tool: cfg.FontTool}
	}
	return &Pipeline{
		cfg:      cfg,
		store:    store,
		fs:       fs,
		compiler: compiler,
		log:      logging.GetLogger("build"),
	}
}

// Run builds all selected brands concurrently and awaits every completion
// before producing the report. Failure of one brand is captured in its
// result, never propagated to siblings.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()
	if opts.Platform == "" {
		opts.Platform = PlatformAll
	}

	brands, err := p.selectBrands(opts.Brands)
	if err != nil {
		return nil, err
	}

	outputRoot := opts.OutputRoot
	if outputRoot == "" {
		outputRoot = p.cfg.OutputRoot
	}

	report := &Report{}
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, brand := range brands {
		wg.Add(1)
		go func(brand string) {
			defer wg.Done()
			result := p.buildBrand(ctx, brand, opts.Platform, outputRoot)
			mu.Lock()
			report.Results = append(report.Results, result)
			mu.Unlock()
		}(brand)
	}
	wg.Wait()

	sort.Slice(report.Results, func(i, j int) bool { return report.Results[i].Brand < report.Results[j].Brand })
	for _, result := range report.Results {
		report.TotalIcons += result.IconCount
		if result.Err == nil {
			report.Built++
		} else {
			report.Failed++
		}
	}
	report.Duration = time.Since(start)

	p.log.Info().
		Int("built", report.Built).
		Int("failed", report.Failed).
		Int("icons", report.TotalIcons).
		Dur("duration", report.Duration).
		Msg("Build finished")
	return report, nil
}

// selectBrands resolves the explicit list, or auto-discovers every brand
// with at least one icon.
func (p *Pipeline) selectBrands(explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		return naming.NormalizeAll(explicit), nil
	}
	all, err := p.store.ListBrands()
	if err != nil {
		return nil, err
	}
	var brands []string
	for _, brand := range all {
		if brand.IconCount > 0 {
			brands = append(brands, brand.Name)
		}
	}
	return brands, nil
}

// buildBrand runs the stage sequence for one brand. The icon list is
// snapshotted once at the start; later stages never re-read it.
func (p *Pipeline) buildBrand(ctx context.Context, brand string, platform Platform, outputRoot string) (result BrandResult) {
	result = BrandResult{Brand: brand, Status: "failed"}
	logger := p.log.With().Str("brand", brand).Logger()

	defer func() {
		if r := recover(); r != nil {
			result.Err = errors.Newf(errors.ErrStageFailed, "brand build panicked: %v", r)
			logger.Error().Interface("panic", r).Msg("Brand build panicked")
		}
	}()

	icons, err := p.store.ListIcons(brand)
	if err != nil {
		result.Err = err
		return result
	}
	if len(icons) == 0 {
		result.Err = errors.Newf(errors.ErrNoIcons, "brand %q has no icons to build", brand)
		return result
	}
	result.IconCount = len(icons)

	outDir := filepath.Join(outputRoot, brand)
	if err := p.fs.MkdirAll(outDir, 0755); err != nil {
		result.Err = errors.Wrapf(err, errors.ErrFileWrite, "cannot create output directory for %q", brand)
		return result
	}

	type stage struct {
		platform Platform
		run      func() ([]string, error)
	}
	stages := []stage{
		{PlatformVector, func() ([]string, error) { return p.vectorStage(brand, icons, outDir) }},
		{PlatformRaster, func() ([]string, error) { return p.rasterStage(brand, icons, outDir) }},
		{PlatformFont, func() ([]string, error) { return p.fontStage(ctx, brand, icons, outDir) }},
		{PlatformComponent, func() ([]string, error) { return p.componentStage(brand, icons, outDir) }},
	}

	for _, st := range stages {
		if platform != PlatformAll && platform != st.platform {
			continue
		}
		files, err := st.run()
		if err != nil {
			result.Err = errors.Wrapf(err, errors.ErrStageFailed, "%s stage failed for brand %q", st.platform, brand)
			logger.Error().Err(err).Str("stage", string(st.platform)).Msg("Stage failed")
			return result
		}
		result.Files = append(result.Files, files...)
		logger.Debug().Str("stage", string(st.platform)).Int("files", len(files)).Msg("Stage completed")
	}

	// The package descriptor is emitted regardless of which stages ran.
	descriptorFile, err := p.writeDescriptor(brand, icons, outDir, result.Files)
	if err != nil {
		result.Err = err
		return result
	}
	result.Files = append(result.Files, descriptorFile)

	result.Status = "built"
	return result
}

// relOut converts an absolute output path to the brand-relative form used
// in manifests.
func relOut(outDir, path string) string {
	rel, err := filepath.Rel(outDir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func outFile(outDir string, parts ...string) string {
	return filepath.Join(append([]string{outDir}, parts...)...)
}
