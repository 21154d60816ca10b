package build

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/afero"

	"github.com/glyphkit/glyphkit/pkg/assets"
	"github.com/glyphkit/glyphkit/pkg/errors"
	"github.com/glyphkit/glyphkit/pkg/logging"
)

// fontWorkdirMu serializes font compilation across concurrent brand
// builds: the external compiler consumes current-directory glob input, and
// the working directory is process-wide state. Every other stage runs
// freely in parallel.
var fontWorkdirMu sync.Mutex

// Glyph is one icon's deterministic code point assignment.
type Glyph struct {
	Name      string
	CodePoint rune
}

// AssignCodePoints maps icon names to sequential private-use-area code
// points in the icon list's sort order. Re-running with the same icon set
// always yields identical assignments.
func AssignCodePoints(icons []assets.Icon, base int) []Glyph {
	names := make([]string, 0, len(icons))
	for _, icon := range icons {
		if icon.Format == assets.FormatVector {
			names = append(names, icon.Name)
		}
	}
	sort.Strings(names)

	glyphs := make([]Glyph, len(names))
	for i, name := range names {
		glyphs[i] = Glyph{Name: name, CodePoint: rune(base + i)}
	}
	return glyphs
}

// FontCompiler produces the binary font files for one brand. The external
// default shells out to the configured tool; tests substitute a fake.
type FontCompiler interface {
	// Compile builds fonts named fontName from the vector sources in
	// srcDir into outDir and returns the written file paths.
	Compile(ctx context.Context, srcDir, outDir, fontName string) ([]string, error)
}

// ExecCompiler invokes an external icon-font compiler. The tool operates
// on current-directory glob input, so Compile changes the working
// directory to srcDir for the duration of the call and restores it on
// every exit path.
type ExecCompiler struct {
	Tool string
}

// Compile runs the external tool inside srcDir. Callers must hold
// fontWorkdirMu (the font stage does).
func (c *ExecCompiler) Compile(ctx context.Context, srcDir, outDir, fontName string) ([]string, error) {
	prev, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFontCompile, "cannot read working directory")
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFontCompile, "cannot resolve output directory")
	}
	if err := os.Chdir(srcDir); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFontCompile, "cannot enter source directory %s", srcDir)
	}
	defer func() {
		if err := os.Chdir(prev); err != nil {
			logger := logging.GetLogger("build.font")
			logger.Error().Err(err).Str("dir", prev).Msg("Failed to restore working directory")
		}
	}()

	cmd := exec.CommandContext(ctx, c.Tool,
		".",
		"--output", absOut,
		"--name", fontName,
		"--font-types", "woff2", "woff", "ttf",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFontCompile, "%s failed: %s", c.Tool, stderr.String())
	}

	var files []string
	for _, ext := range []string{"woff2", "woff", "ttf"} {
		files = append(files, filepath.Join(absOut, fontName+"."+ext))
	}
	return files, nil
}

// fontStage compiles the brand's vector icons into one icon font (woff2,
// woff and ttf) plus a stylesheet mapping one CSS class per icon to its
// code point. The font reads the brand's raw asset directory directly,
// independent of the vector stage's copy.
func (p *Pipeline) fontStage(ctx context.Context, brand string, icons []assets.Icon, outDir string) ([]string, error) {
	glyphs := AssignCodePoints(icons, p.cfg.FontBase)
	if len(glyphs) == 0 {
		// A raster-only brand has nothing to compile. Skipping keeps the
		// rest of the brand's build alive instead of failing it outright.
		p.log.Warn().Str("brand", brand).Msg("No vector icons, skipping font stage")
		return nil, nil
	}

	dir := outFile(outDir, "font")
	if err := p.fs.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrFileWrite, "cannot create font output directory")
	}

	fontName := "glyphkit-" + brand

	stylesheetPath := outFile(dir, fontName+".css")
	if err := afero.WriteFile(p.fs, stylesheetPath, renderStylesheet(fontName, glyphs), 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", stylesheetPath)
	}
	files := []string{relOut(outDir, stylesheetPath)}

	fontWorkdirMu.Lock()
	compiled, err := p.compiler.Compile(ctx, p.store.BrandPath(brand), dir, fontName)
	fontWorkdirMu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, f := range compiled {
		files = append(files, relOut(outDir, f))
	}
	return files, nil
}

// renderStylesheet emits the @font-face block and one class per glyph.
func renderStylesheet(fontName string, glyphs []Glyph) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "@font-face {\n")
	fmt.Fprintf(&b, "  font-family: %q;\n", fontName)
	fmt.Fprintf(&b, "  src: url(%q) format(\"woff2\"),\n", fontName+".woff2")
	fmt.Fprintf(&b, "       url(%q) format(\"woff\"),\n", fontName+".woff")
	fmt.Fprintf(&b, "       url(%q) format(\"truetype\");\n", fontName+".ttf")
	fmt.Fprintf(&b, "}\n\n")
	fmt.Fprintf(&b, "[class^=\"gk-\"], [class*=\" gk-\"] {\n  font-family: %q;\n  font-style: normal;\n  font-weight: normal;\n}\n", fontName)
	for _, glyph := range glyphs {
		fmt.Fprintf(&b, "\n.gk-%s:before {\n  content: \"\\%x\";\n}\n", glyph.Name, glyph.CodePoint)
	}
	return b.Bytes()
}
