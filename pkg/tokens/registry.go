// Package tokens implements the design-token registry: one JSON file with a
// top-level "icon" mapping from "{brand}-{name}" keys to asset metadata.
// The registry is a derived projection of the asset store plus remote
// metadata; it is rebuilt wholesale after every sync and must never be
// treated as the source of truth for asset existence.
package tokens

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/glyphkit/glyphkit/pkg/errors"
	"github.com/glyphkit/glyphkit/pkg/naming"
)

// DefaultFile is the registry filename inside the assets root.
const DefaultFile = "icons.tokens.json"

// Entry is one token: logical value plus provenance metadata.
type Entry struct {
	Value        string `json:"value"`
	Type         string `json:"type"`
	Description  string `json:"description,omitempty"`
	Brand        string `json:"brand"`
	Name         string `json:"name"`
	OriginalName string `json:"originalName,omitempty"`
	Size         int64  `json:"size,omitempty"`
	Format       string `json:"format,omitempty"`
	LastModified string `json:"lastModified,omitempty"`
}

// CanonicalKey derives the key this entry must be stored under. The
// integrity invariant is that the stored key always equals this value.
func (e Entry) CanonicalKey() string {
	return naming.Key(e.Brand, e.Name)
}

// Registry is the in-memory form of the token file.
type Registry struct {
	Icon map[string]Entry `json:"icon"`
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{Icon: make(map[string]Entry)}
}

// Put stores an entry under its canonical key, normalizing brand and name.
func (r *Registry) Put(e Entry) {
	e.Brand = naming.Normalize(e.Brand)
	e.Name = naming.Normalize(e.Name)
	if e.Type == "" {
		e.Type = "asset"
	}
	if e.Value == "" {
		e.Value = filepath.ToSlash(filepath.Join(e.Brand, e.Name+".svg"))
	}
	r.Icon[e.CanonicalKey()] = e
}

// Keys returns all registry keys sorted ascending.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.Icon))
	for k := range r.Icon {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load reads the registry from path. A missing file yields an empty
// registry, not an error: the registry is always recoverable by re-sync.
func Load(fs afero.Fs, path string) (*Registry, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewRegistry(), nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read token registry %s", path)
	}

	var r Registry
	if err := json.Unmarshal(content, &r); err != nil {
		return nil, errors.Wrapf(err, errors.ErrRegistryInvalid, "token registry %s is not valid JSON", path)
	}
	if r.Icon == nil {
		r.Icon = make(map[string]Entry)
	}
	return &r, nil
}

// Save writes the registry to path. Map keys marshal in sorted order, so
// the output is deterministic for a given icon set.
func (r *Registry) Save(fs afero.Fs, path string) error {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot marshal token registry")
	}
	out = append(out, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "cannot create registry directory %s", dir)
		}
	}
	if err := afero.WriteFile(fs, path, out, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write token registry %s", path)
	}
	return nil
}

// Problem is one integrity finding from Verify.
type Problem struct {
	Key     string
	Message string
	// Fatal distinguishes invariant violations from warnings.
	Fatal bool
}

// Verify checks the key/field consistency invariant for every entry and,
// when assetsRoot is non-empty, warns about values pointing at missing
// files. Missing files are warnings only: the registry is not the source
// of truth for existence.
func (r *Registry) Verify(fs afero.Fs, assetsRoot string) []Problem {
	var problems []Problem
	for _, key := range r.Keys() {
		entry := r.Icon[key]
		if canonical := entry.CanonicalKey(); key != canonical {
			problems = append(problems, Problem{
				Key:     key,
				Message: "key does not match canonical key " + canonical + " derived from brand+name",
				Fatal:   true,
			})
		}
		if entry.Type != "asset" {
			problems = append(problems, Problem{
				Key:     key,
				Message: "unexpected type " + entry.Type,
				Fatal:   true,
			})
		}
		if assetsRoot != "" && entry.Value != "" {
			path := filepath.Join(assetsRoot, filepath.FromSlash(entry.Value))
			if exists, _ := afero.Exists(fs, path); !exists {
				problems = append(problems, Problem{
					Key:     key,
					Message: "value points at missing asset " + path,
				})
			}
		}
	}
	return problems
}
