// Package config builds the single configuration object handed to every
// component at construction time. Nothing outside this package reads the
// process environment: the Synchronizer, the remote client, the asset store
// and the build pipeline all receive a *Config by reference.
//
// Precedence, lowest to highest: embedded defaults, project file
// (glyphkit.toml or .glyphkit.toml in the assets root), environment
// (GLYPHKIT_* plus the legacy FIGMA_FILE_KEY / FIGMA_ACCESS_TOKEN), CLI
// flag overrides applied by the caller.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/glyphkit/glyphkit/pkg/errors"
)

//go:embed defaults.toml
var defaultConfig []byte

// Config holds everything the pipeline needs for one invocation.
type Config struct {
	// AssetsRoot is the directory holding one subdirectory per brand.
	AssetsRoot string `koanf:"assets_root"`
	// OutputRoot is where brand builds are written.
	OutputRoot string `koanf:"output_root"`
	// Organization scopes generated package names: @{org}/icons-{brand}.
	Organization string `koanf:"organization"`

	// FileKey identifies the remote design file (22 alphanumeric chars).
	FileKey string `koanf:"file_key"`
	// AccessToken authenticates remote API calls.
	AccessToken string `koanf:"access_token"`
	// BaseURL is the remote API endpoint. Overridable for tests.
	BaseURL string `koanf:"base_url"`

	RequestsPerMinute int           `koanf:"requests_per_minute"`
	MaxRetries        int           `koanf:"max_retries"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`

	// RasterSizes are the logical pixel sizes rendered by the raster stage.
	RasterSizes []int `koanf:"raster_sizes"`
	// FontBase is the first code point assigned by the font stage.
	FontBase int `koanf:"font_base"`
	// FontTool is the external icon-font compiler binary.
	FontTool string `koanf:"font_tool"`

	// PageTraversal selects how remote pages map to brands: "flat"
	// (every component in the file is eligible for every page) or
	// "subtree" (components collected strictly within the page subtree).
	PageTraversal string `koanf:"page_traversal"`
}

// Load builds the configuration for the assets root at assetsDir. Pass ""
// to use the default root (or one set in the environment).
func Load(assetsDir string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawBytesProvider{defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "failed to load built-in defaults")
	}

	root := assetsDir
	if root == "" {
		if fromEnv := os.Getenv("GLYPHKIT_ASSETS_ROOT"); fromEnv != "" {
			root = fromEnv
		} else {
			root = k.String("assets_root")
		}
	}

	for _, filename := range []string{".glyphkit.toml", "glyphkit.toml"} {
		path := filepath.Join(root, filename)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "failed to load project config from %s", path)
			}
			break
		}
	}

	if err := k.Load(env.Provider("GLYPHKIT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "GLYPHKIT_"))
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "failed to load environment")
	}

	// Legacy variable names, kept for compatibility with the original
	// tooling's environment contract.
	legacy := map[string]interface{}{}
	if v := os.Getenv("FIGMA_FILE_KEY"); v != "" && k.String("file_key") == "" {
		legacy["file_key"] = v
	}
	if v := os.Getenv("FIGMA_ACCESS_TOKEN"); v != "" && k.String("access_token") == "" {
		legacy["access_token"] = v
	}
	if len(legacy) > 0 {
		if err := k.Load(confmap.Provider(legacy, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigInvalid, "failed to apply legacy environment")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "failed to unmarshal configuration")
	}

	if assetsDir != "" {
		cfg.AssetsRoot = assetsDir
	} else if cfg.AssetsRoot == "" {
		cfg.AssetsRoot = root
	}

	return &cfg, nil
}

// ValidateRemote checks the fields every remote-touching invocation needs.
// Failures here are fatal before any sync or build work begins.
func (c *Config) ValidateRemote() error {
	if c.FileKey == "" {
		return errors.New(errors.ErrConfigMissing, "remote file key is not set (flag --file-key, GLYPHKIT_FILE_KEY or FIGMA_FILE_KEY)")
	}
	if c.AccessToken == "" {
		return errors.New(errors.ErrConfigMissing, "remote access token is not set (flag --token, GLYPHKIT_ACCESS_TOKEN or FIGMA_ACCESS_TOKEN)")
	}
	return nil
}

// MinRequestInterval derives the rate limiter interval from the
// requests-per-minute ceiling.
func (c *Config) MinRequestInterval() time.Duration {
	rpm := c.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	return time.Minute / time.Duration(rpm)
}

// rawBytesProvider feeds embedded bytes into koanf.
type rawBytesProvider struct {
	bytes []byte
}

func (r rawBytesProvider) ReadBytes() ([]byte, error) {
	return r.bytes, nil
}

func (r rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("rawBytesProvider does not support Read")
}
