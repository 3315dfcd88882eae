package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"scriptkit/internal/transform"
)

// Manifest is a loaded scriptkit.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors scriptkit.toml.
type Config struct {
	Names transform.Names `toml:"names"`
	// Macros is nil when the file has no [[macros]], which keeps the
	// default list. An empty array disables macros.
	Macros []transform.Macro `toml:"macros"`
	Run    RunConfig         `toml:"run"`
	Check  CheckConfig       `toml:"check"`
	Cache  CacheConfig       `toml:"cache"`
}

type RunConfig struct {
	Main      string `toml:"main"`
	Budget    int    `toml:"budget"`
	ForceSync bool   `toml:"force_sync"`
	Backend   string `toml:"backend"`
}

type CheckConfig struct {
	Jobs           int      `toml:"jobs"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Include        []string `toml:"include"`
}

type CacheConfig struct {
	// Dir is relative to the manifest; empty disables the disk cache.
	Dir string `toml:"dir"`
}

// Load finds and decodes the manifest above startDir. ok is false when
// there is none.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig decodes and validates one manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("macros") && cfg.Macros == nil {
		cfg.Macros = []transform.Macro{}
	}
	for i, m := range cfg.Macros {
		if m.Pattern == "" {
			return Config{}, fmt.Errorf("%s: [[macros]] #%d: missing pattern", path, i+1)
		}
	}
	if cfg.Run.Budget < 0 {
		return Config{}, fmt.Errorf("%s: [run].budget must not be negative", path)
	}
	switch strings.ToLower(cfg.Run.Backend) {
	case "", "native", "interp", "interpreted":
	default:
		return Config{}, fmt.Errorf("%s: [run].backend must be native or interp", path)
	}
	cfg.Names = cfg.Names.WithDefaults()
	return cfg, nil
}

// Resolve turns a manifest-relative path into an absolute one.
func (m *Manifest) Resolve(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Root, filepath.FromSlash(rel))
}

// CacheDir is the absolute cache directory, or "" when caching is off.
func (m *Manifest) CacheDir() string {
	return m.Resolve(strings.TrimSpace(m.Config.Cache.Dir))
}
