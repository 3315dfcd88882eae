package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"scriptkit/internal/buildpipeline"
	"scriptkit/internal/project"
	"scriptkit/internal/transpile"
)

const noMainMessage = "no script given and no [run].main in scriptkit.toml\nplease specify the script explicitly, e.g.:\n  scriptkit run path/to/script.js"

// settings merge scriptkit.toml with command-line flags; flags win.
type settings struct {
	manifest  *project.Manifest
	names     transpile.Names
	macros    []transpile.Macro
	budget    int
	forceSync bool
	backend   buildpipeline.Backend
	jobs      int
	maxDiag   int
	include   []string
	cache     *transpile.DiskCache
}

func registerRunFlags(cmd *cobra.Command) {
	cmd.Flags().Int("budget", 0, "max loop iterations per call (0 = unlimited)")
	cmd.Flags().Bool("force-sync", false, "drop await and lower imports synchronously")
	cmd.Flags().String("backend", "", "execution backend (native|interp)")
}

func loadManifest(cmd *cobra.Command, startDir string) (*project.Manifest, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if explicit != "" {
		cfg, err := project.LoadConfig(explicit)
		if err != nil {
			return nil, err
		}
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return nil, err
		}
		return &project.Manifest{Path: abs, Root: filepath.Dir(abs), Config: cfg}, nil
	}
	m, ok, err := project.Load(startDir)
	if err != nil || !ok {
		return nil, err
	}
	return m, nil
}

func loadSettings(cmd *cobra.Command, startDir string) (*settings, error) {
	m, err := loadManifest(cmd, startDir)
	if err != nil {
		return nil, err
	}
	s := &settings{manifest: m, names: transpile.Names{}.WithDefaults()}
	if m != nil {
		cfg := m.Config
		s.names = cfg.Names
		s.macros = cfg.Macros
		s.budget = cfg.Run.Budget
		s.forceSync = cfg.Run.ForceSync
		s.jobs = cfg.Check.Jobs
		s.maxDiag = cfg.Check.MaxDiagnostics
		s.include = cfg.Check.Include
		if s.backend, err = buildpipeline.ParseBackend(cfg.Run.Backend); err != nil {
			return nil, fmt.Errorf("%s: %w", m.Path, err)
		}
		pslog.Ctx(cmd.Context()).Debug("config: loaded manifest", "path", m.Path)
	} else {
		s.backend = buildpipeline.BackendNative
	}

	flags := cmd.Flags()
	if flags.Changed("budget") {
		if s.budget, err = flags.GetInt("budget"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("force-sync") {
		if s.forceSync, err = flags.GetBool("force-sync"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("backend") {
		name, err := flags.GetString("backend")
		if err != nil {
			return nil, err
		}
		if s.backend, err = buildpipeline.ParseBackend(name); err != nil {
			return nil, err
		}
	}
	if flags.Changed("jobs") {
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, err
		}
	}
	if root := cmd.Root().PersistentFlags(); root.Changed("max-diagnostics") || s.maxDiag == 0 {
		if s.maxDiag, err = root.GetInt("max-diagnostics"); err != nil {
			return nil, err
		}
	}

	noCache, err := cmd.Root().PersistentFlags().GetBool("no-cache")
	if err != nil {
		return nil, err
	}
	if m != nil && m.CacheDir() != "" && !noCache {
		if s.cache, err = transpile.OpenDiskCache(m.CacheDir()); err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
	}
	return s, nil
}

func (s *settings) transpileOptions() transpile.Options {
	return transpile.Options{Names: s.names, Macros: s.macros, ForceSync: s.forceSync}
}

// scriptPath picks the script from args or from [run].main.
func (s *settings) scriptPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if s.manifest != nil && s.manifest.Config.Run.Main != "" {
		return s.manifest.Resolve(s.manifest.Config.Run.Main), nil
	}
	return "", fmt.Errorf("%s", noMainMessage)
}
