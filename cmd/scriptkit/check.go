package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"scriptkit/internal/buildpipeline"
	"scriptkit/internal/diagfmt"
	"scriptkit/internal/transpile"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file|directory...]",
	Short: "Report syntax errors in scripts",
	Long:  `Parse and transpile every script without running it. Without arguments the [check].include globs of scriptkit.toml are used.`,
	RunE:  runCheck,
}

// scriptExts are collected when walking directories.
var scriptExts = map[string]bool{".js": true, ".mjs": true, ".jsx": true, ".ts": true, ".tsx": true}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("force-sync", false, "check with await dropped")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

type checkFileJSON struct {
	File        string                   `json:"file"`
	IsAsync     bool                     `json:"is_async"`
	IsModule    bool                     `json:"is_module"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics"`
	Error       string                   `json:"error,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	s, err := loadSettings(cmd, ".")
	if err != nil {
		return err
	}
	files, err := collectScripts(args, s)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no scripts to check")
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	files = buildpipeline.DisplayFiles(files, cwd)

	req := buildpipeline.CheckRequest{
		Files:          files,
		Jobs:           s.jobs,
		BaseDir:        cwd,
		Transpile:      s.transpileOptions(),
		Cache:          s.cache,
		MaxDiagnostics: s.maxDiag,
	}
	var res *buildpipeline.CheckResult
	if format == "pretty" && shouldUseTUI(mode, len(files)) {
		res, err = runCheckWithUI(cmd.Context(), "checking", req)
	} else {
		res, err = buildpipeline.Check(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	out := cmd.OutOrStdout()
	if format == "json" {
		err = printCheckJSON(out, res, diagfmt.JSONOpts{IncludePositions: true, PathMode: pathMode, IncludeNotes: withNotes})
	} else {
		printCheckPretty(out, res, diagfmt.PrettyOpts{Color: useColor(cmd), Context: 1, PathMode: pathMode, ShowNotes: withNotes})
	}
	if err != nil {
		return err
	}

	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		var total buildpipeline.Timings
		for _, r := range res.Files {
			for _, st := range []buildpipeline.Stage{buildpipeline.StageLoad, buildpipeline.StageParse, buildpipeline.StageTranspile} {
				total.Set(st, total.Duration(st)+r.Timings.Duration(st))
			}
		}
		printStageTimings(cmd.ErrOrStderr(), total)
	}
	if res.Failed() {
		exitCode = 1
	}
	return nil
}

func printCheckPretty(w io.Writer, res *buildpipeline.CheckResult, opts diagfmt.PrettyOpts) {
	failed := 0
	for _, r := range res.Files {
		if r.Bag != nil && r.Bag.Len() > 0 {
			diagfmt.Pretty(w, r.Bag, res.FileSet, r.File, opts)
		}
		var se *transpile.SyntaxError
		switch {
		case errors.As(r.Err, &se):
			f := res.FileSet.Get(r.File)
			diagfmt.SyntaxError(w, se, string(f.Content), opts)
		case r.Err != nil:
			fmt.Fprintf(w, "%s: %v\n", r.Path, r.Err)
		}
		if r.Failed() {
			failed++
		}
	}
	if failed > 0 || len(res.Files) > 1 {
		fmt.Fprintf(w, "%d file(s) checked, %d failed\n", len(res.Files), failed)
	}
}

func printCheckJSON(w io.Writer, res *buildpipeline.CheckResult, opts diagfmt.JSONOpts) error {
	out := make([]checkFileJSON, 0, len(res.Files))
	for _, r := range res.Files {
		entry := checkFileJSON{File: r.Path, IsAsync: r.IsAsync, IsModule: r.IsModule, Diagnostics: []diagfmt.DiagnosticJSON{}}
		if r.Bag != nil {
			entry.Diagnostics = diagfmt.BuildDiagnosticsOutput(r.Bag, res.FileSet, r.File, opts).Diagnostics
		}
		var se *transpile.SyntaxError
		switch {
		case errors.As(r.Err, &se):
			entry.Diagnostics = append(entry.Diagnostics, diagfmt.SyntaxErrorJSON(se))
		case r.Err != nil:
			entry.Error = r.Err.Error()
		}
		out = append(out, entry)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// collectScripts expands directories and, without args, the manifest's
// include globs.
func collectScripts(args []string, s *settings) ([]string, error) {
	if len(args) == 0 && s.manifest != nil {
		for _, pattern := range s.include {
			matches, err := filepath.Glob(s.manifest.Resolve(pattern))
			if err != nil {
				return nil, fmt.Errorf("%s: bad include %q: %w", s.manifest.Path, pattern, err)
			}
			args = append(args, matches...)
		}
		if len(args) == 0 && s.manifest.Config.Run.Main != "" {
			args = append(args, s.manifest.Resolve(s.manifest.Config.Run.Main))
		}
	}

	var files []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			// missing files are reported per file by the pipeline
			files = append(files, arg)
			continue
		}
		if !st.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if (path != arg && strings.HasPrefix(d.Name(), ".")) || d.Name() == "node_modules" {
					return filepath.SkipDir
				}
				return nil
			}
			if scriptExts[filepath.Ext(path)] {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
