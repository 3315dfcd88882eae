package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dop251/goja"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scriptkit/internal/buildpipeline"
	"scriptkit/internal/diagfmt"
	"scriptkit/internal/transpile"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [script] [-- args...]",
	Short: "Run a script and print its result",
	Long:  `Run a script. Without a path the [run].main entry of scriptkit.toml is used. Arguments after -- are passed as strings.`,
	RunE:  runScript,
}

func init() {
	registerRunFlags(runCmd)
	runCmd.Flags().String("format", "pretty", "result format (pretty|json|none)")
}

func runScript(cmd *cobra.Command, args []string) error {
	scriptArgs := args
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		scriptArgs = args[dash:]
		args = args[:dash]
	} else if len(args) > 0 {
		scriptArgs = args[1:]
	}
	if len(args) > 1 {
		return fmt.Errorf("run takes at most one script, got %d", len(args))
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	start := "."
	if len(args) > 0 {
		start = filepath.Dir(args[0])
	}
	s, err := loadSettings(cmd, start)
	if err != nil {
		return err
	}
	path, err := s.scriptPath(args)
	if err != nil {
		return err
	}

	req := s.runRequest(path, cmd.OutOrStdout(), cmd.ErrOrStderr())
	for _, a := range scriptArgs {
		req.Args = append(req.Args, a)
	}
	res, err := buildpipeline.Run(cmd.Context(), req)
	if reportCompileError(cmd, path, err) {
		return nil
	}
	if err != nil {
		return err
	}

	if res.Err != nil {
		printScriptError(cmd.ErrOrStderr(), res, useColor(cmd))
		exitCode = 1
	} else if err := printResult(cmd.OutOrStdout(), res.Value, format); err != nil {
		return err
	}
	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		printStageTimings(cmd.ErrOrStderr(), res.Timings)
	}
	return nil
}

func (s *settings) runRequest(path string, stdout, stderr io.Writer) buildpipeline.RunRequest {
	return buildpipeline.RunRequest{
		Path:      path,
		Backend:   s.backend,
		Budget:    s.budget,
		ForceSync: s.forceSync,
		Names:     s.names,
		Macros:    s.macros,
		Cache:     s.cache,
		Stdout:    stdout,
		Stderr:    stderr,
	}
}

// reportCompileError prints a transpile or engine syntax error with its
// snippet. It reports whether err was one.
func reportCompileError(cmd *cobra.Command, path string, err error) bool {
	var se *transpile.SyntaxError
	if !errors.As(err, &se) {
		return false
	}
	raw, _ := os.ReadFile(path)
	diagfmt.SyntaxError(cmd.ErrOrStderr(), se, string(raw), diagfmt.PrettyOpts{Color: useColor(cmd), Context: 1})
	exitCode = 1
	return true
}

func printScriptError(w io.Writer, res *buildpipeline.RunResult, useColor bool) {
	red := color.New(color.FgRed, color.Bold)
	if !useColor {
		red.DisableColor()
	}
	if res.Trace != nil {
		fmt.Fprintf(w, "%s %s\n", red.Sprint("error:"), res.Trace.String())
		return
	}
	fmt.Fprintf(w, "%s %v\n", red.Sprint("error:"), res.Err)
}

func printResult(w io.Writer, v goja.Value, format string) error {
	switch format {
	case "none":
		return nil
	case "json":
		var out any
		if v != nil && !goja.IsUndefined(v) {
			out = v.Export()
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "pretty":
		if v == nil || goja.IsUndefined(v) {
			return nil
		}
		if obj, ok := v.(*goja.Object); ok {
			if b, err := json.MarshalIndent(obj.Export(), "", "  "); err == nil {
				fmt.Fprintln(w, string(b))
				return nil
			}
		}
		fmt.Fprintln(w, v.String())
		return nil
	}
	return fmt.Errorf("unknown format: %s", format)
}
