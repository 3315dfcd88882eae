package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/spf13/cobra"

	"scriptkit/internal/buildpipeline"
	"scriptkit/internal/debugger"
)

var debugCmd = &cobra.Command{
	Use:   "debug [flags] [script] [-- args...]",
	Short: "Step through a script on the interpreter",
	Long: `Run a script under the line debugger. Commands are read from stdin;
type "help" at the (skdb) prompt for the list.`,
	RunE: runDebug,
}

func init() {
	debugCmd.Flags().Int("budget", 0, "max loop iterations per call (0 = unlimited)")
	debugCmd.Flags().Bool("force-sync", false, "drop await and lower imports synchronously")
	debugCmd.Flags().StringSlice("break", nil, "breakpoint to set before starting, as line[:col]")
	debugCmd.Flags().String("script", "", "read debugger commands from this file instead of stdin")
}

func runDebug(cmd *cobra.Command, args []string) error {
	scriptArgs := args
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		scriptArgs = args[dash:]
		args = args[:dash]
	} else if len(args) > 0 {
		scriptArgs = args[1:]
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
	breaks, err := cmd.Flags().GetStringSlice("break")
	if err != nil {
		return fmt.Errorf("failed to get break flag: %w", err)
	}
	commands, err := cmd.Flags().GetString("script")
	if err != nil {
		return fmt.Errorf("failed to get script flag: %w", err)
	}

	s.backend = buildpipeline.BackendInterp
	sess, err := buildpipeline.Prepare(cmd.Context(), s.runRequest(path, cmd.OutOrStdout(), cmd.ErrOrStderr()))
	if reportCompileError(cmd, path, err) {
		return nil
	}
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	interactive := isTerminal(os.Stdin)
	if commands != "" {
		b, err := os.ReadFile(commands)
		if err != nil {
			return err
		}
		in = strings.NewReader(string(b))
		interactive = false
	}
	// --break flags become the first commands of the session
	if len(breaks) > 0 {
		var pre strings.Builder
		for _, b := range breaks {
			fmt.Fprintf(&pre, "break %s\n", b)
		}
		in = io.MultiReader(strings.NewReader(pre.String()), in)
	}

	rt := sess.Runtime()
	vals := make([]goja.Value, len(scriptArgs))
	for i, a := range scriptArgs {
		vals[i] = rt.ToValue(a)
	}
	d, err := debugger.New(sess.Target(), sess.Interp(), vals, in, cmd.OutOrStdout(), interactive)
	if err != nil {
		return err
	}
	began := time.Now()
	r := d.Run()
	if r.Quit {
		return nil
	}
	res := sess.Finish(r.Value, r.Err, time.Since(began))
	if res.Err != nil {
		printScriptError(cmd.ErrOrStderr(), res, useColor(cmd))
		exitCode = 1
	}
	if errors.Is(res.Err, buildpipeline.ErrBudget) {
		fmt.Fprintf(cmd.ErrOrStderr(), "hint: raise --budget (currently %d)\n", s.budget)
	}
	return nil
}
