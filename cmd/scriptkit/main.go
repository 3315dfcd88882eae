package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"pkt.systems/pslog"

	"scriptkit/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "scriptkit",
	Short:         "Script transpiler, runner and debugger",
	Long:          `scriptkit lowers extended scripts to plain code and runs them on an embedded engine`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		stopTrace, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, stopTrace)
		stopProf, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, stopProf)
		return nil
	},
}

// cleanups run after the command finishes, in reverse order.
var cleanups []func()

// exitCode lets commands fail without printing an error twice.
var exitCode int

func main() {
	rootCmd.Version = version.Current().Version

	rootCmd.AddCommand(transpileCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("config", "", "path to scriptkit.toml (default: search upwards)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "bypass the transpile disk cache")
	registerTraceFlags(rootCmd)
	registerProfileFlags(rootCmd)

	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx := pslog.ContextWithLogger(context.Background(), logger)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		exitCode = 1
	}
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	if err != nil {
		pslog.Ctx(ctx).With("err", err).Error("scriptkit command failed")
	}
	os.Exit(exitCode)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command) bool {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	return mode == "on" || (mode == "auto" && isTerminal(os.Stdout))
}
