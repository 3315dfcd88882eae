package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"scriptkit/internal/diagfmt"
	"scriptkit/internal/transpile"
)

var transpileCmd = &cobra.Command{
	Use:   "transpile [flags] <script>",
	Short: "Lower a script and print the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranspile,
}

func init() {
	transpileCmd.Flags().String("format", "code", "output format (code|json|edits)")
	transpileCmd.Flags().Bool("force-sync", false, "drop await and lower imports synchronously")
}

type transpileJSON struct {
	File     string  `json:"file"`
	Code     string  `json:"code"`
	IsModule bool    `json:"is_module"`
	IsAsync  bool    `json:"is_async"`
	Edits    int     `json:"edits"`
	TotalMS  float64 `json:"total_ms"`
}

func runTranspile(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	s, err := loadSettings(cmd, filepath.Dir(path))
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	opts := s.transpileOptions()
	opts.FileName = path
	var res *transpile.Result
	if s.cache != nil {
		res, err = s.cache.Transpile(cmd.Context(), string(raw), opts)
	} else {
		res, err = transpile.Transpile(cmd.Context(), string(raw), opts)
	}
	var se *transpile.SyntaxError
	if errors.As(err, &se) {
		diagfmt.SyntaxError(os.Stderr, se, string(raw), diagfmt.PrettyOpts{Color: useColor(cmd), Context: 1})
		exitCode = 1
		return nil
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "code":
		fmt.Fprintln(out, res.Code)
	case "edits":
		for _, e := range res.History.Edits() {
			fmt.Fprintln(out, e.String())
		}
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(transpileJSON{
			File:     path,
			Code:     res.Code,
			IsModule: res.IsModule,
			IsAsync:  res.IsAsync,
			Edits:    len(res.History.Edits()),
			TotalMS:  res.Timings.TotalMS,
		}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		fmt.Fprintln(cmd.ErrOrStderr(), res.Timings.String())
	}
	return nil
}
