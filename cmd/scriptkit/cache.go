package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scriptkit/internal/transpile"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the transpile disk cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached transpile result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadManifest(cmd, ".")
		if err != nil {
			return err
		}
		dir := ""
		if m != nil {
			dir = m.CacheDir()
		}
		c, err := transpile.OpenDiskCache(dir)
		if err != nil {
			return err
		}
		if err := c.DropAll(); err != nil {
			return fmt.Errorf("clean cache: %w", err)
		}
		if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheCleanCmd)
}
