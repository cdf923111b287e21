/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var Version = "dev"

func init() {
	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
	}
	rootCmd.Version = Version
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

var rootCmd = &cobra.Command{
	Use:          "flake8lint",
	SilenceUsage: true,
	Short:        "Lint Python files with Flake8 and map findings onto the source",
	Long: `flake8lint runs Flake8 over Python files, filters the findings through
noqa markers and select/ignore settings, and reports them as errors or warnings
anchored to the offending word or line.

It can lint files once, compare two revisions of a file, or watch a directory
and lint every Python file as it is saved.`,
	Example: `  # Lint files
  flake8lint lint app.py models.py

  # Watch a project and lint on save
  flake8lint watch ./src

  # Compare two revisions of a file
  flake8lint compare old.py new.py

  # Create the settings file
  flake8lint init`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
