/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacobarthurs/flake8lint/internal/comparator"
	"github.com/jacobarthurs/flake8lint/internal/editor"
	"github.com/jacobarthurs/flake8lint/internal/output"
)

var compareCmd = &cobra.Command{
	Use:   "compare <old> <new>",
	Short: "Compare the findings of two revisions of a file",
	Long: `Lint two revisions of a Python file and report which findings were added,
resolved or only moved to another line.

Findings are matched on their message and the text of the line they point at,
so shifting code up or down is not reported as a new issue.`,
	Example: `  # Compare two revisions
  flake8lint compare old.py new.py

  # Machine readable output
  flake8lint compare old.py new.py --format json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		if format != "text" && format != "json" {
			return fmt.Errorf("invalid output format %q: must be \"text\" or \"json\"", format)
		}

		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		host := editor.NewMemoryHost()
		targets, err := lintFiles(cmd.Context(), newRunner(s, host, nil), args, 2)
		if err != nil {
			reportHostErrors(host, err)
			return err
		}
		for _, t := range targets {
			if t.err != nil {
				return fmt.Errorf("%s: %w", t.path, t.err)
			}
		}

		result := comparator.Compare(targets[0].sess.Result, targets[1].sess.Result)

		switch format {
		case "json":
			return output.RenderJSON(os.Stdout, result)
		default:
			if err := output.RenderComparisonText(os.Stdout, result, output.TextOptions{Color: useColor(cmd)}); err != nil {
				return err
			}
		}

		if result.Summary.Added > 0 {
			return errors.New("new issues introduced")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	compareCmd.Flags().Bool("no-color", false, "Disable colored output")
	addFilterFlags(compareCmd)
}
