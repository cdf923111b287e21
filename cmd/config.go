/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jacobarthurs/flake8lint/internal/settings"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change settings",
	Long:  `Inspect and change the settings that control checker invocation, filtering and presentation.`,
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Print the effective settings",
	Example: `  flake8lint config show`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load()
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(s)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a single setting",
	Example: `  flake8lint config set python_interpreter /usr/bin/python3
  flake8lint config set ignore E501,W503
  flake8lint config set highlight_style outline`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := settings.Set(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Setting %q updated.\n", args[0])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:     "path",
	Short:   "Print the settings file location",
	Example: `  flake8lint config path`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settings.Path()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}
