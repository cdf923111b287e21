/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacobarthurs/flake8lint/internal/settings"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the settings file with default values",
	Long: `Create ~/.config/flake8lint/settings.yaml holding every setting with its
default value. If a settings file already exists, it will not be overwritten.`,
	Example: `  # Create default settings
  flake8lint init

  # Overwrite existing settings
  flake8lint init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		path, err := settings.Init(force)
		if err != nil {
			return err
		}

		fmt.Printf("Created settings at %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("force", "f", false, "Overwrite existing settings file")
}
