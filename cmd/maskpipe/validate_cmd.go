package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"maskpipe/internal/config"
)

// validateCmd checks the effective configuration and exits.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the run configuration and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if reportIssues(config.Validate(cfg)) {
			return fmt.Errorf("configuration is invalid")
		}
		fmt.Println("configuration is valid")
		return nil
	},
}
