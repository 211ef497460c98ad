// Package config provides the config command for checking and printing
// site.yaml.
package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/docsite/cmd/application"
	"github.com/agentstation/docsite/internal/cmd/emoji"
	"github.com/agentstation/docsite/internal/cmd/output"
)

// NewCommand creates the config command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Validate and inspect the site configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewValidateCommand(app))
	cmd.AddCommand(NewShowCommand(app))

	return cmd
}

// NewValidateCommand loads site.yaml and reports every validation problem.
func NewValidateCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate site.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.Site()
			if err != nil {
				return err
			}
			if _, err := s.LoadConfig(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", emoji.Error, s.ConfigPath())
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s is valid\n", emoji.Success, s.ConfigPath())
			return nil
		},
	}
}

// NewShowCommand prints the loaded configuration with defaults applied.
func NewShowCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the site configuration with defaults applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.Site()
			if err != nil {
				return err
			}
			cfg, err := s.LoadConfig()
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			var data any = cfg
			if format.IsTable() {
				data = output.ConfigToTableData(cfg, format == output.FormatWide)
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
		},
	}
}
