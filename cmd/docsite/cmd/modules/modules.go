// Package modules provides the modules command and its subcommands.
package modules

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/docsite/cmd/application"
	"github.com/agentstation/docsite/internal/cmd/output"
	"github.com/agentstation/docsite/pkg/logging"
	"github.com/agentstation/docsite/pkg/vmodule"
)

// NewCommand creates the modules command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "modules",
		Aliases: []string{"module", "mod"},
		Short:   "Inspect virtual modules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewLsCommand(app))
	cmd.AddCommand(NewLoadCommand(app))

	return cmd
}

// NewLsCommand lists the virtual modules the site's plugins serve.
func NewLsCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List virtual modules",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			host, err := siteHost(app)
			if err != nil {
				return err
			}

			modules := host.Modules()
			if modules == nil {
				modules = []vmodule.Module{}
			}

			format := output.DetectFormat(app.OutputFormat())
			var data any = modules
			if format.IsTable() {
				data = output.ModulesToTableData(modules)
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
		},
	}
}

// NewLoadCommand prints the generated source of one virtual module.
func NewLoadCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "load <id>",
		Short:   "Print the generated source of a virtual module",
		Example: `  docsite modules load virtual:image-list`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := siteHost(app)
			if err != nil {
				return err
			}

			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			src, err := host.Load(logging.WithModule(ctx, args[0]), args[0])
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			if format.IsTable() {
				code := src.Code
				if !strings.HasSuffix(code, "\n") {
					code += "\n"
				}
				_, err = io.WriteString(cmd.OutOrStdout(), code)
				return err
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), map[string]any{
				"id":   args[0],
				"code": src.Code,
				"data": src.Data,
			})
		},
	}
}

func siteHost(app application.Application) (*vmodule.Host, error) {
	s, err := app.Site()
	if err != nil {
		return nil, err
	}
	cfg, err := s.LoadConfig()
	if err != nil {
		return nil, err
	}
	return s.Host(cfg)
}
