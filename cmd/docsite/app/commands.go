package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/docsite/cmd/docsite/cmd/build"
	configcmd "github.com/agentstation/docsite/cmd/docsite/cmd/config"
	"github.com/agentstation/docsite/cmd/docsite/cmd/images"
	"github.com/agentstation/docsite/cmd/docsite/cmd/modules"
	"github.com/agentstation/docsite/cmd/docsite/cmd/preview"
	"github.com/agentstation/docsite/cmd/docsite/cmd/serve"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(withGroup(build.NewCommand(a), "core"))
	rootCmd.AddCommand(withGroup(serve.NewCommand(a), "core"))
	rootCmd.AddCommand(withGroup(preview.NewCommand(a), "core"))
	rootCmd.AddCommand(withGroup(images.NewCommand(a), "core"))

	// Management commands
	rootCmd.AddCommand(withGroup(build.NewPrepareCommand(a), "management"))
	rootCmd.AddCommand(withGroup(modules.NewCommand(a), "management"))
	rootCmd.AddCommand(withGroup(configcmd.NewCommand(a), "management"))

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("docsite %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
				cmd.Printf("  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}

func withGroup(cmd *cobra.Command, group string) *cobra.Command {
	cmd.GroupID = group
	return cmd
}
