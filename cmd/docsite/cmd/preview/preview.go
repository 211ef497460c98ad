// Package preview provides the preview command, which runs Hugo's own
// development server on the prepared site.
package preview

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/docsite/cmd/application"
	"github.com/agentstation/docsite/pkg/constants"
	"github.com/agentstation/docsite/pkg/logging"
)

// NewCommand creates the preview command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview the site with the Hugo development server",
		Long: `Preview prepares the site and runs hugo server with drafts enabled.
Hugo reloads pages on content changes. Use docsite serve instead when the
image manifest or site.yaml are being edited, since Hugo does not watch
them.`,
		Example: `  docsite preview
  docsite preview --port 8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.Site()
			if err != nil {
				return err
			}
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			return s.Serve(ctx, host, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", constants.DefaultHugoPort, "Hugo server port")
	cmd.Flags().StringVar(&host, "host", "", "bind address (default: Hugo's)")

	return cmd
}
