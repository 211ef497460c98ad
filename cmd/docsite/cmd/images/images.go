// Package images provides the images command.
package images

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/docsite/cmd/application"
	"github.com/agentstation/docsite/internal/cmd/output"
	pkgimages "github.com/agentstation/docsite/pkg/images"
)

// NewCommand creates the images command.
func NewCommand(app application.Application) *cobra.Command {
	var withBase bool

	cmd := &cobra.Command{
		Use:   "images",
		Short: "Print the image manifest",
		Long: `Print the image manifest exposed to pages as virtual:image-list:
the root-relative URL of every image file directly inside the images
directory, in locale-aware order.

A missing or unreadable images directory yields an empty manifest.`,
		Example: `  docsite images
  docsite images --base -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.Site()
			if err != nil {
				return err
			}
			cfg, err := s.LoadConfig()
			if err != nil {
				return err
			}

			list := cfg.ImageProvider(pkgimages.WithLogger(app.Logger())).Manifest(cmd.Context())
			if withBase {
				list = cfg.WithBaseAll(list)
			}

			format := output.DetectFormat(app.OutputFormat())
			var data any = list
			if format.IsTable() {
				data = output.ImagesToTableData(list)
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().BoolVar(&withBase, "base", false, "prefix URLs with the site base path")

	return cmd
}
