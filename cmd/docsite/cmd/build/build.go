// Package build provides the build and prepare commands.
package build

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/docsite/cmd/application"
	"github.com/agentstation/docsite/internal/cmd/emoji"
	"github.com/agentstation/docsite/pkg/constants"
	"github.com/agentstation/docsite/pkg/logging"
)

// NewCommand creates the build command.
func NewCommand(app application.Application) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the static site with Hugo",
		Long: `Build writes hugo.yaml, the virtual module data files and the theme
partials, then runs hugo to render the site into dist/.

Requires the hugo binary (extended edition) on PATH.`,
		Example: `  docsite build
  docsite build --base-url https://docs.example.com/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []application.SiteOption
			if baseURL != "" {
				opts = append(opts, application.WithBaseURL(baseURL))
			}
			s, err := app.Site(opts...)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.BuildTimeout)
			defer cancel()
			ctx = logging.WithLogger(ctx, app.Logger())

			result, err := s.Generate(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Built %s in %s\n", emoji.Success, result.OutputDir, result.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "override the base URL the site is built for")

	return cmd
}

// NewPrepareCommand creates the prepare command.
func NewPrepareCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "prepare",
		Short: "Write Hugo inputs without running Hugo",
		Long: `Prepare writes hugo.yaml, the virtual module data files and the theme
partials and shortcodes into the site root. Hugo is not needed, which makes
this useful in CI before handing the site to another Hugo pipeline.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.Site()
			if err != nil {
				return err
			}

			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			cfg, err := s.Prepare(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Prepared %q in %s (%s)\n",
				emoji.Success, cfg.Title, s.RootDir(), constants.HugoConfigFile)
			return nil
		},
	}
}
