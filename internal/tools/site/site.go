// Package site drives Hugo to build and preview a docsite documentation site.
//
// Prepare writes every Hugo input docsite owns (hugo.yaml, virtual module
// data files, theme shortcodes and partials) without running Hugo. Generate
// and Serve prepare the site and then hand it to the hugo binary.
package site

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/docsite/pkg/constants"
	"github.com/agentstation/docsite/pkg/errors"
	"github.com/agentstation/docsite/pkg/logging"
	"github.com/agentstation/docsite/pkg/vmodule"
)

const (
	// Hugo command and arguments
	hugoCmd             = "hugo"
	hugoVersionArg      = "version"
	hugoServerArg       = "server"
	hugoSourceFlag      = "--source"
	hugoPortFlag        = "--port"
	hugoBindFlag        = "--bind"
	hugoBuildDraftsFlag = "--buildDrafts"
	hugoNavigateFlag    = "--navigateToChanged"
	hugoFastRenderFlag  = "--disableFastRender"
	hugoGCFlag          = "--gc"
	hugoMinifyFlag      = "--minify"
	hugoBaseURLFlag     = "--baseURL"

	// Hugo dependency info
	hugoDependencyName = "hugo"
	hugoInstallHelpMsg = "Hugo not found. Install the extended edition from https://gohugo.io/installation/ or use devbox shell"

	// Directories scanned while preparing
	contentDirName    = "content"
	componentsDirName = "components"
)

// Site is a Hugo documentation site rooted at a directory holding site.yaml.
type Site struct {
	rootDir    string
	configPath string
	baseURL    string
	host       *vmodule.Host
	runner     Runner
	stdout     io.Writer
	stderr     io.Writer
	logger     *zerolog.Logger
}

// Config holds site options.
type Config struct {
	RootDir    string        // Root directory for the site (default: ./site)
	ConfigFile string        // Site configuration file, relative to RootDir (default: site.yaml)
	BaseURL    string        // Overrides the configured base path when set
	Host       *vmodule.Host // Virtual module host; the image plugin is registered when nil
	Runner     Runner        // Runs hugo (default: ExecRunner)
	Stdout     io.Writer     // Hugo server output (default: os.Stdout)
	Stderr     io.Writer     // Hugo server errors (default: os.Stderr)
	Logger     *zerolog.Logger
}

// BuildResult describes a finished Hugo build.
type BuildResult struct {
	OutputDir string
	Duration  time.Duration
	Output    string
}

// New creates a new Site instance
func New(config *Config) (*Site, error) {
	if config == nil {
		config = &Config{}
	}

	// Set defaults
	if config.RootDir == "" {
		config.RootDir = constants.DefaultSiteRoot
	}
	if config.ConfigFile == "" {
		config.ConfigFile = constants.SiteConfigFile
	}
	if config.Runner == nil {
		config.Runner = ExecRunner{}
	}
	if config.Stdout == nil {
		config.Stdout = os.Stdout
	}
	if config.Stderr == nil {
		config.Stderr = os.Stderr
	}
	if config.Logger == nil {
		config.Logger = logging.Default()
	}

	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, errors.WrapIO("resolve", config.RootDir, err)
	}

	configPath := config.ConfigFile
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(root, configPath)
	}

	return &Site{
		rootDir:    root,
		configPath: configPath,
		baseURL:    config.BaseURL,
		host:       config.Host,
		runner:     config.Runner,
		stdout:     config.Stdout,
		stderr:     config.Stderr,
		logger:     config.Logger,
	}, nil
}

// RootDir returns the absolute site root.
func (s *Site) RootDir() string {
	return s.rootDir
}

// ConfigPath returns the absolute path of the site configuration file.
func (s *Site) ConfigPath() string {
	return s.configPath
}

// OutputDir returns where Hugo writes the built site.
func (s *Site) OutputDir() string {
	return filepath.Join(s.rootDir, constants.PublishDir)
}

// Generate prepares the site and builds it with Hugo.
func (s *Site) Generate(ctx context.Context) (*BuildResult, error) {
	ctx = s.operationContext(ctx, "build")
	logger := logging.FromContext(ctx)

	logger.Info().
		Str("root_dir", s.rootDir).
		Msg("Generating static site")

	if _, err := s.prepare(ctx); err != nil {
		return nil, err
	}

	// Ensure Hugo is available
	if err := s.checkHugo(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	output, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{
		OutputDir: s.OutputDir(),
		Duration:  time.Since(start),
		Output:    output,
	}

	logger.Info().
		Str("output_dir", result.OutputDir).
		Dur("duration", result.Duration).
		Msg("Site generated successfully")

	return result, nil
}

// Serve prepares the site and runs the Hugo development server until ctx is done.
func (s *Site) Serve(ctx context.Context, host string, port int) error {
	ctx = s.operationContext(ctx, "serve")

	if _, err := s.prepare(ctx); err != nil {
		return err
	}
	if err := s.checkHugo(ctx); err != nil {
		return err
	}

	logging.FromContext(ctx).Info().
		Str("host", host).
		Int("port", port).
		Msg("Starting Hugo development server")

	args := []string{hugoServerArg,
		hugoSourceFlag, s.rootDir,
		hugoPortFlag, strconv.Itoa(port),
		hugoBuildDraftsFlag,
		hugoNavigateFlag,
		hugoFastRenderFlag,
	}
	if host != "" {
		args = append(args, hugoBindFlag, host)
	}
	if s.baseURL != "" {
		args = append(args, hugoBaseURLFlag, s.baseURL)
	}

	err := s.runner.Run(ctx, s.stdout, s.stderr, hugoCmd, args...)
	if err != nil && ctx.Err() == nil {
		return errors.NewProcessError("serve", commandLine(hugoCmd, args), "", err)
	}
	return nil
}

// checkHugo verifies Hugo is installed and available
func (s *Site) checkHugo(ctx context.Context) error {
	if _, err := s.runner.LookPath(hugoCmd); err != nil {
		logging.FromContext(ctx).Warn().Msg("Hugo not found on system")
		return &errors.DependencyError{
			Dependency: hugoDependencyName,
			Message:    hugoInstallHelpMsg,
		}
	}

	output, err := s.runner.Output(ctx, hugoCmd, hugoVersionArg)
	if err != nil {
		return &errors.DependencyError{
			Dependency: hugoDependencyName,
			Message:    fmt.Sprintf("hugo version failed: %v", err),
		}
	}

	logging.FromContext(ctx).Debug().
		Str("version", strings.TrimSpace(string(output))).
		Msg("Hugo version")

	return nil
}

// build runs Hugo to build the static site
func (s *Site) build(ctx context.Context) (string, error) {
	args := []string{
		hugoSourceFlag, s.rootDir,
		hugoGCFlag,
		hugoMinifyFlag,
	}
	if s.baseURL != "" {
		args = append(args, hugoBaseURLFlag, s.baseURL)
	}

	logger := logging.FromContext(ctx)

	output, err := s.runner.Output(ctx, hugoCmd, args...)
	if err != nil {
		err = contextError(ctx, err)
		logger.Error().
			Err(err).
			Str("output", string(output)).
			Msg("Hugo build failed")
		return "", errors.NewProcessError("build", commandLine(hugoCmd, args), string(output), err)
	}

	logger.Debug().
		Str("output", string(output)).
		Msg("Hugo build output")

	return string(output), nil
}

// contextError marks err as a timeout or cancellation when ctx ended it.
func contextError(ctx context.Context, err error) error {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return fmt.Errorf("%w: %w", errors.ErrTimeout, err)
	case context.Canceled:
		return fmt.Errorf("%w: %w", errors.ErrCanceled, err)
	default:
		return err
	}
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
