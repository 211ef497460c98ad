package site

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/agentstation/docsite/pkg/constants"
	"github.com/agentstation/docsite/pkg/errors"
	"github.com/agentstation/docsite/pkg/images"
	"github.com/agentstation/docsite/pkg/logging"
	"github.com/agentstation/docsite/pkg/siteconfig"
	"github.com/agentstation/docsite/pkg/theme"
	"github.com/agentstation/docsite/pkg/vmodule"
)

// hugoModuleTmpl is written when the site root has no go.mod, so the base
// theme can be imported as a Hugo module.
const hugoModuleTmpl = `module docsite.local/site

go 1.21
`

// Registry returns the component registry for the site: the built-in
// components plus every shortcode template under components/.
func (s *Site) Registry() (*theme.Registry, error) {
	reg := theme.DefaultRegistry()

	dir := filepath.Join(s.rootDir, componentsDirName)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return reg, nil
	}
	if err := reg.LoadDir(os.DirFS(dir)); err != nil {
		return nil, err
	}
	return reg, nil
}

// LoadConfig loads and validates the site configuration.
func (s *Site) LoadConfig() (*siteconfig.Config, error) {
	reg, err := s.Registry()
	if err != nil {
		return nil, err
	}
	return siteconfig.LoadWithRegistry(s.configPath, reg)
}

// Host returns the virtual module host for cfg: the one the site was
// created with, or a new host serving the image manifest.
func (s *Site) Host(cfg *siteconfig.Config) (*vmodule.Host, error) {
	if s.host != nil {
		return s.host, nil
	}
	return NewHost(cfg, s.logger)
}

// NewHost creates a virtual module host with the image manifest plugin
// described by cfg.
func NewHost(cfg *siteconfig.Config, logger *zerolog.Logger) (*vmodule.Host, error) {
	host := vmodule.NewHost(vmodule.WithLogger(logger))
	provider := cfg.ImageProvider(images.WithLogger(logger))
	if err := host.Register(images.NewPlugin(provider)); err != nil {
		return nil, err
	}
	return host, nil
}

// Prepare writes every Hugo input docsite generates and returns the loaded
// configuration. Hugo itself is not needed.
func (s *Site) Prepare(ctx context.Context) (*siteconfig.Config, error) {
	return s.prepare(s.operationContext(ctx, "prepare"))
}

// operationContext carries the site's logger, tagged with op, in ctx.
func (s *Site) operationContext(ctx context.Context, op string) context.Context {
	return logging.WithOperation(logging.WithLogger(ctx, s.logger), op)
}

func (s *Site) prepare(ctx context.Context) (*siteconfig.Config, error) {
	ctx = logging.WithSite(ctx, s.rootDir)
	logger := logging.FromContext(ctx)

	reg, err := s.Registry()
	if err != nil {
		return nil, err
	}
	cfg, err := siteconfig.LoadWithRegistry(s.configPath, reg)
	if err != nil {
		return nil, err
	}

	hugoYAML, err := cfg.HugoYAML(s.baseURL)
	if err != nil {
		return nil, err
	}
	if err := s.writeFile(constants.HugoConfigFile, hugoYAML); err != nil {
		return nil, err
	}
	if err := s.ensureModule(); err != nil {
		return nil, err
	}

	host, err := s.Host(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.writeModules(ctx, host); err != nil {
		return nil, err
	}

	assets, err := theme.Assets(cfg.Theme, reg)
	if err != nil {
		return nil, errors.WrapResource("render", "theme", cfg.Theme.Extends, err)
	}
	for _, asset := range assets {
		if err := s.writeFile(filepath.FromSlash(asset.Path), asset.Data); err != nil {
			return nil, err
		}
	}

	if err := s.addFrontMatter(ctx); err != nil {
		return nil, err
	}

	logger.Debug().
		Int("theme_assets", len(assets)).
		Msg("Site prepared")

	return cfg, nil
}

// writeModules loads every listed virtual module and writes its data for
// Hugo templates and its generated source for scripts.
func (s *Site) writeModules(ctx context.Context, host *vmodule.Host) error {
	for _, m := range host.Modules() {
		src, err := host.Load(logging.WithModule(ctx, m.ID), m.ID)
		if err != nil {
			return err
		}

		data, err := json.Marshal(src.Data)
		if err != nil {
			return errors.WrapResource("encode", "module", m.ID, err)
		}
		if err := s.writeFile(filepath.Join(constants.DataDir, m.Plugin+".json"), data); err != nil {
			return err
		}
		jsPath := filepath.Join(filepath.FromSlash(constants.VirtualAssetsDir), m.Plugin+".js")
		if err := s.writeFile(jsPath, []byte(src.Code)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Site) ensureModule() error {
	path := filepath.Join(s.rootDir, "go.mod")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return s.writeFile("go.mod", []byte(hugoModuleTmpl))
}

// writeFile writes data to a path relative to the site root, creating parents.
func (s *Site) writeFile(rel string, data []byte) error {
	path := filepath.Join(s.rootDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
