package images

import (
	"context"

	"github.com/agentstation/docsite/pkg/vmodule"
)

// ModuleID is the import id the image manifest is published under.
const ModuleID = "virtual:image-list"

// PluginName is the name the plugin registers with a vmodule.Host.
const PluginName = "image-list"

// Plugin exposes a Provider as the virtual module ModuleID.
type Plugin struct {
	provider *Provider
}

// NewPlugin wraps provider in a virtual module plugin.
func NewPlugin(provider *Provider) *Plugin {
	return &Plugin{provider: provider}
}

// Name implements vmodule.Plugin.
func (p *Plugin) Name() string {
	return PluginName
}

// Resolve implements vmodule.Plugin.
func (p *Plugin) Resolve(id string) (vmodule.ResolvedID, bool) {
	if id != ModuleID {
		return "", false
	}
	return vmodule.Virtual(ModuleID), true
}

// Load implements vmodule.Plugin. The directory is read on every call.
func (p *Plugin) Load(ctx context.Context, id vmodule.ResolvedID) (vmodule.Source, bool, error) {
	if id != vmodule.Virtual(ModuleID) {
		return vmodule.Source{}, false, nil
	}

	src, err := vmodule.ESModule(p.provider.Manifest(ctx))
	if err != nil {
		return vmodule.Source{}, false, err
	}
	return src, true, nil
}

// IDs implements vmodule.Lister.
func (p *Plugin) IDs() []string {
	return []string{ModuleID}
}
