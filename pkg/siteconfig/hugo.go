package siteconfig

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/docsite/pkg/constants"
)

// Menu names in the generated Hugo configuration.
const (
	MenuMain    = "main"
	MenuSidebar = "sidebar"
)

// HugoConfig is the subset of Hugo's configuration docsite generates.
type HugoConfig struct {
	BaseURL      string                `yaml:"baseURL"`
	Title        string                `yaml:"title"`
	LanguageCode string                `yaml:"languageCode"`
	PublishDir   string                `yaml:"publishDir"`
	StaticDir    []string              `yaml:"staticDir"`
	Module       HugoModule            `yaml:"module"`
	Markup       map[string]any        `yaml:"markup,omitempty"`
	Menu         map[string][]MenuItem `yaml:"menu,omitempty"`
	Params       map[string]any        `yaml:"params,omitempty"`
}

// HugoModule declares the base theme as a Hugo module import.
type HugoModule struct {
	Imports []HugoImport `yaml:"imports"`
}

// HugoImport is a single Hugo module import.
type HugoImport struct {
	Path string `yaml:"path"`
}

// MenuItem is a Hugo menu entry. Nesting is expressed through Parent.
type MenuItem struct {
	Identifier string         `yaml:"identifier"`
	Name       string         `yaml:"name"`
	URL        string         `yaml:"url,omitempty"`
	Parent     string         `yaml:"parent,omitempty"`
	Weight     int            `yaml:"weight"`
	Params     map[string]any `yaml:"params,omitempty"`
}

// Hugo maps the configuration onto Hugo's configuration. baseURL overrides
// the base path when non-empty.
func (c *Config) Hugo(baseURL string) *HugoConfig {
	if baseURL == "" {
		baseURL = c.Base
	}

	hc := &HugoConfig{
		BaseURL:      baseURL,
		Title:        c.Title,
		LanguageCode: c.Lang,
		PublishDir:   constants.PublishDir,
		StaticDir:    []string{constants.PublicDir},
		Module: HugoModule{
			Imports: []HugoImport{{Path: c.Theme.ModulePath()}},
		},
		Markup: map[string]any{
			// raw HTML in Markdown is needed for carousel markup
			"goldmark": map[string]any{
				"renderer": map[string]any{"unsafe": true},
			},
		},
		Menu:   map[string][]MenuItem{},
		Params: c.Theme.Params(),
	}

	if len(c.Nav) > 0 {
		hc.Menu[MenuMain] = menuItems(c.Nav, "", MenuMain, map[string]bool{})
	}
	if len(c.Sidebar) > 0 {
		hc.Menu[MenuSidebar] = menuItems(c.Sidebar, "", MenuSidebar, map[string]bool{})
	}
	if len(hc.Menu) == 0 {
		hc.Menu = nil
	}

	if c.Description != "" {
		hc.Params["description"] = c.Description
	}
	if len(c.SocialLinks) > 0 {
		social := make([]map[string]string, len(c.SocialLinks))
		for i, s := range c.SocialLinks {
			social[i] = map[string]string{"icon": s.Icon, "link": s.Link}
		}
		hc.Params["social"] = social
	}
	hc.Params["images"] = map[string]any{
		"urlPrefix": c.Images.URLPrefix,
	}

	return hc
}

// HugoYAML renders Hugo(baseURL) as YAML.
func (c *Config) HugoYAML(baseURL string) ([]byte, error) {
	data, err := yaml.Marshal(c.Hugo(baseURL))
	if err != nil {
		return nil, fmt.Errorf("marshaling hugo config: %w", err)
	}
	header := []byte("# Code generated by docsite from " + constants.SiteConfigFile + ". DO NOT EDIT.\n")
	return append(header, data...), nil
}

// menuItems flattens a tree of entries into Hugo menu entries. Identifiers
// are derived from the path of entry texts; seen holds the identifiers used
// so far in the menu, and a clash gets the entry's position appended.
func menuItems(items []NavItem, parent, menu string, seen map[string]bool) []MenuItem {
	var out []MenuItem
	for i, item := range items {
		base := Identifier(item.Text)
		if parent != "" {
			base = parent + "-" + base
		} else {
			base = menu + "-" + base
		}

		id := base
		for n := i + 1; seen[id]; n++ {
			id = fmt.Sprintf("%s-%d", base, n)
		}
		seen[id] = true

		entry := MenuItem{
			Identifier: id,
			Name:       item.Text,
			URL:        item.Link,
			Parent:     parent,
			Weight:     (i + 1) * 10,
		}
		if item.Collapsed {
			entry.Params = map[string]any{"collapsed": true}
		}
		out = append(out, entry)
		out = append(out, menuItems(item.Items, id, menu, seen)...)
	}
	return out
}

// Identifier turns menu text into a lower-case, dash-separated identifier.
// Letters outside ASCII are kept.
func Identifier(text string) string {
	lower := cases.Lower(language.Und).String(text)

	var b strings.Builder
	dash := false
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	id := strings.TrimSuffix(b.String(), "-")
	if id == "" {
		return "item"
	}
	return id
}
