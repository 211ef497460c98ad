package theme

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"slices"
	"strings"
	"text/template"
)

// Carousel library locations.
const (
	carouselVersion = "11"
	carouselCDN     = "https://cdn.jsdelivr.net/npm/swiper@" + carouselVersion
)

// Output locations inside a Hugo site root.
const (
	shortcodeDir    = "layouts/shortcodes"
	injectDir       = "layouts/partials/docs/inject"
	renderImagePath = "layouts/_default/_markup/render-image.html"
)

// cssModules are the carousel modules that ship their own stylesheet.
var cssModules = []string{ModuleNavigation, ModulePagination, ModuleScrollbar}

// Asset is a file to write into the site tree.
type Asset struct {
	// Path is slash-separated and relative to the site root.
	Path string
	Data []byte
}

var injectTemplates = template.Must(
	template.New("inject").Delims("[[", "]]").ParseFS(templatesFS, "templates/inject/*.tmpl"),
)

type headData struct {
	Links    []string
	Partials []string
}

type bodyData struct {
	Carousel        bool
	CarouselScript  string
	CarouselOptions string
	Partials        []string
}

type slotData struct {
	Partials []string
}

// Assets renders every file the theme contributes to a site: one shortcode
// per enabled component, the image render hook, and the inject partials.
// Paths are returned in a stable order.
func Assets(cfg Config, reg *Registry) ([]Asset, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}

	var assets []Asset

	for _, name := range cfg.Components {
		c, ok := reg.Get(name)
		if !ok {
			return nil, fmt.Errorf("component %q is not registered", name)
		}
		assets = append(assets, Asset{
			Path: path.Join(shortcodeDir, c.Shortcode+".html"),
			Data: c.Template,
		})
	}

	hook, err := templatesFS.ReadFile("templates/markup/render-image.html")
	if err != nil {
		return nil, err
	}
	assets = append(assets, Asset{Path: renderImagePath, Data: hook})

	head, err := render("head.html.tmpl", headData{
		Links:    stylesheetLinks(cfg),
		Partials: cfg.Slots["head"],
	})
	if err != nil {
		return nil, err
	}
	assets = append(assets, Asset{Path: path.Join(injectDir, "head.html"), Data: head})

	options, err := carouselOptions(cfg.Carousel.Modules)
	if err != nil {
		return nil, err
	}
	body, err := render("body.html.tmpl", bodyData{
		Carousel:        cfg.HasComponent(ComponentSwiper),
		CarouselScript:  carouselCDN + "/swiper-bundle.min.js",
		CarouselOptions: options,
		Partials:        cfg.Slots["body"],
	})
	if err != nil {
		return nil, err
	}
	assets = append(assets, Asset{Path: path.Join(injectDir, "body.html"), Data: body})

	for _, slot := range Slots {
		partials, ok := cfg.Slots[slot]
		if !ok || slot == "head" || slot == "body" {
			continue
		}
		data, err := render("slot.html.tmpl", slotData{Partials: partials})
		if err != nil {
			return nil, err
		}
		assets = append(assets, Asset{Path: path.Join(injectDir, slot+".html"), Data: data})
	}

	return assets, nil
}

func render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := injectTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	out := bytes.TrimLeft(buf.Bytes(), "\n")
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return out, nil
}

// stylesheetLinks returns the href of every stylesheet the head partial links.
// Local stylesheets go through relURL so they honor the site's base path.
func stylesheetLinks(cfg Config) []string {
	var links []string
	if cfg.HasComponent(ComponentSwiper) {
		links = append(links, carouselCDN+"/swiper.min.css")
		for _, module := range cfg.Carousel.Modules {
			if slices.Contains(cssModules, module) {
				links = append(links, fmt.Sprintf("%s/modules/%s.min.css", carouselCDN, module))
			}
		}
	}
	for _, sheet := range cfg.Stylesheets {
		if isExternal(sheet) {
			links = append(links, sheet)
			continue
		}
		links = append(links, fmt.Sprintf(`{{ %q | relURL }}`, strings.TrimPrefix(sheet, "/")))
	}
	return links
}

func isExternal(link string) bool {
	return strings.HasPrefix(link, "http://") ||
		strings.HasPrefix(link, "https://") ||
		strings.HasPrefix(link, "//")
}

// carouselOptions builds the carousel constructor options for modules.
func carouselOptions(modules []string) (string, error) {
	opts := map[string]any{"loop": true}
	for _, module := range modules {
		switch module {
		case ModuleNavigation:
			opts["navigation"] = map[string]any{
				"nextEl": ".swiper-button-next",
				"prevEl": ".swiper-button-prev",
			}
		case ModulePagination:
			opts["pagination"] = map[string]any{
				"el":        ".swiper-pagination",
				"clickable": true,
			}
		case ModuleAutoplay:
			opts["autoplay"] = map[string]any{
				"delay":                3000,
				"disableOnInteraction": false,
			}
		case ModuleScrollbar:
			opts["scrollbar"] = map[string]any{"el": ".swiper-scrollbar"}
		case ModuleKeyboard:
			opts["keyboard"] = map[string]any{"enabled": true}
		case ModuleMousewheel:
			opts["mousewheel"] = true
		}
	}
	data, err := json.Marshal(opts)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
