package output

import (
	"strconv"
	"strings"

	"github.com/agentstation/docsite/pkg/siteconfig"
	"github.com/agentstation/docsite/pkg/vmodule"
)

// ImagesToTableData converts an image manifest to a numbered table.
func ImagesToTableData(urls []string) Data {
	rows := make([][]string, 0, len(urls))
	for i, u := range urls {
		rows = append(rows, []string{strconv.Itoa(i + 1), u})
	}
	return Data{
		Headers:         []string{"#", "Image"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft},
	}
}

// ModulesToTableData converts a module listing to table format.
func ModulesToTableData(modules []vmodule.Module) Data {
	rows := make([][]string, 0, len(modules))
	for _, m := range modules {
		rows = append(rows, []string{m.ID, m.Plugin})
	}
	return Data{
		Headers: []string{"ID", "Plugin"},
		Rows:    rows,
	}
}

// ConfigToTableData summarizes a site configuration. Wide output adds the
// navigation entries and theme details.
func ConfigToTableData(cfg *siteconfig.Config, wide bool) Data {
	rows := [][]string{
		{"Title", cfg.Title},
		{"Base", cfg.Base},
		{"Lang", cfg.Lang},
		{"Nav", strconv.Itoa(len(cfg.Nav))},
		{"Sidebar", strconv.Itoa(len(cfg.Sidebar))},
		{"Social Links", strconv.Itoa(len(cfg.SocialLinks))},
		{"Images Dir", cfg.ImagesDir()},
		{"Image Locale", cfg.Images.Locale},
		{"Theme", cfg.Theme.Extends},
	}
	if wide {
		rows = append(rows,
			[]string{"Description", cfg.Description},
			[]string{"Nav Items", navTexts(cfg.Nav)},
			[]string{"Sidebar Items", navTexts(cfg.Sidebar)},
			[]string{"Stylesheets", strings.Join(cfg.Theme.Stylesheets, ", ")},
			[]string{"Components", strings.Join(cfg.Theme.Components, ", ")},
			[]string{"Carousel Modules", strings.Join(cfg.Theme.Carousel.Modules, ", ")},
			[]string{"Lazy Images", strconv.FormatBool(cfg.Theme.LazyLoading())},
		)
	}
	return Data{
		Headers: []string{"Property", "Value"},
		Rows:    rows,
	}
}

func navTexts(items []siteconfig.NavItem) string {
	texts := make([]string, 0, len(items))
	for _, item := range items {
		texts = append(texts, item.Text)
	}
	return strings.Join(texts, ", ")
}
