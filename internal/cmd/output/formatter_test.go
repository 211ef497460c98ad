package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/docsite/pkg/siteconfig"
	"github.com/agentstation/docsite/pkg/vmodule"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "json", want: FormatJSON},
		{in: "YAML", want: FormatYAML},
		{in: "wide", want: FormatWide},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat_Explicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("yaml"))
}

func TestFormatters(t *testing.T) {
	list := []string{"/images/a.png", "/images/b.png"}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, list))
	assert.JSONEq(t, `["/images/a.png","/images/b.png"]`, buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, list))
	assert.Equal(t, "- /images/a.png\n- /images/b.png\n", buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, ImagesToTableData(list)))
	assert.Contains(t, buf.String(), "/images/b.png")
}

func TestTableFormatter_Reflection(t *testing.T) {
	modules := []vmodule.Module{{ID: "virtual:image-list", Plugin: "image-list"}}

	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(&buf, modules))
	out := strings.ToUpper(buf.String())
	assert.Contains(t, out, "PLUGIN")
	assert.Contains(t, out, "VIRTUAL:IMAGE-LIST")
}

func TestTableFormatter_FallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(&buf, map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a":1}`, buf.String())
}

func TestConfigToTableData(t *testing.T) {
	cfg, err := siteconfig.Parse([]byte("title: Docs\nnav:\n  - text: Guide\n    link: /guide/\n"))
	require.NoError(t, err)

	narrow := ConfigToTableData(cfg, false)
	wide := ConfigToTableData(cfg, true)
	assert.Greater(t, len(wide.Rows), len(narrow.Rows))
	assert.Equal(t, []string{"Title", "Docs"}, narrow.Rows[0])
	assert.Contains(t, wide.Rows, []string{"Nav Items", "Guide"})
}

func TestModulesToTableData(t *testing.T) {
	data := ModulesToTableData([]vmodule.Module{{ID: "virtual:x", Plugin: "x"}})
	assert.Equal(t, []string{"ID", "Plugin"}, data.Headers)
	assert.Equal(t, [][]string{{"virtual:x", "x"}}, data.Rows)
}
