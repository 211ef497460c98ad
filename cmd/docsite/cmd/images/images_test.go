package images

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/docsite/cmd/application"
	"github.com/agentstation/docsite/internal/tools/site"
	"github.com/agentstation/docsite/pkg/logging"
)

func newMock(t *testing.T, format string, files map[string]string) *application.Mock {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return &application.Mock{
		SiteFunc: func(opts ...application.SiteOption) (*site.Site, error) {
			cfg := &site.Config{RootDir: root, Logger: logging.NewNopLogger()}
			for _, opt := range opts {
				opt(cfg)
			}
			return site.New(cfg)
		},
		OutputFormatFunc: func() string { return format },
	}
}

func run(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()

	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestImagesCommand(t *testing.T) {
	files := map[string]string{
		"site.yaml":                  "title: Docs\nbase: /guide/\n",
		"public/images/zebra.png":    "",
		"public/images/Apple.jpg":    "",
		"public/images/readme.md":    "",
		"public/images/nested/x.png": "",
	}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "manifest",
			want: []string{"/images/Apple.jpg", "/images/zebra.png"},
		},
		{
			name: "with base",
			args: []string{"--base"},
			want: []string{"/guide/images/Apple.jpg", "/guide/images/zebra.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, newMock(t, "json", files), tt.args...)
			require.NoError(t, err)

			var got []string
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImagesCommand_MissingDirectory(t *testing.T) {
	out, err := run(t, newMock(t, "json", map[string]string{"site.yaml": "title: Docs\n"}))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestImagesCommand_Table(t *testing.T) {
	out, err := run(t, newMock(t, "table", map[string]string{
		"site.yaml":           "title: Docs\n",
		"public/images/a.png": "",
	}))
	require.NoError(t, err)
	assert.Contains(t, strings.ToUpper(out), "IMAGE")
	assert.Contains(t, out, "/images/a.png")
}

func TestImagesCommand_InvalidConfig(t *testing.T) {
	_, err := run(t, newMock(t, "json", map[string]string{"site.yaml": "base: nope\n"}))
	require.Error(t, err)
}
