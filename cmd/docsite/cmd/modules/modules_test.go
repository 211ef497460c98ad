package modules

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/docsite/cmd/application"
	"github.com/agentstation/docsite/internal/tools/site"
	"github.com/agentstation/docsite/pkg/errors"
	"github.com/agentstation/docsite/pkg/images"
	"github.com/agentstation/docsite/pkg/logging"
)

func newMock(t *testing.T, format string) *application.Mock {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "site.yaml"), []byte("title: Docs\n"), 0o644))
	dir := filepath.Join(root, "public", "images")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.svg"), nil, 0o644))

	return &application.Mock{
		SiteFunc: func(...application.SiteOption) (*site.Site, error) {
			return site.New(&site.Config{RootDir: root, Logger: logging.NewNopLogger()})
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

func TestModulesLs(t *testing.T) {
	out, err := run(t, newMock(t, "json"), "ls")
	require.NoError(t, err)

	var got []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, images.ModuleID, got[0]["id"])
	assert.Equal(t, images.PluginName, got[0]["plugin"])
}

func TestModulesLs_Table(t *testing.T) {
	out, err := run(t, newMock(t, "table"), "ls")
	require.NoError(t, err)
	assert.Contains(t, out, images.ModuleID)
}

func TestModulesLoad(t *testing.T) {
	out, err := run(t, newMock(t, "table"), "load", images.ModuleID)
	require.NoError(t, err)
	assert.Equal(t, `export default ["/images/a.svg","/images/b.png"];`+"\n", out)
}

func TestModulesLoad_JSON(t *testing.T) {
	out, err := run(t, newMock(t, "json"), "load", images.ModuleID)
	require.NoError(t, err)

	var got struct {
		ID   string   `json:"id"`
		Code string   `json:"code"`
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, images.ModuleID, got.ID)
	assert.Equal(t, []string{"/images/a.svg", "/images/b.png"}, got.Data)
}

func TestModulesLoad_Unresolved(t *testing.T) {
	_, err := run(t, newMock(t, "table"), "load", "virtual:nope")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestModulesLoad_RequiresID(t *testing.T) {
	_, err := run(t, newMock(t, "table"), "load")
	require.Error(t, err)
}
