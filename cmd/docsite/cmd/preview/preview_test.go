package preview

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/docsite/cmd/application"
	"github.com/agentstation/docsite/internal/tools/site"
	"github.com/agentstation/docsite/pkg/logging"
)

// recordingRunner captures the hugo server invocation.
type recordingRunner struct {
	args []string
}

func (r *recordingRunner) LookPath(file string) (string, error) { return "/usr/bin/" + file, nil }

func (r *recordingRunner) Output(context.Context, string, ...string) ([]byte, error) {
	return []byte("hugo v0.128.0+extended"), nil
}

func (r *recordingRunner) Run(_ context.Context, _, _ io.Writer, _ string, args ...string) error {
	r.args = args
	return nil
}

func TestPreviewCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "site.yaml"), []byte("title: Docs\n"), 0o644))

	runner := &recordingRunner{}
	app := &application.Mock{
		SiteFunc: func(...application.SiteOption) (*site.Site, error) {
			return site.New(&site.Config{RootDir: root, Runner: runner, Logger: logging.NewNopLogger()})
		},
	}

	cmd := NewCommand(app)
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"--port", "4000", "--host", "0.0.0.0"})
	require.NoError(t, cmd.Execute())

	require.NotEmpty(t, runner.args)
	assert.Equal(t, "server", runner.args[0])
	port := slices.Index(runner.args, "--port")
	require.GreaterOrEqual(t, port, 0)
	assert.Equal(t, "4000", runner.args[port+1])
	bind := slices.Index(runner.args, "--bind")
	require.GreaterOrEqual(t, bind, 0)
	assert.Equal(t, "0.0.0.0", runner.args[bind+1])
}
