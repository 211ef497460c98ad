package serve

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/docsite/cmd/application"
	"github.com/agentstation/docsite/internal/server"
	"github.com/agentstation/docsite/internal/tools/site"
	"github.com/agentstation/docsite/pkg/errors"
	"github.com/agentstation/docsite/pkg/logging"
)

func TestServerConfig(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg server.Config)
	}{
		{
			name: "defaults kept",
			check: func(t *testing.T, cfg server.Config) {
				want := server.DefaultConfig()
				assert.Equal(t, want.Port, cfg.Port)
				assert.Equal(t, want.Host, cfg.Host)
				assert.False(t, cfg.CORSEnabled)
				assert.False(t, cfg.Rebuild)
			},
		},
		{
			name: "flags override",
			args: []string{"--port", "3000", "--host", "0.0.0.0", "--rebuild", "--rate-limit", "60", "--metrics=false"},
			check: func(t *testing.T, cfg server.Config) {
				assert.Equal(t, 3000, cfg.Port)
				assert.Equal(t, "0.0.0.0", cfg.Host)
				assert.True(t, cfg.Rebuild)
				assert.Equal(t, 60, cfg.RateLimit)
				assert.False(t, cfg.MetricsEnabled)
			},
		},
		{
			name: "cors origins enable cors",
			args: []string{"--cors-origins", "http://localhost:1313,https://example.com"},
			check: func(t *testing.T, cfg server.Config) {
				assert.True(t, cfg.CORSEnabled)
				assert.Equal(t, []string{"http://localhost:1313", "https://example.com"}, cfg.CORSOrigins)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewCommand(&application.Mock{})
			require.NoError(t, cmd.ParseFlags(tt.args))

			cfg, err := serverConfig(cmd, server.DefaultConfig())
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestServerConfig_AuthRequiresKey(t *testing.T) {
	cmd := NewCommand(&application.Mock{})
	require.NoError(t, cmd.ParseFlags([]string{"--auth"}))

	_, err := serverConfig(cmd, server.DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	withKey := server.DefaultConfig()
	withKey.APIKey = "secret"
	cfg, err := serverConfig(cmd, withKey)
	require.NoError(t, err)
	assert.True(t, cfg.AuthEnabled)
}

// syncBuffer is a bytes.Buffer safe for the command goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServeCommand_StopsOnCancel(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "site.yaml"), []byte("title: Docs\n"), 0o644))

	app := &application.Mock{
		SiteFunc: func(...application.SiteOption) (*site.Site, error) {
			return site.New(&site.Config{RootDir: root, Logger: logging.NewNopLogger()})
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := NewCommand(app)
	var out syncBuffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--port", "0"})

	done := make(chan error, 1)
	go func() {
		done <- cmd.ExecuteContext(ctx)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "dev server")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}
