package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/agentstation/docsite/cmd/application"
	"github.com/agentstation/docsite/pkg/constants"
	"github.com/agentstation/docsite/pkg/logging"
)

// newTestApp creates an app rooted at a temporary site with output captured.
func newTestApp(t *testing.T, files map[string]string) (*App, *bytes.Buffer) {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	logger := zerolog.Nop()
	var out bytes.Buffer
	app, err := New("1.0.0", "abc123", "2024-01-01", "test",
		WithConfig(&Config{Root: root, LogFormat: "json", LogOutput: "discard"}),
		WithLogger(&logger),
		WithOutput(&out, &out),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return app, &out
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app, err := New("1.0.0", "abc123", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2024-01-01" {
		t.Errorf("Date() = %s, want 2024-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Config() == nil {
		t.Error("Config() returned nil")
	}
}

// TestApp_Site verifies site construction and options.
func TestApp_Site(t *testing.T) {
	app, _ := newTestApp(t, nil)

	s, err := app.Site()
	if err != nil {
		t.Fatalf("Site() failed: %v", err)
	}
	if s.RootDir() != app.Config().Root {
		t.Errorf("RootDir() = %s, want %s", s.RootDir(), app.Config().Root)
	}
	if want := filepath.Join(app.Config().Root, constants.SiteConfigFile); s.ConfigPath() != want {
		t.Errorf("ConfigPath() = %s, want %s", s.ConfigPath(), want)
	}

	if _, err := app.Site(application.WithBaseURL("https://docs.example.com/")); err != nil {
		t.Fatalf("Site(WithBaseURL) failed: %v", err)
	}
}

// TestApp_ServerConfig verifies environment overrides reach the server settings.
func TestApp_ServerConfig(t *testing.T) {
	app, _ := newTestApp(t, nil)

	cfg := app.ServerConfig()
	if cfg.Port != constants.DefaultPort || cfg.Host != constants.DefaultHost {
		t.Errorf("defaults = %s:%d, want %s:%d", cfg.Host, cfg.Port, constants.DefaultHost, constants.DefaultPort)
	}
	if cfg.Version != "1.0.0" {
		t.Errorf("Version = %s, want 1.0.0", cfg.Version)
	}

	app.Config().HTTPHost = "0.0.0.0"
	app.Config().HTTPPort = 8080
	app.Config().APIKey = "secret"

	cfg = app.ServerConfig()
	if cfg.Host != "0.0.0.0" || cfg.Port != 8080 || cfg.APIKey != "secret" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

// TestApp_Execute_Version verifies the version command output.
func TestApp_Execute_Version(t *testing.T) {
	app, out := newTestApp(t, nil)

	if err := app.Execute(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("Execute(version) failed: %v", err)
	}
	if got := out.String(); got != "docsite 1.0.0\n" {
		t.Errorf("output = %q", got)
	}

	out.Reset()
	if err := app.Execute(context.Background(), []string{"version", "-v"}); err != nil {
		t.Fatalf("Execute(version -v) failed: %v", err)
	}
	if !strings.Contains(out.String(), "commit:   abc123") {
		t.Errorf("verbose output missing commit: %q", out.String())
	}
}

// TestApp_Execute_Images runs a command end to end against a real site.
func TestApp_Execute_Images(t *testing.T) {
	app, out := newTestApp(t, map[string]string{
		"site.yaml":            "title: Docs\nbase: /docs/\n",
		"public/images/b.png":  "",
		"public/images/a.jpg":  "",
		"public/images/notes":  "",
		"public/images/c.webp": "",
	})

	if err := app.Execute(context.Background(), []string{"images", "-o", "json", "--base"}); err != nil {
		t.Fatalf("Execute(images) failed: %v", err)
	}

	var got []string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	want := []string{"/docs/images/a.jpg", "/docs/images/b.png", "/docs/images/c.webp"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("images = %v, want %v", got, want)
	}
}

// TestApp_Execute_RootFlag verifies --root overrides the configured root.
func TestApp_Execute_RootFlag(t *testing.T) {
	app, out := newTestApp(t, nil)

	other := t.TempDir()
	if err := os.WriteFile(filepath.Join(other, constants.SiteConfigFile), []byte("title: Other\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := app.Execute(context.Background(), []string{"config", "validate", "--root", other}); err != nil {
		t.Fatalf("Execute(config validate) failed: %v", err)
	}
	if !strings.Contains(out.String(), "is valid") {
		t.Errorf("output = %q", out.String())
	}
}

// TestApp_Execute_InvalidFormat verifies unknown output formats are rejected.
func TestApp_Execute_InvalidFormat(t *testing.T) {
	app, _ := newTestApp(t, map[string]string{"site.yaml": "title: Docs\n"})

	err := app.Execute(context.Background(), []string{"images", "-o", "xml"})
	if err == nil || !strings.Contains(err.Error(), "invalid format") {
		t.Fatalf("Execute() error = %v, want invalid format", err)
	}
}

// TestApp_Execute_ConfiguresDefaultLogger verifies the flags also drive the
// package-level logger used by code without an injected one.
func TestApp_Execute_ConfiguresDefaultLogger(t *testing.T) {
	original := *logging.Default()
	level := zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetDefault(original)
		zerolog.SetGlobalLevel(level)
	})

	var out bytes.Buffer
	app, err := New("1.0.0", "abc123", "2024-01-01", "test",
		WithConfig(&Config{Root: t.TempDir(), LogFormat: "json", LogOutput: "discard"}),
		WithOutput(&out, &out),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := app.Execute(context.Background(), []string{"version", "--log-level", "warn"}); err != nil {
		t.Fatalf("Execute(version) failed: %v", err)
	}
	if got := logging.Default().GetLevel(); got != zerolog.WarnLevel {
		t.Errorf("default logger level = %v, want warn", got)
	}
	if app.Logger() != logging.Default() {
		t.Error("app logger is not the configured default logger")
	}
}

// TestApp_Shutdown verifies shutdown is safe without running work.
func TestApp_Shutdown(t *testing.T) {
	app, _ := newTestApp(t, nil)
	if err := app.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v", err)
	}
}
