//go:build integration

package integration_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deriamis/mongosh/internal/catalog/catalogtest"
	"github.com/deriamis/mongosh/internal/logging"
	"github.com/deriamis/mongosh/internal/snippet"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // stands in for the user's home directory
	InstallDir string // snippet install directory
	RCFile     string // the shell rc file
	Index      *catalogtest.Server
}

// setupTestEnv creates isolated directories and a local index server. The
// npm registry is the real one, so these tests need network access and an
// npm on PATH.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if _, err := exec.LookPath("npm"); err != nil {
		t.Skip("npm not found on PATH")
	}

	home := t.TempDir()
	env := &testEnv{
		HomeDir:    home,
		InstallDir: filepath.Join(home, ".mongodb", "mongosh", "snippets"),
		RCFile:     filepath.Join(home, ".mongoshrc.js"),
		Index:      catalogtest.NewServer(t, catalogtest.Sample("https://example.com/snippets")),
	}
	t.Setenv("HOME", home)
	return env
}

// newManager builds a manager for env with debug logging.
func newManager(t *testing.T, env *testEnv) *snippet.Manager {
	t.Helper()

	cfg := logging.DefaultConfig()
	cfg.Level = "debug"
	m, err := snippet.New(snippet.Config{
		InstallDir: env.InstallDir,
		RCFile:     env.RCFile,
		IndexURI:   env.Index.IndexURL(),
		Logger:     logging.NewOrNop(cfg),
	})
	if err != nil {
		t.Fatalf("snippet.New: %v", err)
	}
	t.Cleanup(m.Wait)
	return m
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory", path)
	}
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("expected %s to contain %q, got:\n%s", path, substr, data)
	}
}

func assertFileNotContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if strings.Contains(string(data), substr) {
		t.Errorf("expected %s not to contain %q, got:\n%s", path, substr, data)
	}
}
