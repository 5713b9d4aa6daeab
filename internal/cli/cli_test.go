package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deriamis/mongosh/internal/catalog/catalogtest"
	"github.com/deriamis/mongosh/internal/snippet"
	"github.com/spf13/viper"
)

// setupHome points HOME at a temp dir and the index at a test server.
func setupHome(t *testing.T) (string, *catalogtest.Server) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Reset()
	t.Cleanup(viper.Reset)

	srv := catalogtest.NewServer(t, catalogtest.Sample("https://example.com/snippets"))
	t.Setenv("MONGOSH_SNIPPET_INDEX_URI", srv.IndexURL())
	return home, srv
}

func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootPrintsHelpText(t *testing.T) {
	setupHome(t)
	for _, args := range [][]string{nil, {"help"}} {
		out, err := executeCmd(t, args...)
		if err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		if out != snippet.HelpText {
			t.Errorf("%v: output = %q", args, out)
		}
	}
}

func TestHelpForSnippetAndCommand(t *testing.T) {
	setupHome(t)

	out, err := executeCmd(t, "help", "bson-example")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Not actually a snippet\n" {
		t.Errorf("help bson-example = %q", out)
	}

	out, err = executeCmd(t, "help", "install")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Install one or more snippets") {
		t.Errorf("help install = %q", out)
	}

	_, err = executeCmd(t, "help", "nope")
	if err == nil || err.Error() != `Unknown snippet "nope"` {
		t.Errorf("help nope error = %v", err)
	}
}

func TestHelpPrefersSnippetReadmeOverCommand(t *testing.T) {
	_, srv := setupHome(t)
	doc := catalogtest.Sample("https://example.com/snippets")
	doc.Index = append(doc.Index,
		catalogtest.Entry{Name: "doctor-pkg", SnippetName: "doctor", Version: "1.0.0", Readme: "Doctor snippet readme"},
		catalogtest.Entry{Name: "config-pkg", SnippetName: "config", Version: "1.0.0"},
	)
	srv.SetDocument(t, doc)

	out, err := executeCmd(t, "help", "doctor")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Doctor snippet readme\n" {
		t.Errorf("help doctor = %q", out)
	}

	out, err = executeCmd(t, "help", "config")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Read and write snippet settings") {
		t.Errorf("help config = %q, want command usage", out)
	}
}

func TestInfoCommand(t *testing.T) {
	home, srv := setupHome(t)

	out, err := executeCmd(t, "info")
	if err != nil {
		t.Fatal(err)
	}
	want := "Snippet repository homepage:   https://example.com/snippets\n" +
		"Snippet index URL:             " + srv.IndexURL() + "\n"
	if out != want {
		t.Errorf("info = %q, want %q", out, want)
	}

	// The index is cached in the default install directory.
	if _, err := os.Stat(filepath.Join(home, ".mongodb", "mongosh", "snippets", "index.bson.br")); err != nil {
		t.Errorf("index not cached: %v", err)
	}
	if _, err := executeCmd(t, "info"); err != nil {
		t.Fatal(err)
	}
	if srv.Hits() != 1 {
		t.Errorf("server hits = %d, want 1", srv.Hits())
	}
}

func TestSearchCommand(t *testing.T) {
	setupHome(t)

	out, err := executeCmd(t, "search")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"NAME", "bson-example", "mongodb-example", "The Node.js driver"} {
		if !strings.Contains(out, want) {
			t.Errorf("search output missing %q:\n%s", want, out)
		}
	}
}

func TestUnknownSubcommand(t *testing.T) {
	setupHome(t)

	out, err := executeCmd(t, "frobnicate")
	if err != nil {
		t.Fatal(err)
	}
	want := "Unknown command \"frobnicate\". Run 'snippet help' to list all available commands.\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestConfigCommands(t *testing.T) {
	setupHome(t)

	if _, err := executeCmd(t, "config", "set", "max_age", "2h"); err != nil {
		t.Fatal(err)
	}
	viper.Reset()
	out, err := executeCmd(t, "config", "get", "max_age")
	if err != nil {
		t.Fatal(err)
	}
	if out != "2h\n" {
		t.Errorf("config get = %q", out)
	}

	if _, err := executeCmd(t, "config", "set", "max_age", "soon"); err == nil {
		t.Error("expected error for invalid duration")
	}
	if _, err := executeCmd(t, "config", "set", "colour", "blue"); err == nil {
		t.Error("expected error for unknown key")
	}

	out, err = executeCmd(t, "config", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "registry_url") || !strings.Contains(out, "https://registry.npmjs.org") {
		t.Errorf("config list = %q", out)
	}
}

func TestVersionJSON(t *testing.T) {
	home, srv := setupHome(t)
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-01-01"
	t.Cleanup(func() { versionJSON = false })

	out, err := executeCmd(t, "version", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("output is not JSON: %q", out)
	}
	if info["version"] != "1.2.3" || info["commit"] != "abc123" {
		t.Errorf("info = %v", info)
	}
	if info["index_uri"] != srv.IndexURL() {
		t.Errorf("index_uri = %q, want %q", info["index_uri"], srv.IndexURL())
	}
	if !strings.HasPrefix(info["install_dir"], home) {
		t.Errorf("install_dir = %q, want under %q", info["install_dir"], home)
	}
}

func TestVersionShowsSnippetSources(t *testing.T) {
	_, srv := setupHome(t)

	out, err := executeCmd(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Snippet index:    "+srv.IndexURL()) {
		t.Errorf("version = %q", out)
	}
}
