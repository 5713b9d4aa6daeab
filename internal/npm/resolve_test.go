package npm

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveModule(t *testing.T) {
	dir := t.TempDir()
	modules := filepath.Join(dir, "node_modules")

	writeFile(t, filepath.Join(modules, "plain", "index.js"), "")
	writeFile(t, filepath.Join(modules, "withmain", "package.json"), `{"main":"lib/bson.js"}`)
	writeFile(t, filepath.Join(modules, "withmain", "lib", "bson.js"), "")
	writeFile(t, filepath.Join(modules, "nosuffix", "package.json"), `{"main":"./dist/entry"}`)
	writeFile(t, filepath.Join(modules, "nosuffix", "dist", "entry.js"), "")
	writeFile(t, filepath.Join(modules, "maindir", "package.json"), `{"main":"lib"}`)
	writeFile(t, filepath.Join(modules, "maindir", "lib", "index.js"), "")
	writeFile(t, filepath.Join(modules, "@scope", "pkg", "index.js"), "")
	writeFile(t, filepath.Join(modules, "empty", "package.json"), `{}`)

	tests := []struct {
		pkg     string
		want    string
		wantErr bool
	}{
		{"plain", filepath.Join(modules, "plain", "index.js"), false},
		{"withmain", filepath.Join(modules, "withmain", "lib", "bson.js"), false},
		{"nosuffix", filepath.Join(modules, "nosuffix", "dist", "entry.js"), false},
		{"maindir", filepath.Join(modules, "maindir", "lib", "index.js"), false},
		{"@scope/pkg", filepath.Join(modules, "@scope", "pkg", "index.js"), false},
		{"empty", "", true},
		{"missing", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.pkg, func(t *testing.T) {
			got, err := ResolveModule(dir, tt.pkg)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ResolveModule(%q) = %q, want error", tt.pkg, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveModule(%q) error = %v", tt.pkg, err)
			}
			if got != tt.want {
				t.Errorf("ResolveModule(%q) = %q, want %q", tt.pkg, got, tt.want)
			}
		})
	}
}

func TestResolvePathFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "script.js"), "")

	for _, p := range []string{filepath.Join(dir, "script.js"), filepath.Join(dir, "script")} {
		got, err := ResolvePath(p)
		if err != nil {
			t.Fatalf("ResolvePath(%q) error = %v", p, err)
		}
		if got != filepath.Join(dir, "script.js") {
			t.Errorf("ResolvePath(%q) = %q", p, got)
		}
	}
	if _, err := ResolvePath(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing path")
	}
}
