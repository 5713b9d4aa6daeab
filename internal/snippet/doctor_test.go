package snippet

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deriamis/mongosh/internal/manifest"
	"github.com/deriamis/mongosh/internal/prompt"
)

func TestDoctorFreshSetup(t *testing.T) {
	env := newTestEnv(t)

	var out bytes.Buffer
	if failed := env.manager.Doctor(context.Background(), &out); failed != 0 {
		t.Errorf("failed = %d\n%s", failed, out.String())
	}
	got := out.String()
	for _, want := range []string{"[MISS] " + env.installDir, "[MISS] no cached index", "[ OK ] npm: ", "[MISS] " + env.rcFile} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestDoctorAfterInstall(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, prompt.Fixed(prompt.AnswerNo), "install", "bson-example")

	var out bytes.Buffer
	if failed := env.manager.Doctor(context.Background(), &out); failed != 0 {
		t.Errorf("failed = %d\n%s", failed, out.String())
	}
	got := out.String()
	for _, want := range []string{"lists 1 package(s)", "cached index is", "has a managed snippets block"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestDoctorReportsBrokenManifest(t *testing.T) {
	env := newTestEnv(t)
	if err := os.MkdirAll(env.installDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(env.installDir, manifest.FileName), []byte(`{"dependencies":[]}`), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if failed := env.manager.Doctor(context.Background(), &out); failed != 1 {
		t.Errorf("failed = %d, want 1\n%s", failed, out.String())
	}
}
