package snippet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Doctor reports on the health of the snippet setup without changing it.
// It returns the number of failed checks.
func (m *Manager) Doctor(ctx context.Context, w io.Writer) int {
	failed := 0
	fail := func(format string, args ...any) {
		failed++
		fmt.Fprintf(w, "  [FAIL] "+format+"\n", args...)
	}

	fmt.Fprintln(w, "Snippet check:")

	// Install directory.
	if info, err := os.Stat(m.installDir); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(w, "  [MISS] %s does not exist (created on first install)\n", m.installDir)
	} else if err != nil {
		fail("%s: %v", m.installDir, err)
	} else if !info.IsDir() {
		fail("%s is not a directory", m.installDir)
	} else {
		fmt.Fprintf(w, "  [ OK ] %s exists\n", m.installDir)
	}

	// Manifest.
	if state, err := m.editor.Read(); err != nil {
		fail("%v", err)
	} else {
		fmt.Fprintf(w, "  [ OK ] %s lists %d package(s)\n", m.editor.Path(), len(state.Dependencies()))
	}

	// Index cache.
	if info, err := os.Stat(m.catalog.Path()); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(w, "  [MISS] no cached index at %s\n", m.catalog.Path())
	} else if err != nil {
		fail("%s: %v", m.catalog.Path(), err)
	} else {
		age := time.Since(info.ModTime()).Round(time.Second)
		fmt.Fprintf(w, "  [ OK ] cached index is %s old\n", age)
	}

	// npm.
	if inv, ok := m.bootstrap.Detect(ctx); ok {
		fmt.Fprintf(w, "  [ OK ] npm: %s\n", strings.Join(append([]string{inv.Path}, inv.Args...), " "))
		if len(inv.Args) > 0 {
			if _, err := exec.LookPath(inv.Path); err != nil {
				fail("node executable %q not found: %v", inv.Path, err)
			}
		}
	} else {
		fmt.Fprintln(w, "  [MISS] no usable npm; one will be downloaded on first install")
	}

	// rc file.
	data, err := os.ReadFile(m.rc.Path())
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", m.rc.Path())
	case err != nil:
		fail("%s: %v", m.rc.Path(), err)
	case strings.Contains(string(data), "// Managed snippets"):
		fmt.Fprintf(w, "  [ OK ] %s has a managed snippets block\n", m.rc.Path())
	default:
		fmt.Fprintf(w, "  [ OK ] %s has no managed snippets block\n", m.rc.Path())
	}

	return failed
}
