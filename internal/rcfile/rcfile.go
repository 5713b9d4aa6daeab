// Package rcfile keeps a generated block of load statements in the shell's
// startup script in step with the installed snippets.
package rcfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/deriamis/mongosh/internal/logging"
	"github.com/deriamis/mongosh/internal/platform"
	"go.uber.org/zap"
)

const (
	startMarker = "// Managed snippets. Do not edit this part manually!\n" +
		"// Use snippet uninstall <name> to remove packages.\n"
	endMarker = "// End of managed snippets\n"
)

// blockPattern spans from the first start marker to the last end marker.
var blockPattern = regexp.MustCompile(`(?s)// Managed snippets.*// End of managed snippets\n?`)

// Syncer rewrites the managed block of one rc file.
type Syncer struct {
	rcFile     string
	installDir string
	logger     *zap.Logger
}

// NewSyncer creates a syncer for rcFile loading packages from installDir.
func NewSyncer(rcFile, installDir string, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Syncer{rcFile: rcFile, installDir: installDir, logger: logger}
}

// Path returns the rc file location.
func (s *Syncer) Path() string { return s.rcFile }

// Block renders the managed block for pkgs, or "" when pkgs is empty.
func (s *Syncer) Block(pkgs []string) (string, error) {
	if len(pkgs) == 0 {
		return "", nil
	}
	var b strings.Builder
	b.WriteString(startMarker)
	for _, pkg := range pkgs {
		line, err := s.loadLine(pkg)
		if err != nil {
			return "", err
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(endMarker)
	return b.String(), nil
}

func (s *Syncer) loadLine(pkg string) (string, error) {
	target := filepath.Join(s.installDir, "node_modules", filepath.FromSlash(pkg))
	rel, err := filepath.Rel(filepath.Dir(s.rcFile), target)
	if err != nil {
		return "", fmt.Errorf("locating %s relative to %s: %w", pkg, s.rcFile, err)
	}
	quoted, err := jsonString(string(filepath.Separator) + rel)
	if err != nil {
		return "", err
	}
	return "load(require.resolve(__dirname + " + quoted + "));", nil
}

// Sync replaces the managed block with one load statement per package.
// Without an existing block an empty package list leaves the file alone.
// An rc file that exists but cannot be read is skipped.
func (s *Syncer) Sync(pkgs []string) error {
	block, err := s.Block(pkgs)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(s.rcFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("not updating unreadable rc file", zap.String("path", s.rcFile), zap.Error(err))
		return nil
	}
	content := string(data)

	var updated string
	if loc := blockPattern.FindStringIndex(content); loc != nil {
		updated = content[:loc[0]] + block + content[loc[1]:]
	} else if block != "" {
		updated = content + separator(content) + block
	} else {
		return nil
	}

	if updated == content {
		return nil
	}
	if err := platform.WriteFileAtomic(s.rcFile, []byte(updated), 0644); err != nil {
		return fmt.Errorf("writing rc file: %w", err)
	}
	return nil
}

// separator returns what must follow content so that a blank line precedes
// the appended block.
func separator(content string) string {
	switch {
	case content == "", strings.HasSuffix(content, "\n\n"):
		return ""
	case strings.HasSuffix(content, "\n"):
		return "\n"
	default:
		return "\n\n"
	}
}

// jsonString quotes s as a JavaScript string literal.
func jsonString(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", fmt.Errorf("quoting %q: %w", s, err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
