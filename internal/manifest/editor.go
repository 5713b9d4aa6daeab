package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/deriamis/mongosh/internal/platform"
)

// Editor provides read-modify-write access to package.json in an install
// directory. It performs no locking: concurrent editors race and the last
// write wins.
type Editor struct {
	path string
}

// NewEditor returns an editor for <installDir>/package.json.
func NewEditor(installDir string) *Editor {
	return &Editor{path: filepath.Join(installDir, FileName)}
}

// Path returns the manifest file path.
func (e *Editor) Path() string {
	return e.path
}

// Read loads the manifest. A missing file yields an empty manifest; any other
// read failure is returned unmodified.
func (e *Editor) Read() (*State, error) {
	data, err := os.ReadFile(e.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewState(), nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(e.path, data)
}

// Edit reads the manifest, applies fn, and writes the full document back.
// Nothing is written when fn fails.
func (e *Editor) Edit(fn func(*State) error) error {
	_, err := Edit(e, func(s *State) (struct{}, error) {
		return struct{}{}, fn(s)
	})
	return err
}

// Edit is the value-returning form of Editor.Edit.
func Edit[T any](e *Editor, fn func(*State) (T, error)) (T, error) {
	var zero T

	state, err := e.Read()
	if err != nil {
		return zero, err
	}

	result, err := fn(state)
	if err != nil {
		return zero, err
	}

	data, err := Marshal(state)
	if err != nil {
		return zero, err
	}
	if err := platform.WriteFileAtomic(e.path, data, 0644); err != nil {
		return zero, fmt.Errorf("writing manifest: %w", err)
	}
	return result, nil
}

// Touch makes sure the manifest file exists without changing its content
// beyond normalizing the formatting.
func (e *Editor) Touch() error {
	return e.Edit(func(*State) error { return nil })
}

// Parse validates and decodes package.json bytes.
func Parse(file string, data []byte) (*State, error) {
	if err := Validate(file, data); err != nil {
		return nil, err
	}
	state := NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", file, err)
	}
	return state, nil
}

// Marshal renders the manifest with two-space indentation and a trailing
// newline, the way npm writes it.
func Marshal(s *State) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}
	return append(data, '\n'), nil
}
