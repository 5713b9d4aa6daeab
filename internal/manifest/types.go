package manifest

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FileName is the manifest file name inside the install directory.
const FileName = "package.json"

// LatestSpec is the version spec written for installed and updated packages.
const LatestSpec = "latest"

const dependenciesKey = "dependencies"

// State is the in-memory form of package.json. Dependencies are exposed
// through methods; every other top-level field is kept as raw JSON.
type State struct {
	deps  map[string]string
	extra map[string]json.RawMessage
}

// NewState returns an empty manifest.
func NewState() *State {
	return &State{extra: make(map[string]json.RawMessage)}
}

// Dependencies returns a copy of the dependency map.
func (s *State) Dependencies() map[string]string {
	out := make(map[string]string, len(s.deps))
	for k, v := range s.deps {
		out[k] = v
	}
	return out
}

// Names returns dependency names in the order they are persisted.
func (s *State) Names() []string {
	names := make([]string, 0, len(s.deps))
	for k := range s.deps {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Has reports whether pkg is declared.
func (s *State) Has(pkg string) bool {
	_, ok := s.deps[pkg]
	return ok
}

// Set declares pkg with the given version spec.
func (s *State) Set(pkg, spec string) {
	if s.deps == nil {
		s.deps = make(map[string]string)
	}
	s.deps[pkg] = spec
}

// Remove drops pkg from the dependencies. Removing an absent package is a
// no-op but still materializes an empty dependencies object.
func (s *State) Remove(pkg string) {
	if s.deps == nil {
		s.deps = make(map[string]string)
	}
	delete(s.deps, pkg)
}

// Field returns the raw JSON of an unrecognized top-level field.
func (s *State) Field(key string) (json.RawMessage, bool) {
	v, ok := s.extra[key]
	return v, ok
}

// MarshalJSON writes the full document, unknown fields included.
func (s *State) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(s.extra)+1)
	for k, v := range s.extra {
		doc[k] = v
	}
	if s.deps != nil {
		doc[dependenciesKey] = s.deps
	}
	return json.Marshal(doc)
}

// UnmarshalJSON splits a document into dependencies and opaque fields.
func (s *State) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.extra = make(map[string]json.RawMessage, len(raw))
	s.deps = nil
	for k, v := range raw {
		if k != dependenciesKey {
			s.extra[k] = v
			continue
		}
		var deps map[string]string
		if err := json.Unmarshal(v, &deps); err != nil {
			return fmt.Errorf("decoding %s: %w", dependenciesKey, err)
		}
		if deps == nil {
			deps = make(map[string]string)
		}
		s.deps = deps
	}
	return nil
}
