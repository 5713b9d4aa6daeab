package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/deriamis/mongosh/internal/logging"
	"github.com/dlclark/regexp2"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// ErrUnavailable is returned when no cached index exists and the remote
// index could not be fetched.
var ErrUnavailable = errors.New("snippet index unavailable")

// Index is an immutable snapshot of the snippet catalog.
type Index struct {
	Entries  []Entry
	Metadata Metadata
}

// Entry describes one installable snippet.
type Entry struct {
	Name          string // npm package name
	SnippetName   string // user-facing name
	Version       string
	Description   string
	Readme        string
	ErrorMatchers []ErrorMatcher
}

// patternTimeout bounds a single match attempt against an error message.
const patternTimeout = 100 * time.Millisecond

// ErrorMatcher pairs error-message patterns with a hint for the user.
// Patterns use JavaScript regular expression syntax.
type ErrorMatcher struct {
	Patterns []*regexp2.Regexp
	Hint     string
}

// Matches reports whether any pattern matches msg. A pattern that exceeds
// its match timeout counts as not matching.
func (m ErrorMatcher) Matches(msg string) bool {
	for _, re := range m.Patterns {
		if ok, err := re.MatchString(msg); err == nil && ok {
			return true
		}
	}
	return false
}

// Metadata holds repository-level information shipped with the index.
type Metadata struct {
	Homepage string
	Extra    map[string]any
}

// Lookup returns the entry with the given user-facing name.
func (i *Index) Lookup(snippetName string) (*Entry, bool) {
	for n := range i.Entries {
		if i.Entries[n].SnippetName == snippetName {
			return &i.Entries[n], true
		}
	}
	return nil, false
}

// ResolveName maps a user-facing snippet name to its package name.
func (i *Index) ResolveName(snippetName string) (string, bool) {
	e, ok := i.Lookup(snippetName)
	if !ok {
		return "", false
	}
	return e.Name, true
}

type wireDocument struct {
	Index    []wireEntry `bson:"index"`
	Metadata bson.M      `bson:"metadata"`
}

type wireEntry struct {
	Name          string        `bson:"name"`
	SnippetName   string        `bson:"snippetName"`
	Version       string        `bson:"version"`
	Description   string        `bson:"description"`
	Readme        string        `bson:"readme"`
	ErrorMatchers []wireMatcher `bson:"errorMatchers"`
}

type wireMatcher struct {
	Matches []any  `bson:"matches"`
	Message string `bson:"message"`
}

// Decode decompresses and deserializes a cached or downloaded index.
// Patterns that cannot be compiled are skipped and reported to logger.
func Decode(payload []byte, logger *zap.Logger) (*Index, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	raw, err := io.ReadAll(brotli.NewReader(bytes.NewReader(payload)))
	if err != nil {
		return nil, fmt.Errorf("decompressing index: %w", err)
	}

	var doc wireDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding index: %w", err)
	}
	if doc.Index == nil {
		return nil, fmt.Errorf("decoding index: missing index array")
	}

	idx := &Index{Entries: make([]Entry, 0, len(doc.Index))}
	for _, we := range doc.Index {
		entry := Entry{
			Name:        we.Name,
			SnippetName: we.SnippetName,
			Version:     we.Version,
			Description: we.Description,
			Readme:      we.Readme,
		}
		for _, wm := range we.ErrorMatchers {
			m := ErrorMatcher{Hint: wm.Message}
			for _, pat := range wm.Matches {
				re, err := compilePattern(pat)
				if err != nil {
					logger.Debug("skipping error matcher pattern",
						zap.String("snippet", we.SnippetName), zap.Error(err))
					continue
				}
				m.Patterns = append(m.Patterns, re)
			}
			entry.ErrorMatchers = append(entry.ErrorMatchers, m)
		}
		idx.Entries = append(idx.Entries, entry)
	}

	idx.Metadata.Extra = make(map[string]any, len(doc.Metadata))
	for k, v := range doc.Metadata {
		if k == "homepage" {
			if s, ok := v.(string); ok {
				idx.Metadata.Homepage = s
				continue
			}
		}
		idx.Metadata.Extra[k] = v
	}
	return idx, nil
}

// compilePattern compiles a BSON regular expression (or a plain string) with
// ECMAScript semantics. The i, m, s and u flags carry over; g and y only
// affect repeated matching and are ignored.
func compilePattern(v any) (*regexp2.Regexp, error) {
	var pattern, options string
	switch p := v.(type) {
	case bson.Regex:
		pattern, options = p.Pattern, p.Options
	case string:
		pattern = p
	default:
		return nil, fmt.Errorf("unsupported pattern type %T", v)
	}

	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	for _, f := range options {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'u':
			opts |= regexp2.Unicode
		}
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = patternTimeout
	return re, nil
}
