// Package catalogtest serves snippet indexes over HTTP for tests.
package catalogtest

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/andybalholm/brotli"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Document is the wire shape of an index.
type Document struct {
	Index    []Entry        `bson:"index"`
	Metadata map[string]any `bson:"metadata"`
}

// Entry is one index entry on the wire.
type Entry struct {
	Name          string    `bson:"name"`
	SnippetName   string    `bson:"snippetName"`
	Version       string    `bson:"version"`
	Description   string    `bson:"description"`
	Readme        string    `bson:"readme,omitempty"`
	ErrorMatchers []Matcher `bson:"errorMatchers,omitempty"`
}

// Matcher is an error matcher on the wire. Matches holds bson.Regex values.
type Matcher struct {
	Matches []any  `bson:"matches"`
	Message string `bson:"message"`
}

// Sample returns a two-entry index modelled on the published catalog.
func Sample(homepage string) Document {
	return Document{
		Index: []Entry{
			{
				Name:        "bson",
				SnippetName: "bson-example",
				Version:     "4.4.0",
				Description: "Plain npm package",
				Readme:      "Not actually a snippet",
				ErrorMatchers: []Matcher{{
					Matches: []any{bson.Regex{Pattern: "undefined is not a function"}},
					Message: "Is bson-example loaded?",
				}},
			},
			{
				Name:        "mongodb",
				SnippetName: "mongodb-example",
				Version:     "6.3.0",
				Description: "The Node.js driver",
			},
		},
		Metadata: map[string]any{"homepage": homepage},
	}
}

// Encode returns the brotli-compressed BSON form of doc.
func Encode(t testing.TB, doc Document) []byte {
	t.Helper()
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal index: %v", err)
	}
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		t.Fatalf("compress index: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("compress index: %v", err)
	}
	return buf.Bytes()
}

// Server serves an encoded index and counts requests.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	payload []byte
	status  int
	hits    atomic.Int64
}

// NewServer starts a server for doc. It is closed when the test ends.
func NewServer(t testing.TB, doc Document) *Server {
	t.Helper()
	s := &Server{payload: Encode(t, doc), status: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) serve(w http.ResponseWriter, _ *http.Request) {
	s.hits.Add(1)
	s.mu.Lock()
	payload, status := s.payload, s.status
	s.mu.Unlock()
	if status != http.StatusOK {
		http.Error(w, "unavailable", status)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(payload)
}

// IndexURL returns the URL of the served index.
func (s *Server) IndexURL() string {
	return s.URL + "/snippets-index.bson.br"
}

// SetDocument replaces the served index.
func (s *Server) SetDocument(t testing.TB, doc Document) {
	payload := Encode(t, doc)
	s.mu.Lock()
	s.payload = payload
	s.mu.Unlock()
}

// SetStatus makes the server answer every request with status.
func (s *Server) SetStatus(status int) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Hits returns the number of requests served.
func (s *Server) Hits() int64 {
	return s.hits.Load()
}
