package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/deriamis/mongosh/internal/logging"
	"github.com/deriamis/mongosh/internal/platform"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	// CacheFileName is the name of the cached index inside the install dir.
	CacheFileName = "index.bson.br"

	// DefaultMaxAge is how old the cache file may get before a background
	// refresh is started.
	DefaultMaxAge = time.Hour
)

// Cache loads the snippet index from disk or the network and publishes it as
// an immutable snapshot.
type Cache struct {
	uri    string
	path   string
	maxAge time.Duration
	client *resty.Client
	logger *zap.Logger
	now    func() time.Time

	current    atomic.Pointer[Index]
	refreshing atomic.Bool
	background sync.WaitGroup
}

// Option configures a Cache.
type Option func(*Cache)

// WithHTTPClient sets the HTTP client used to download the index.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Cache) {
		c.client = resty.NewWithClient(hc)
	}
}

// WithMaxAge sets the staleness threshold.
func WithMaxAge(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.maxAge = d
		}
	}
}

// WithLogger sets the logger for swallowed failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides the time source used for staleness checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache for the index at uri, stored under installDir.
func New(uri, installDir string, opts ...Option) *Cache {
	c := &Cache{
		uri:    uri,
		path:   filepath.Join(installDir, CacheFileName),
		maxAge: DefaultMaxAge,
		client: resty.New(),
		logger: logging.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client.SetHeader("User-Agent", "mongosh-snippets")
	return c
}

// URI returns the remote index location.
func (c *Cache) URI() string { return c.uri }

// Path returns the cache file location.
func (c *Cache) Path() string { return c.path }

// Current returns the most recently published index, or nil before the first
// successful load.
func (c *Cache) Current() *Index {
	return c.current.Load()
}

// Wait blocks until any background refresh has finished.
func (c *Cache) Wait() {
	c.background.Wait()
}

// Load returns the snippet index. A readable cache file is served directly;
// when it is older than the max age a single background refresh is started
// and the stale copy is still returned. Without a usable cache file, or when
// forceRefresh is set, the index is downloaded. ErrUnavailable is returned
// only when there is nothing to fall back to.
func (c *Cache) Load(ctx context.Context, forceRefresh bool) (*Index, error) {
	cached, modTime, cacheErr := c.readCache()
	if cacheErr != nil && !errors.Is(cacheErr, os.ErrNotExist) {
		c.logger.Debug("ignoring unusable index cache", zap.String("path", c.path), zap.Error(cacheErr))
	}

	if cached != nil && !forceRefresh {
		c.current.Store(cached)
		if c.now().Sub(modTime) > c.maxAge {
			c.refreshInBackground()
		}
		return cached, nil
	}

	idx, err := c.fetch(ctx)
	if err != nil {
		if cached != nil {
			c.logger.Debug("index refresh failed, using cached copy", zap.Error(err))
			c.current.Store(cached)
			return cached, nil
		}
		return nil, fmt.Errorf("%w from %s: %w", ErrUnavailable, c.uri, err)
	}
	c.current.Store(idx)
	return idx, nil
}

// readCache decodes the cache file and returns its modification time.
func (c *Cache) readCache() (*Index, time.Time, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		return nil, time.Time{}, err
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, time.Time{}, err
	}
	idx, err := Decode(data, c.logger)
	if err != nil {
		return nil, time.Time{}, err
	}
	return idx, info.ModTime(), nil
}

// fetch downloads and decodes the remote index, then stores the raw bytes as
// the new cache file. The write is best effort: the decoded index is usable
// without it.
func (c *Cache) fetch(ctx context.Context) (*Index, error) {
	resp, err := c.client.R().SetContext(ctx).Get(c.uri)
	if err != nil {
		return nil, fmt.Errorf("fetching index: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching index: server returned status %d", resp.StatusCode())
	}

	payload := resp.Body()
	idx, err := Decode(payload, c.logger)
	if err != nil {
		return nil, err
	}

	if err := platform.WriteFileAtomic(c.path, payload, 0644); err != nil {
		c.logger.Debug("could not write index cache", zap.String("path", c.path), zap.Error(err))
	}
	return idx, nil
}

// refreshInBackground starts one refresh unless another is already running.
// The caller has already been given the stale index; failures are dropped.
func (c *Cache) refreshInBackground() {
	if !c.refreshing.CompareAndSwap(false, true) {
		return
	}
	c.background.Add(1)
	go func() {
		defer c.background.Done()
		defer c.refreshing.Store(false)

		idx, err := c.fetch(context.Background())
		if err != nil {
			c.logger.Debug("background index refresh failed", zap.Error(err))
			return
		}
		c.current.Store(idx)
	}()
}
