package snippet

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/deriamis/mongosh/internal/catalog"
	"github.com/deriamis/mongosh/internal/logging"
	"github.com/deriamis/mongosh/internal/manifest"
	"github.com/deriamis/mongosh/internal/npm"
	"github.com/deriamis/mongosh/internal/prompt"
	"github.com/deriamis/mongosh/internal/rcfile"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CommandName is the shell command handled by the Manager.
const CommandName = "snippet"

// Loader evaluates a script file in the running shell.
type Loader interface {
	Load(ctx context.Context, path string) error
}

// Config holds what a Manager needs to know about its environment.
type Config struct {
	InstallDir  string
	RCFile      string
	IndexURI    string
	RegistryURL string
	NodePath    string
	MaxAge      time.Duration

	HTTPClient *http.Client
	Logger     *zap.Logger

	// Loader, when set, is used to load snippets right after install.
	Loader Loader
}

// Manager handles snippet commands for one install directory.
type Manager struct {
	installDir string
	catalog    *catalog.Cache
	bootstrap  *npm.Bootstrapper
	runner     *npm.Runner
	editor     *manifest.Editor
	rc         *rcfile.Syncer
	loader     Loader
	logger     *zap.Logger

	mu  sync.Mutex
	inv *npm.Invocation

	warm sync.WaitGroup
}

// New creates a Manager. Nothing touches the disk or network until a
// command runs or Warm is called.
func New(cfg Config) (*Manager, error) {
	if cfg.InstallDir == "" {
		return nil, fmt.Errorf("snippet install directory not set")
	}
	if cfg.IndexURI == "" {
		return nil, fmt.Errorf("snippet index URI not set")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	cacheOpts := []catalog.Option{catalog.WithLogger(logger), catalog.WithMaxAge(cfg.MaxAge)}
	npmOpts := []npm.Option{
		npm.WithLogger(logger),
		npm.WithRegistryURL(cfg.RegistryURL),
		npm.WithNodePath(cfg.NodePath),
	}
	if cfg.HTTPClient != nil {
		cacheOpts = append(cacheOpts, catalog.WithHTTPClient(cfg.HTTPClient))
		npmOpts = append(npmOpts, npm.WithHTTPClient(cfg.HTTPClient))
	}

	return &Manager{
		installDir: cfg.InstallDir,
		catalog:    catalog.New(cfg.IndexURI, cfg.InstallDir, cacheOpts...),
		bootstrap:  npm.NewBootstrapper(cfg.InstallDir, npmOpts...),
		runner:     npm.NewRunner(cfg.InstallDir, npmOpts...),
		editor:     manifest.NewEditor(cfg.InstallDir),
		rc:         rcfile.NewSyncer(cfg.RCFile, cfg.InstallDir, logger),
		loader:     cfg.Loader,
		logger:     logger,
	}, nil
}

// SetLoader replaces the loader used after install.
func (m *Manager) SetLoader(l Loader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loader = l
}

// MatchesCommand reports whether cmd is handled by the Manager.
func (m *Manager) MatchesCommand(cmd string) bool {
	return cmd == CommandName
}

// RCFile returns the rc file kept in sync with installed snippets.
func (m *Manager) RCFile() string { return m.rc.Path() }

// Catalog exposes the index cache.
func (m *Manager) Catalog() *catalog.Cache { return m.catalog }

// Warm loads the catalog in the background so that TransformError has
// hints available before the first snippet command. Failures are logged.
func (m *Manager) Warm(ctx context.Context) {
	m.warm.Add(1)
	go func() {
		defer m.warm.Done()
		if _, err := m.catalog.Load(ctx, false); err != nil {
			m.logger.Debug("initial snippet index load failed", zap.Error(err))
		}
	}()
}

// Wait blocks until background catalog work has finished.
func (m *Manager) Wait() {
	m.warm.Wait()
	m.catalog.Wait()
}

// EnsureSetup makes npm and the catalog available, running both in
// parallel. The npm invocation is kept for later commands. Once both are
// available, later calls return the cached invocation and the active index
// without touching the cache file or the network.
func (m *Manager) EnsureSetup(ctx context.Context, p prompt.Prompter) (npm.Invocation, *catalog.Index, error) {
	m.mu.Lock()
	cached := m.inv
	m.mu.Unlock()

	if cached != nil {
		if idx := m.catalog.Current(); idx != nil {
			return *cached, idx, nil
		}
	}

	var (
		inv npm.Invocation
		idx *catalog.Index
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if cached != nil {
			inv = *cached
			return nil
		}
		var err error
		inv, err = m.bootstrap.Ensure(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		idx, err = m.catalog.Load(gctx, false)
		return err
	})
	if err := g.Wait(); err != nil {
		return npm.Invocation{}, nil, err
	}

	m.mu.Lock()
	m.inv = &inv
	m.mu.Unlock()
	return inv, idx, nil
}

// TransformError appends the hint of the first catalog error matcher that
// matches err. Without a loaded catalog err is returned unchanged.
func (m *Manager) TransformError(err error) error {
	if err == nil {
		return nil
	}
	idx := m.catalog.Current()
	if idx == nil {
		return err
	}
	msg := err.Error()
	for _, entry := range idx.Entries {
		for _, matcher := range entry.ErrorMatchers {
			if matcher.Matches(msg) {
				return &AnnotatedError{Err: err, Hint: matcher.Hint}
			}
		}
	}
	return err
}

func (m *Manager) currentLoader() Loader {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loader
}
