package npm

import (
	"net/http"
	"os/exec"

	"github.com/deriamis/mongosh/internal/branding"
	"github.com/deriamis/mongosh/internal/logging"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type options struct {
	registryURL string
	nodePath    string
	client      *resty.Client
	logger      *zap.Logger
	lookPath    func(string) (string, error)
}

// Option configures a Bootstrapper or Runner.
type Option func(*options)

// WithRegistryURL sets the npm registry base URL.
func WithRegistryURL(url string) Option {
	return func(o *options) {
		if url != "" {
			o.registryURL = url
		}
	}
}

// WithNodePath sets the node executable used to run a private npm copy.
func WithNodePath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.nodePath = path
		}
	}
}

// WithHTTPClient sets the HTTP client used for registry requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.client = resty.NewWithClient(hc)
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		registryURL: branding.RegistryURL(),
		nodePath:    "node",
		client:      resty.New(),
		logger:      logging.Nop(),
		lookPath:    exec.LookPath,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.client.SetHeader("User-Agent", "mongosh-snippets")
	return o
}
