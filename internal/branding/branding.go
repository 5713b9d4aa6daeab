// Package branding provides compile-time identity values for the snippet
// manager.
//
// branding.yaml is baked into the binary with //go:embed; forks change the
// defaults (catalog URL, registry, home directory) there instead of in code.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName       string `yaml:"cli_name"`
	DisplayName   string `yaml:"display_name"`
	Description   string `yaml:"description"`
	HomeDir       string `yaml:"home_dir"`
	EnvPrefix     string `yaml:"env_prefix"`
	GoModule      string `yaml:"go_module"`
	IndexURI      string `yaml:"index_uri"`
	RegistryURL   string `yaml:"registry_url"`
	RCFile        string `yaml:"rc_file"`
	PackagePrefix string `yaml:"package_prefix"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:       "snippet",
			DisplayName:   "mongosh snippets",
			Description:   "Install, update and remove mongosh snippets",
			HomeDir:       ".mongodb/mongosh",
			EnvPrefix:     "MONGOSH_SNIPPET",
			GoModule:      "github.com/deriamis/mongosh",
			IndexURI:      "https://compass.mongodb.com/mongosh/snippets-index.bson.br",
			RegistryURL:   "https://registry.npmjs.org",
			RCFile:        ".mongoshrc.js",
			PackagePrefix: "mongosh",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the command name snippets are dispatched under ("snippet").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory under $HOME that holds shell state.
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "MONGOSH_SNIPPET").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// IndexURI returns the default location of the compressed snippet index.
func IndexURI() string { load(); return defaults.IndexURI }

// RegistryURL returns the default npm registry base URL.
func RegistryURL() string { load(); return defaults.RegistryURL }

// RCFile returns the file name of the shell init script under $HOME.
func RCFile() string { load(); return defaults.RCFile }

// PackagePrefix returns the prefix shown in front of snippet names in npm
// listings, e.g. "mongosh" for "mongosh:analyze-schema".
func PackagePrefix() string { load(); return defaults.PackagePrefix }

// EnvVar returns a fully qualified env var name, e.g. EnvVar("index_uri") →
// "MONGOSH_SNIPPET_INDEX_URI".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
