// Package config manages user-level settings for the snippet manager stored at
// ~/.mongodb/mongosh/snippet.yaml. Every key can be overridden through an
// environment variable with the MONGOSH_SNIPPET_ prefix, e.g.
// MONGOSH_SNIPPET_INDEX_URI.
package config
