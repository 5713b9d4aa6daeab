// Package cli defines the Cobra command tree for the snippet CLI. Each file
// registers one top-level command with the root command. Snippet commands
// are thin wrappers that forward their arguments to snippet.Manager and
// print what it returns.
package cli
