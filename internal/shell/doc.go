// Package shell is a minimal interactive JavaScript host for running
// snippets. Lines whose first word names a plugin command are handed to that
// plugin; everything else is evaluated by an embedded goja runtime that
// provides load(), print() and require.resolve(). Errors from either path are
// passed through every plugin's TransformError before they are shown.
package shell
