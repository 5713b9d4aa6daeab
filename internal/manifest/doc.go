// Package manifest maintains the package.json that declares which snippet
// packages are installed. Edits are read-modify-write: fields the snippet
// manager does not understand are carried through unchanged, and the document
// is checked against an embedded JSON schema before it is trusted.
package manifest
