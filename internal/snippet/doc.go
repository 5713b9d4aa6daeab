// Package snippet implements the "snippet" shell command: installing,
// updating and removing snippet packages from the catalog, keeping the rc
// file in step, and decorating shell errors with hints that snippet authors
// ship in the catalog.
package snippet
