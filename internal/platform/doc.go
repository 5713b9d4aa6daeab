// Package platform provides cross-platform filesystem helpers: permission
// changes that are no-ops on Windows and atomic whole-file replacement used
// for every file the snippet manager owns or patches.
package platform
