// Package npm locates or installs an npm executable for the snippet install
// directory and runs npm commands there.
//
// An npm copy private to the install directory is preferred. Failing that, a
// system npm of major version 6 or later is used. As a last resort, and only
// with the user's consent, the latest npm release is downloaded from the
// registry and unpacked into <installdir>/node_modules/npm.
package npm
