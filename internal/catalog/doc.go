// Package catalog fetches and caches the snippet index: a brotli-compressed
// BSON document listing every installable snippet together with repository
// metadata. The raw download is kept in <installdir>/index.bson.br and its
// modification time decides when a background refresh is due; callers never
// wait for that refresh.
package catalog
