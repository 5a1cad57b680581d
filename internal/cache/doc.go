// Package cache stores exported dependency-stage archives for reuse.
//
// The cache reproduces the layer-cache behavior of a classic container
// build: when neither the base image reference nor the dependency manifest
// contents have changed, the dependency-install stage is skipped entirely
// and the build container starts from the cached archive. Application
// source changes never invalidate a cached entry; a manifest, base image,
// or platform change always produces a new key.
//
// Entries are OCI archives named by the digest of their inputs, stored in
// a flat directory. The directory can be deleted at any time; the next
// build repopulates it.
package cache
