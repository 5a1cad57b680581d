// Package inspect reads the configured launch metadata out of an exported
// OCI archive.
//
// The archive's index is followed to the image manifest and its config
// blob, and the fields that matter for launching the packaged service are
// reported: entrypoint, default arguments, exposed ports, volumes, and
// working directory. Layer blobs are never read, so inspection is cheap
// even for large images and needs no container runtime.
package inspect
