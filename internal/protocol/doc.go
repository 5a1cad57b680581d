// Package protocol defines the wire format between the CLI and the daemon.
//
// Messages are newline-delimited JSON envelopes carrying a command name and
// an optional payload. Each connection is a single request-response
// exchange. Responses reuse the envelope with the "ok" or "error" command.
package protocol
