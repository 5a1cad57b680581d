package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ofensivaria/ofbuild/internal/recipe"
)

var ErrProtocol = errors.New("protocol error")

// Identifies a daemon command or response kind.
type Command string

const (
	CmdBuild    Command = "build"    // Build an image from a recipe.
	CmdRun      Command = "run"      // Launch a container from a built archive.
	CmdStatus   Command = "status"   // Query daemon status.
	CmdShutdown Command = "shutdown" // Ask the daemon to stop.

	CmdOK    Command = "ok"    // Successful response.
	CmdError Command = "error" // Error response.
)

// The framing carried on the wire.
type Envelope struct {
	Command Command         `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Serializes a command and payload into a JSON envelope.
func Encode(cmd Command, payload any) ([]byte, error) {
	env := Envelope{Command: cmd}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProtocol, err)
		}
		env.Payload = raw
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProtocol, err)
	}
	return data, nil
}

// Parses a JSON envelope, returning the envelope and its raw payload.
func Decode(data []byte) (Envelope, json.RawMessage, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, nil, fmt.Errorf("%w: %w", ErrProtocol, err)
	}
	if env.Command == "" {
		return Envelope{}, nil, fmt.Errorf("%w: missing command", ErrProtocol)
	}
	return env, env.Payload, nil
}

// Parses a raw payload into a typed request or result.
func DecodePayload[T any](raw json.RawMessage) (*T, error) {
	var v T
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: missing payload", ErrProtocol)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProtocol, err)
	}
	return &v, nil
}

// Asks the daemon to build an image.
type BuildRequest struct {
	Recipe    *recipe.Recipe `json:"recipe"`
	Context   string         `json:"context"`
	Output    string         `json:"output"`
	Platforms []string       `json:"platforms,omitempty"`
}

// Reports where a finished build wrote its archive.
type BuildResult struct {
	Output string `json:"output"`
}

// Asks the daemon to launch a container from a built archive.
//
// Args, when non-empty, overrides the image's default arguments while
// keeping its entrypoint.
type RunRequest struct {
	Archive string   `json:"archive"`
	Args    []string `json:"args,omitempty"`
}

// Reports the exit code of a launched container.
type RunResult struct {
	ExitCode int `json:"exit_code"`
}

// Reports daemon status.
type StatusResult struct {
	Running bool   `json:"running"`
	Version string `json:"version"`
	Pid     int    `json:"pid"`
	Uptime  string `json:"uptime"`
	Builds  int    `json:"builds"`
}

// Carries an error message back to the client.
type ErrorResult struct {
	Message string `json:"message"`
}
