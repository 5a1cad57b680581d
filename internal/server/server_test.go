package server

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/ofensivaria/ofbuild/internal/protocol"
)

func TestContextWithDisconnect(t *testing.T) {
	r, w := io.Pipe()

	ctx, cancel := contextWithDisconnect(context.Background(), r)
	defer cancel()

	select {
	case <-ctx.Done():
		t.Fatal("context cancelled while the connection is still open")
	case <-time.After(20 * time.Millisecond):
	}

	w.Close()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled after the peer closed the connection")
	}
}

// A build request without a recipe must come back as an error envelope,
// not take down the connection handler.
func TestHandleBuildWithoutRecipe(t *testing.T) {
	client, srvConn := net.Pipe()
	defer client.Close()

	s := &Server{}
	go s.handle(srvConn)

	request := `{"command":"build","payload":{"context":"/tmp","output":"/tmp/out"}}` + "\n"
	if _, err := client.Write([]byte(request)); err != nil {
		t.Fatal(err)
	}

	line, err := bufio.NewReader(client).ReadBytes('\n')
	if err != nil {
		t.Fatalf("no response from handler: %v", err)
	}

	env, payload, err := protocol.Decode(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Command != protocol.CmdError {
		t.Fatalf("command = %q, want error", env.Command)
	}

	result, err := protocol.DecodePayload[protocol.ErrorResult](payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message == "" {
		t.Fatal("error envelope has no message")
	}
}

func TestRespondFraming(t *testing.T) {
	client, srvConn := net.Pipe()
	defer client.Close()

	s := &Server{}

	go func() {
		defer srvConn.Close()
		s.respond(srvConn, protocol.CmdOK, &protocol.RunResult{ExitCode: 7})
	}()

	data, err := io.ReadAll(client)
	if err != nil {
		t.Fatal(err)
	}

	line := string(data)
	if !strings.HasSuffix(line, "\n") {
		t.Fatalf("response %q is not newline-terminated", line)
	}

	env, payload, err := protocol.Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Command != protocol.CmdOK {
		t.Fatalf("command = %q, want ok", env.Command)
	}

	result, err := protocol.DecodePayload[protocol.RunResult](payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExitCode != 7 {
		t.Fatalf("exit code = %d, want 7", result.ExitCode)
	}
}
