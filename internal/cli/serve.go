package cli

import (
	"context"
	"log/slog"

	"github.com/ofensivaria/ofbuild/internal/server"
)

// Represents the 'ofbuild serve' command.
type ServeCmd struct {
	Socket string `short:"s" help:"Override the default Unix socket path." placeholder:"PATH"`

	ContainerdAddress   string `default:"${containerd_address}" help:"Containerd socket address." placeholder:"PATH"`
	ContainerdNamespace string `default:"${containerd_namespace}" help:"Containerd namespace." placeholder:"NAME"`
}

// Executes the serve command.
//
// Starts the daemon on a Unix domain socket and blocks until the context
// is cancelled (e.g. via SIGINT or SIGTERM).
func (c *ServeCmd) Run(ctx context.Context) error {
	srv, err := server.New(server.Config{
		SocketPath:          c.Socket,
		ContainerdAddress:   c.ContainerdAddress,
		ContainerdNamespace: c.ContainerdNamespace,
	})
	if err != nil {
		return err
	}

	if err := srv.Start(); err != nil {
		return err
	}

	slog.Info("daemon is running")

	// Shutdown arrives either as a signal or as a protocol command.
	stopped := make(chan struct{})
	go func() {
		srv.Wait()
		close(stopped)
	}()

	select {
	case <-ctx.Done():
	case <-stopped:
	}

	slog.Info("shutting down")
	return srv.Stop()
}
