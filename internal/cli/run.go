package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ofensivaria/ofbuild/internal/runtime"
)

// Represents the 'ofbuild run' command.
type RunCmd struct {
	Archive string   `arg:"" type:"existingfile" help:"Built OCI archive to launch."`
	Args    []string `arg:"" optional:"" passthrough:"" help:"Override the image's default arguments."`

	ContainerdAddress   string `default:"${containerd_address}" help:"Containerd socket address." placeholder:"PATH"`
	ContainerdNamespace string `default:"${containerd_namespace}" help:"Containerd namespace." placeholder:"NAME"`
}

// Executes the run command.
//
// Launches a container from the archive with the image's configured
// entrypoint, streams its output, and exits with the container's exit code.
func (c *RunCmd) Run(ctx context.Context) error {
	rt, err := runtime.New(c.ContainerdAddress, c.ContainerdNamespace)
	if err != nil {
		return err
	}
	defer rt.Close()

	id := fmt.Sprintf("run-%d", time.Now().UnixNano())

	code, err := rt.RunArchive(ctx, c.Archive, id, c.Args, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	if code != 0 {
		return exitCodeError{code: code}
	}
	return nil
}
