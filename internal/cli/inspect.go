package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ofensivaria/ofbuild/internal/inspect"
)

// Represents the 'ofbuild inspect' command.
type InspectCmd struct {
	Archive string `arg:"" type:"existingfile" help:"Built OCI archive to inspect."`
}

// Executes the inspect command.
//
// Prints the launch metadata configured on the archive's image.
func (c *InspectCmd) Run(ctx context.Context) error {
	report, err := inspect.Archive(c.Archive)
	if err != nil {
		return err
	}

	fmt.Printf("platform:    %s\n", report.Platform)
	fmt.Printf("entrypoint:  %s\n", strings.Join(report.Entrypoint, " "))
	fmt.Printf("cmd:         %s\n", strings.Join(report.Cmd, " "))
	fmt.Printf("workdir:     %s\n", report.WorkingDir)
	fmt.Printf("ports:       %s\n", strings.Join(report.ExposedPorts, ", "))
	fmt.Printf("volumes:     %s\n", strings.Join(report.Volumes, ", "))

	return nil
}
