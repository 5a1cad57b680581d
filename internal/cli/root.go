package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/ofensivaria/ofbuild/internal"
	"github.com/ofensivaria/ofbuild/internal/server"
)

// Represents the root command for the ofbuild tool.
var RootCmd struct {
	Quiet   bool       `short:"q" help:"Suppress informational output."`
	Verbose bool       `short:"v" help:"Enable verbose output."`
	Debug   bool       `short:"d" help:"Enable debug output."`
	Build   BuildCmd   `cmd:"" help:"Build the service image from a recipe."`
	Run     RunCmd     `cmd:"" help:"Launch a container from a built archive."`
	Inspect InspectCmd `cmd:"" help:"Print the launch metadata of a built archive."`
	Serve   ServeCmd   `cmd:"" help:"Run the build daemon on a Unix socket."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Builds and launches the ofensivaria service image."),
		kong.UsageOnError(),
		kong.Vars{
			"version":              internal.VersionString(),
			"containerd_address":   server.DefaultContainerdAddress,
			"containerd_namespace": server.DefaultContainerdNamespace,
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Reconfigures the global logger based on CLI flags.
//
// Flags win over the build-time linker-flag defaults. The effective modes
// are persisted so code that consults internal.Is* after flag parsing (the
// daemon status handler, startup logging) sees the same state the logger
// was built from.
func configureLogger() {
	if RootCmd.Quiet {
		internal.SetQuiet(true)
	}
	if RootCmd.Debug {
		internal.SetDebug(true)
	}
	if RootCmd.Verbose {
		internal.SetVerbose(true)
	}

	level := log.InfoLevel
	if internal.IsDebug() {
		level = log.DebugLevel
	} else if internal.IsQuiet() {
		level = log.WarnLevel
	}

	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: internal.IsVerbose(),
		Prefix:          internal.Name,
	})

	slog.SetDefault(slog.New(handler))
}

// Carries a container exit code out of a run command.
//
// The launch contract is to propagate the container process's exit status,
// so a non-zero code must reach the process exit path rather than being
// flattened into a generic failure.
type exitCodeError struct {
	code int
}

func (e exitCodeError) Error() string {
	return "exit status " + strconv.Itoa(e.code)
}

// Returns the process exit code for an error returned by [Execute].
//
// A nil error maps to 0, an [exitCodeError] to its embedded code, and
// anything else to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr exitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return 1
}
