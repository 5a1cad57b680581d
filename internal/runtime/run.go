package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"syscall"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/containerd/v2/pkg/cio"
	"github.com/containerd/containerd/v2/pkg/oci"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// Starts a container from a built OCI archive and waits for it to exit.
//
// The container runs the image's configured entrypoint and default
// arguments. A non-empty args slice overrides the default arguments while
// keeping the entrypoint, mirroring the standard container-launch override
// mechanism. Stdout and stderr of the process are streamed to the given
// writers. The exit code of the process is returned; a missing or
// unimportable entrypoint surfaces as a non-zero exit code, not an error.
//
// When ctx is cancelled the task is killed and the context error is
// returned. The container and its snapshot are removed before returning.
func (rt *Runtime) RunArchive(ctx context.Context, path, id string, args []string, stdout, stderr io.Writer) (int, error) {
	platform := DefaultPlatform()
	tag := archiveTag(path)

	source, err := rt.importArchive(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	if err := rt.tagImage(ctx, source, tag); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	if err := rt.unpackImage(ctx, tag, platform); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	image, err := rt.resolveImage(ctx, tag, platform)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	c := &Container{
		client:   rt.client,
		id:       id,
		platform: platform,
	}
	c.remove(ctx)

	ctr, err := c.createForRun(ctx, image, args)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	defer ctr.Delete(context.WithoutCancel(ctx), containerd.WithSnapshotCleanup)

	return c.runTask(ctx, ctr, stdout, stderr)
}

// Creates a launch container whose primary process is the image's
// configured entrypoint (optionally with overridden arguments).
func (c *Container) createForRun(ctx context.Context, image containerd.Image, args []string) (containerd.Container, error) {
	processOpt := oci.WithImageConfig(image)
	if len(args) > 0 {
		processOpt = oci.WithImageConfigArgs(image, args)
	}

	return c.client.NewContainer(ctx, c.id,
		containerd.WithImage(image),
		containerd.WithSnapshotter(snapshotter),
		containerd.WithNewSnapshot(c.id, image),
		containerd.WithRuntime(ociRuntime, nil),
		containerd.WithNewSpec(
			oci.WithDefaultSpecForPlatform(c.platform),
			processOpt,
			oci.WithHostNamespace(specs.NetworkNamespace),
			oci.WithHostResolvconf,
		),
	)
}

// Starts the container's primary task with attached output streams and
// blocks until it exits.
func (c *Container) runTask(ctx context.Context, ctr containerd.Container, stdout, stderr io.Writer) (int, error) {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	task, err := ctr.NewTask(ctx, cio.NewCreator(cio.WithStreams(nil, stdout, stderr)))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	defer task.Delete(context.WithoutCancel(ctx), containerd.WithProcessKill)

	statusC, err := task.Wait(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	if err := task.Start(ctx); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	slog.Debug("container running", "id", c.id)

	select {
	case <-ctx.Done():
		task.Kill(context.WithoutCancel(ctx), syscall.SIGKILL)
		<-statusC
		return 0, ctx.Err()
	case exitStatus := <-statusC:
		code, _, err := exitStatus.Result()
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
		}
		return int(code), nil
	}
}
