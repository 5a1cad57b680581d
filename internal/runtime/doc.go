// Package runtime manages build and launch containers backed by containerd.
//
// A [Runtime] connects to a containerd daemon and starts containers either
// from OCI archives on disk or from image references already present in the
// namespace. Build containers run a long-lived placeholder task so that
// build steps can be dispatched as execs; files move in and out as tar
// streams. The final filesystem state is committed as a new layer and
// exported as an OCI archive together with the image configuration metadata
// (entrypoint, default arguments, exposed ports, volumes, working
// directory).
//
// Launch containers created by [Runtime.RunArchive] run the image's
// configured entrypoint instead of a placeholder, wait for it to exit, and
// report the exit code.
//
// Example usage:
//
//	rt, err := runtime.New("/run/containerd/containerd.sock", "ofbuild")
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	ctr, err := rt.Start(ctx, "docker.io/library/python:3.12-slim", "deps-1", "linux/amd64")
//	if err != nil {
//	    return err
//	}
//	defer ctr.Destroy(ctx)
package runtime
