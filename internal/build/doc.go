// Package build executes a recipe plan against the container runtime.
//
// A build expands the recipe into its two stages and runs them in order.
// The dependency stage copies the manifest into the image and runs the
// package installer; its result depends only on the base image, the
// manifest contents, and the platform, so it can be served from the layer
// cache. The source stage copies the application tree, selects the working
// directory, and (for the installed-module launch mode) installs the
// application package. The final container is committed and exported as an
// OCI archive carrying the launch metadata: entrypoint, default arguments,
// exposed port, and volume.
//
// All failures are fatal to the build. There are no retries and no partial
// images: an export that fails removes its output file.
//
// Example usage:
//
//	result, err := build.Run(ctx, rt, build.Options{
//	    Recipe:  rec,
//	    Context: ".",
//	    Output:  "dist",
//	    Cache:   cache.New(paths.ImageCache()),
//	})
//	if err != nil {
//	    return err
//	}
package build
