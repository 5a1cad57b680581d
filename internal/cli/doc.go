// Parses flags and dispatches the ofbuild commands.
//
// The tool accepts the following commands:
//
//	build     Build the service image from a recipe.
//	run       Launch a container from a built archive.
//	inspect   Print the launch metadata of a built archive.
//	serve     Run the build daemon on a Unix socket.
//	version   Show version information.
//
// Global flags (-q, -v, -d) override build-time defaults set via linker
// flags. After parsing, the global logger is reconfigured to reflect the
// final level before any command runs.
package cli
