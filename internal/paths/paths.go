package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "ofbuild"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory for runtime files (sockets, PIDs).
//
//	Linux:   $XDG_RUNTIME_DIR/ofbuild or /run/user/<uid>/ofbuild
//	macOS:   ~/Library/Caches/ofbuild/run
func Runtime() string {
	if xdg.RuntimeDir != "" {
		return filepath.Join(xdg.RuntimeDir, toolName)
	}
	return filepath.Join(xdg.CacheHome, toolName, "run")
}

// Default path to the Unix domain socket for CLI-to-daemon communication.
//
//	Linux:   $XDG_RUNTIME_DIR/ofbuild/ofbuild.sock
//	macOS:   ~/Library/Caches/ofbuild/run/ofbuild.sock
func Socket() string {
	return filepath.Join(Runtime(), toolName+".sock")
}

// Default path to the PID file.
func PIDFile() string {
	return filepath.Join(Runtime(), toolName+".pid")
}

// Path to the dependency-layer cache directory.
//
// Exported dependency-stage archives are stored here, keyed by content
// digest. Safe to delete at any time; the next build repopulates it.
//
//	Linux:   ~/.cache/ofbuild/layers
//	macOS:   ~/Library/Caches/ofbuild/layers
func ImageCache() string {
	return filepath.Join(xdg.CacheHome, toolName, "layers")
}
