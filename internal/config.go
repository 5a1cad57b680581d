package internal

import (
	"strconv"
	"sync/atomic"
)

// Output modes for the ofbuild process. Seeded from the raw linker-flag
// strings at startup; the CLI layer overrides them once flags are parsed,
// and the daemon reports the effective level from then on.
var (
	quietMode   atomic.Bool
	debugMode   atomic.Bool
	verboseMode atomic.Bool
)

func init() {
	quietMode.Store(parseMode(rawQuiet))
	debugMode.Store(parseMode(rawDebug))
	verboseMode.Store(parseMode(rawVerbose))
}

// Interprets a raw linker-flag value. Unset or unparsable means off.
func parseMode(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}

// Persists the -q flag. Quiet mode suppresses informational output.
func SetQuiet(enabled bool) {
	quietMode.Store(enabled)
}

// Returns true if quiet mode is enabled.
func IsQuiet() bool {
	return quietMode.Load()
}

// Persists the -d flag. Debug mode enables debug-level logging.
func SetDebug(enabled bool) {
	debugMode.Store(enabled)
}

// Returns true if debug mode is enabled.
func IsDebug() bool {
	return debugMode.Load()
}

// Persists the -v flag. Verbose mode adds timestamps to log output.
func SetVerbose(enabled bool) {
	verboseMode.Store(enabled)
}

// Returns true if verbose mode is enabled.
func IsVerbose() bool {
	return verboseMode.Load()
}
