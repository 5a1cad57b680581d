package build

import "errors"

var (
	ErrBuild               = errors.New("build failed")
	ErrManifestNotFound    = errors.New("dependency manifest not found")
	ErrCommandFailed       = errors.New("command failed")
	ErrCopy                = errors.New("copy failed")
	ErrFileSystemOperation = errors.New("file system operation failed")
)
