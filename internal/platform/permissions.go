package platform

import (
	"io/fs"
	"os"
	"runtime"
)

// Modes used for generated output.
const (
	DirMode  fs.FileMode = 0755
	FileMode fs.FileMode = 0644
	ExecMode fs.FileMode = 0755
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode fs.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// IsExecutable reports whether any execute bit is set in mode.
func IsExecutable(mode fs.FileMode) bool {
	return mode.Perm()&0111 != 0
}

// OutputMode picks the mode a generated file is written with: ExecMode when
// the template file is executable (or is marked so by the caller), FileMode
// otherwise. Source permissions beyond that are not carried over, so
// read-only embedded files come out writable.
func OutputMode(src fs.FileMode, markedExecutable bool) fs.FileMode {
	if markedExecutable || IsExecutable(src) {
		return ExecMode
	}
	return FileMode
}
