package platform

import (
	"os"
	"runtime"
)

// Chmod sets permission bits. Windows has no Unix mode bits, so it does
// nothing there.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// ReadableMode returns perm with owner read/write and group/other read added.
// Archive entries packed with 0000 or group-only modes still need to be
// loadable by the user who extracted them. Execute bits pass through.
func ReadableMode(perm os.FileMode) os.FileMode {
	return perm.Perm() | 0644
}
