//go:build !windows

package hooks

import "os"

func setPermissions(path string, mode os.FileMode) error {
	return os.Chmod(path, mode)
}
