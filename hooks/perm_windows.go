//go:build windows

package hooks

import "os"

// Windows access control is inherited from the service directory, there is no
// execute bit to set on the compiled script.
func setPermissions(string, os.FileMode) error {
	return nil
}
