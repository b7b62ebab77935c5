package hooks

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/allegro/lifecycle-executor/checksum"
)

// WriteHook writes content to the compiled hook script at path only when the
// content differs from what is already on disk. It reports whether the file
// was written. This is the sole gate deciding whether permissions are
// re-hardened and a content change is announced.
func WriteHook(content, path string) (bool, error) {
	contentHash := checksum.Bytes([]byte(content))
	existingHash, err := hashFile(path)
	if err != nil {
		return false, err
	}
	if contentHash == existingHash {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, errors.Wrapf(err, "unable to create hook directory for %s", path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, errors.Wrapf(err, "unable to write hook %s", path)
	}
	return true, nil
}

// hashFile digests the file at path. An absent file hashes like empty
// content so that writing a non-empty hook for the first time always counts
// as a change.
func hashFile(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return checksum.Bytes(nil), nil
	}
	return checksum.File(path)
}
