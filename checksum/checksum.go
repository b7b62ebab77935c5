// Package checksum provides stable content digests used to detect changes in
// compiled hook scripts.
package checksum

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// Bytes returns a lowercase hex encoded BLAKE2b-256 digest of data.
func Bytes(data []byte) string {
	digest := blake2b.Sum256(data)
	return hex.EncodeToString(digest[:])
}

// File returns a lowercase hex encoded BLAKE2b-256 digest of the content of
// the file at path.
func File(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "unable to open %s for hashing", path)
	}
	defer file.Close()

	hash, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(hash, file); err != nil {
		return "", errors.Wrapf(err, "unable to hash %s", path)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
