package adapters

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// checksumFile computes the size and sha256 digest of a file in one
// pass.
func checksumFile(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("artifact not found").
			WithCause(err)
	}
	defer f.Close()

	digest := sha256.New()
	size, err := io.Copy(digest, f)
	if err != nil {
		return 0, "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to checksum artifact").
			WithCause(err)
	}
	return size, hex.EncodeToString(digest.Sum(nil)), nil
}
