package credentials

import (
	"crypto/rand"
	"encoding/hex"

	goerrors "github.com/goliatone/go-errors"
)

// RandomHex returns 2*nBytes hex characters sourced from crypto/rand.
// Every token secret in this package flows through here; swapping in a
// non-cryptographic source would break the security model.
func RandomHex(nBytes int) (string, error) {
	if nBytes <= 0 {
		return "", goerrors.New("random byte count must be positive", goerrors.CategoryBadInput)
	}

	buf := make([]byte, nBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read from secure random source")
	}

	return hex.EncodeToString(buf), nil
}
