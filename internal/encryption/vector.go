package encryption

import (
	"encoding/base64"
	"fmt"
	"io"
)

// newInitVector draws random bytes from r and renders them in the base64
// alphabet, truncated to exactly length characters. The characters are the
// vector itself, so its text form is always length characters long.
// The same routine produces key-derivation salts; every call is independent.
func newInitVector(r io.Reader, length int) ([]byte, error) {
	const (
		bitsPerByte = 8
		bitsPerChar = 6
	)

	raw := make([]byte, (length*bitsPerChar+bitsPerByte-1)/bitsPerByte)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("reading random bytes: %w", err)
	}

	encoded := base64.RawStdEncoding.EncodeToString(raw)

	return []byte(encoded[:length]), nil
}
