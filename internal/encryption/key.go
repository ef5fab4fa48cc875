package encryption

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/idelchi/gogen/pkg/key"
)

// DerivedKey is raw symmetric key material.
type DerivedKey []byte

// Hex returns the key-file encoding of the key.
func (k DerivedKey) Hex() string {
	return hex.EncodeToString(k)
}

// String hides the key material from accidental formatting.
func (k DerivedKey) String() string {
	return fmt.Sprintf("DerivedKey(%d bytes)", len(k))
}

// ParseKey decodes the contents of a key file.
// Surrounding whitespace is ignored.
func ParseKey(text string) (DerivedKey, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: key file is empty", ErrMalformedArtifact)
	}

	raw, err := key.FromHex(text)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding key: %w", ErrMalformedArtifact, err)
	}

	return DerivedKey(raw), nil
}
