package encryption

import (
	"encoding/base64"
	"fmt"
)

// Artifact is the text form of an encrypted payload: the IV followed by the
// base64 ciphertext, with no separator.
type Artifact []byte

// frame concatenates the IV text and the encoded ciphertext.
func frame(iv, ciphertext []byte) Artifact {
	encoding := base64.StdEncoding

	artifact := make(Artifact, len(iv)+encoding.EncodedLen(len(ciphertext)))
	copy(artifact, iv)
	encoding.Encode(artifact[len(iv):], ciphertext)

	return artifact
}

// split separates an artifact at the fixed IV offset and decodes the ciphertext.
func split(artifact Artifact, ivLength int) (iv, ciphertext []byte, err error) {
	if len(artifact) < ivLength {
		return nil, nil, fmt.Errorf("%w: %d bytes, shorter than iv length %d", ErrMalformedArtifact, len(artifact), ivLength)
	}

	iv = artifact[:ivLength]

	ciphertext, err = base64.StdEncoding.Strict().DecodeString(string(artifact[ivLength:]))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decoding ciphertext: %w", ErrMalformedArtifact, err)
	}

	return iv, ciphertext, nil
}
