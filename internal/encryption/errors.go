package encryption

import "errors"

var (
	// ErrDerivation is returned when a key cannot be derived from a password.
	ErrDerivation = errors.New("key derivation failed")
	// ErrCipherInit is returned when the cipher rejects the key or IV.
	ErrCipherInit = errors.New("cipher initialization failed")
	// ErrMalformedArtifact is returned when an encrypted artifact or key cannot be parsed.
	ErrMalformedArtifact = errors.New("malformed artifact")
	// ErrDecryption is returned when ciphertext does not decrypt to validly padded data.
	// A wrong key, corrupted data and tampering all end up here.
	ErrDecryption = errors.New("decryption failed")
	// ErrKeyPathConflict is returned when the key file is also the input or output file.
	ErrKeyPathConflict = errors.New("key file conflicts with input or output file")

	// ErrEmptyData is returned when attempting to process empty input data.
	ErrEmptyData = errors.New("empty data")
	// ErrInvalidPadding is returned when PKCS7 padding is malformed.
	ErrInvalidPadding = errors.New("invalid padding")
	// ErrInvalidBlockSize is returned when encrypted data length is not aligned with AES block size.
	ErrInvalidBlockSize = errors.New("ciphertext is not a multiple of block size")
)
