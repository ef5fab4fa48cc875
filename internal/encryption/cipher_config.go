package encryption

import (
	"crypto/aes"
	"fmt"
	"strings"
)

// CipherConfig describes a block cipher configuration in CBC mode.
// Values are immutable and passed by value.
type CipherConfig struct {
	// Name is the canonical algorithm name, e.g. "aes-256-cbc".
	Name string

	// IVLength is the length of the initialization vector (and salt) in bytes.
	IVLength int

	// KeyLength is the length of the derived key in bytes.
	KeyLength int
}

//nolint:gochecknoglobals
var (
	// AES256CBC is AES with a 256-bit key in CBC mode.
	AES256CBC = CipherConfig{Name: "aes-256-cbc", IVLength: aes.BlockSize, KeyLength: 32}
	// AES128CBC is AES with a 128-bit key in CBC mode.
	AES128CBC = CipherConfig{Name: "aes-128-cbc", IVLength: aes.BlockSize, KeyLength: 16}
)

// Ciphers lists the supported configurations.
func Ciphers() []CipherConfig {
	return []CipherConfig{AES256CBC, AES128CBC}
}

// LookupCipher returns the configuration registered under name (case-insensitive).
func LookupCipher(name string) (CipherConfig, error) {
	for _, c := range Ciphers() {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}

	return CipherConfig{}, fmt.Errorf("%w: unsupported cipher %q", ErrCipherInit, name)
}

// String returns the cipher name.
func (c CipherConfig) String() string {
	return c.Name
}

// validate checks that the configuration can drive AES-CBC.
func (c CipherConfig) validate() error {
	switch c.KeyLength {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: %s: key length %d", ErrCipherInit, c.Name, c.KeyLength)
	}

	if c.IVLength != aes.BlockSize {
		return fmt.Errorf("%w: %s: iv length %d, block size is %d", ErrCipherInit, c.Name, c.IVLength, aes.BlockSize)
	}

	return nil
}
