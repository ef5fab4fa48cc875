package encryption

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/tink-crypto/tink-go/v2/subtle"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 iteration count.
	DefaultIterations = 500_000
	// DefaultHash is the PBKDF2 pseudorandom function.
	DefaultHash = "SHA512"
)

// KeyDeriver stretches passwords into keys for a cipher configuration.
// It holds no mutable state and is safe for concurrent use.
type KeyDeriver struct {
	cipher     CipherConfig
	iterations int
	hash       string
	random     io.Reader
}

// DeriverOption configures a KeyDeriver.
type DeriverOption func(*KeyDeriver)

// WithIterations overrides the PBKDF2 iteration count.
func WithIterations(iterations int) DeriverOption {
	return func(d *KeyDeriver) {
		d.iterations = iterations
	}
}

// WithHash selects the PBKDF2 hash by name ("SHA256", "SHA512", ...).
func WithHash(name string) DeriverOption {
	return func(d *KeyDeriver) {
		d.hash = name
	}
}

// WithSaltSource sets the randomness source for salts.
func WithSaltSource(r io.Reader) DeriverOption {
	return func(d *KeyDeriver) {
		d.random = r
	}
}

// NewKeyDeriver creates a KeyDeriver producing keys of cfg.KeyLength bytes.
func NewKeyDeriver(cfg CipherConfig, opts ...DeriverOption) *KeyDeriver {
	deriver := &KeyDeriver{
		cipher:     cfg,
		iterations: DefaultIterations,
		hash:       DefaultHash,
		random:     rand.Reader,
	}

	for _, opt := range opts {
		opt(deriver)
	}

	return deriver
}

// Iterations returns the configured iteration count.
func (d *KeyDeriver) Iterations() int {
	return d.iterations
}

// DeriveKey derives a key from password using a freshly generated salt.
// The salt is discarded, so the key must be persisted by the caller.
func (d *KeyDeriver) DeriveKey(password []byte) (DerivedKey, error) {
	salt, err := newInitVector(d.random, d.cipher.IVLength)
	if err != nil {
		return nil, fmt.Errorf("%w: generating salt: %w", ErrDerivation, err)
	}

	return d.DeriveKeyWithSalt(password, salt)
}

// DeriveKeyWithSalt derives a key from password and salt.
// The result is deterministic for a given (password, salt) pair.
func (d *KeyDeriver) DeriveKeyWithSalt(password, salt []byte) (DerivedKey, error) {
	if d.iterations < 1 {
		return nil, fmt.Errorf("%w: iteration count must be positive, got %d", ErrDerivation, d.iterations)
	}

	if d.cipher.KeyLength < 1 {
		return nil, fmt.Errorf("%w: key length must be positive, got %d", ErrDerivation, d.cipher.KeyLength)
	}

	hashFunc := subtle.GetHashFunc(d.hash)
	if hashFunc == nil {
		return nil, fmt.Errorf("%w: unsupported hash %q", ErrDerivation, d.hash)
	}

	return pbkdf2.Key(password, salt, d.iterations, d.cipher.KeyLength, hashFunc), nil
}
