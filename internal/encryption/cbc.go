package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// Sealed is the outcome of encrypting with a password.
// Key must be persisted before Artifact is discarded; it cannot be recomputed.
type Sealed struct {
	Key      DerivedKey
	Artifact Artifact
}

// Pipeline encrypts and decrypts payloads with AES-CBC for one CipherConfig.
type Pipeline struct {
	cipher  CipherConfig
	deriver *KeyDeriver
	random  io.Reader
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDeriver replaces the default KeyDeriver.
func WithDeriver(deriver *KeyDeriver) Option {
	return func(p *Pipeline) {
		p.deriver = deriver
	}
}

// WithIVSource sets the randomness source for initialization vectors.
func WithIVSource(r io.Reader) Option {
	return func(p *Pipeline) {
		p.random = r
	}
}

// NewPipeline creates a Pipeline for cfg.
func NewPipeline(cfg CipherConfig, opts ...Option) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	pipeline := &Pipeline{
		cipher: cfg,
		random: rand.Reader,
	}

	for _, opt := range opts {
		opt(pipeline)
	}

	if pipeline.deriver == nil {
		pipeline.deriver = NewKeyDeriver(cfg)
	}

	return pipeline, nil
}

// Cipher returns the pipeline's configuration.
func (p *Pipeline) Cipher() CipherConfig {
	return p.cipher
}

// Deriver returns the pipeline's KeyDeriver.
func (p *Pipeline) Deriver() *KeyDeriver {
	return p.deriver
}

// Encrypt derives a new key from password and encrypts plaintext with it.
func (p *Pipeline) Encrypt(password, plaintext []byte) (Sealed, error) {
	key, err := p.deriver.DeriveKey(password)
	if err != nil {
		return Sealed{}, err
	}

	artifact, err := p.EncryptWithKey(key, plaintext)
	if err != nil {
		return Sealed{}, err
	}

	return Sealed{Key: key, Artifact: artifact}, nil
}

// EncryptWithKey encrypts plaintext under key with a fresh IV.
func (p *Pipeline) EncryptWithKey(key DerivedKey, plaintext []byte) (Artifact, error) {
	block, err := p.newBlock(key)
	if err != nil {
		return nil, err
	}

	iv, err := newInitVector(p.random, p.cipher.IVLength)
	if err != nil {
		return nil, fmt.Errorf("generating IV: %w", err)
	}

	if len(iv) != block.BlockSize() {
		return nil, fmt.Errorf("%w: iv length %d, block size %d", ErrCipherInit, len(iv), block.BlockSize())
	}

	padded := pkcs7Pad(plaintext, block.BlockSize())
	ciphertext := make([]byte, len(padded))

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return frame(iv, ciphertext), nil
}

// Decrypt reverses EncryptWithKey.
func (p *Pipeline) Decrypt(key DerivedKey, artifact Artifact) ([]byte, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrMalformedArtifact)
	}

	iv, ciphertext, err := split(artifact, p.cipher.IVLength)
	if err != nil {
		return nil, err
	}

	block, err := p.newBlock(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrDecryption, ErrEmptyData)
	}

	if len(ciphertext)%block.BlockSize() != 0 {
		return nil, fmt.Errorf("%w: %w", ErrDecryption, ErrInvalidBlockSize)
	}

	plaintext := make([]byte, len(ciphertext))

	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, block.BlockSize())
	if err != nil {
		return nil, fmt.Errorf("%w: removing padding: %w", ErrDecryption, err)
	}

	return unpadded, nil
}

// newBlock creates the AES block for key, enforcing the configured key length.
func (p *Pipeline) newBlock(key DerivedKey) (cipher.Block, error) {
	if len(key) != p.cipher.KeyLength {
		return nil, fmt.Errorf("%w: %s requires a %d-byte key, got %d",
			ErrCipherInit, p.cipher.Name, p.cipher.KeyLength, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: creating cipher: %w", ErrCipherInit, err)
	}

	return block, nil
}
