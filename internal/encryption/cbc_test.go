package encryption_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/gopbe/internal/encryption"
)

const testIterations = 1000

func newPipeline(t *testing.T, cfg encryption.CipherConfig) *encryption.Pipeline {
	t.Helper()

	pipeline, err := encryption.NewPipeline(cfg,
		encryption.WithDeriver(encryption.NewKeyDeriver(cfg, encryption.WithIterations(testIterations))))
	require.NoError(t, err)

	return pipeline
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()

	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)

	return b
}

func TestPipeline_RoundTrip(t *testing.T) {
	t.Parallel()

	payloads := map[string][]byte{
		"empty":           {},
		"single byte":     []byte("x"),
		"one block":       bytes.Repeat([]byte("a"), 16),
		"block plus one":  bytes.Repeat([]byte("b"), 17),
		"json":            []byte(`{"a":1}`),
		"unicode":         []byte("пароль · 密码 · 🔑"),
		"binary":          {0x00, 0xff, 0x10, 0x10, 0x80, 0x00},
		"ends in padding": append([]byte("data"), bytes.Repeat([]byte{0x0c}, 12)...),
	}

	for _, cfg := range encryption.Ciphers() {
		t.Run(cfg.Name, func(t *testing.T) {
			t.Parallel()

			pipeline := newPipeline(t, cfg)

			for name, plaintext := range payloads {
				t.Run(name, func(t *testing.T) {
					t.Parallel()

					sealed, err := pipeline.Encrypt([]byte("a test password"), plaintext)
					require.NoError(t, err)
					assert.Len(t, sealed.Key, cfg.KeyLength)

					got, err := pipeline.Decrypt(sealed.Key, sealed.Artifact)
					require.NoError(t, err)
					assert.Equal(t, plaintext, append([]byte{}, got...))
				})
			}
		})
	}
}

func TestPipeline_RoundTripRandomPayloads(t *testing.T) {
	t.Parallel()

	pipeline := newPipeline(t, encryption.AES256CBC)

	for size := range 70 {
		plaintext := randomBytes(t, size)

		sealed, err := pipeline.Encrypt(randomBytes(t, 12), plaintext)
		require.NoError(t, err)

		got, err := pipeline.Decrypt(sealed.Key, sealed.Artifact)
		require.NoError(t, err, "size %d", size)
		assert.True(t, bytes.Equal(plaintext, got), "size %d", size)
	}
}

func TestPipeline_ArtifactFraming(t *testing.T) {
	t.Parallel()

	pipeline := newPipeline(t, encryption.AES256CBC)
	key := encryption.DerivedKey(randomBytes(t, encryption.AES256CBC.KeyLength))

	for _, size := range []int{0, 1, 15, 16, 31, 32, 100, 4096} {
		artifact, err := pipeline.EncryptWithKey(key, bytes.Repeat([]byte("z"), size))
		require.NoError(t, err)

		iv := artifact[:encryption.AES256CBC.IVLength]
		for _, c := range iv {
			assert.Contains(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/", string(c))
		}

		// PKCS#7 always adds at least one byte, base64 encodes 3 bytes in 4 characters.
		blocks := size/16 + 1
		assert.Len(t, artifact, encryption.AES256CBC.IVLength+(blocks*16+2)/3*4, "size %d", size)
	}
}

func TestPipeline_FreshIVPerCall(t *testing.T) {
	t.Parallel()

	pipeline := newPipeline(t, encryption.AES256CBC)
	key := encryption.DerivedKey(randomBytes(t, encryption.AES256CBC.KeyLength))
	plaintext := []byte("same plaintext every time")

	first, err := pipeline.EncryptWithKey(key, plaintext)
	require.NoError(t, err)

	second, err := pipeline.EncryptWithKey(key, plaintext)
	require.NoError(t, err)

	ivLength := encryption.AES256CBC.IVLength

	assert.NotEqual(t, first[:ivLength], second[:ivLength])
	assert.NotEqual(t, first[ivLength:], second[ivLength:])
}

func TestPipeline_SaltAndIVAreIndependent(t *testing.T) {
	t.Parallel()

	// Both sources yield the same bytes; independent calls must still consume separate draws.
	source := bytes.NewReader(bytes.Repeat(randomBytes(t, 12), 2))

	cfg := encryption.AES256CBC
	pipeline, err := encryption.NewPipeline(cfg,
		encryption.WithIVSource(source),
		encryption.WithDeriver(encryption.NewKeyDeriver(cfg,
			encryption.WithIterations(testIterations),
			encryption.WithSaltSource(source))))
	require.NoError(t, err)

	sealed, err := pipeline.Encrypt([]byte("password"), []byte("payload"))
	require.NoError(t, err)

	assert.Equal(t, 0, source.Len(), "salt and IV must each consume their own random bytes")

	got, err := pipeline.Decrypt(sealed.Key, sealed.Artifact)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestPipeline_Tamper(t *testing.T) {
	t.Parallel()

	pipeline := newPipeline(t, encryption.AES256CBC)
	ivLength := encryption.AES256CBC.IVLength

	for _, plaintext := range []string{`{"a":1}`, "a payload spanning more than two cipher blocks"} {
		sealed, err := pipeline.Encrypt([]byte("correct horse battery staple"), []byte(plaintext))
		require.NoError(t, err)

		tampered := append(encryption.Artifact{}, sealed.Artifact...)
		if tampered[ivLength] == 'A' {
			tampered[ivLength] = 'B'
		} else {
			tampered[ivLength] = 'A'
		}

		got, err := pipeline.Decrypt(sealed.Key, tampered)
		if err != nil {
			assert.ErrorIs(t, err, encryption.ErrDecryption)

			continue
		}

		assert.NotEqual(t, plaintext, string(got), "tampering must be observable")
	}
}

func TestPipeline_TamperedIVChangesFirstBlock(t *testing.T) {
	t.Parallel()

	pipeline := newPipeline(t, encryption.AES256CBC)
	plaintext := []byte("0123456789abcdef and some more")

	sealed, err := pipeline.Encrypt([]byte("pw"), plaintext)
	require.NoError(t, err)

	tampered := append(encryption.Artifact{}, sealed.Artifact...)
	tampered[0] ^= 0x01

	got, err := pipeline.Decrypt(sealed.Key, tampered)
	require.NoError(t, err, "the IV only feeds the first block, padding stays intact")
	assert.NotEqual(t, plaintext[:16], got[:16])
	assert.Equal(t, plaintext[16:], got[16:])
}

func TestPipeline_WrongPassword(t *testing.T) {
	t.Parallel()

	pipeline := newPipeline(t, encryption.AES256CBC)
	plaintext := []byte(`{"a":1}`)

	const trials = 8

	var detected int

	for range trials {
		sealed, err := pipeline.Encrypt([]byte("password A"), plaintext)
		require.NoError(t, err)

		wrongKey, err := pipeline.Deriver().DeriveKey([]byte("password B"))
		require.NoError(t, err)

		got, err := pipeline.Decrypt(wrongKey, sealed.Artifact)
		if err != nil {
			require.ErrorIs(t, err, encryption.ErrDecryption)

			detected++

			continue
		}

		// A random block passes PKCS#7 validation about once in 256 attempts.
		assert.NotEqual(t, plaintext, got)
	}

	assert.Positive(t, detected, "a wrong key must be reported as a decryption error")
}

func TestPipeline_DecryptErrors(t *testing.T) {
	t.Parallel()

	pipeline := newPipeline(t, encryption.AES256CBC)
	key := encryption.DerivedKey(randomBytes(t, 32))

	valid, err := pipeline.EncryptWithKey(key, []byte("hello"))
	require.NoError(t, err)

	iv := string(valid[:16])

	tests := []struct {
		name     string
		key      encryption.DerivedKey
		artifact encryption.Artifact
		want     error
	}{
		{name: "empty artifact", key: key, artifact: nil, want: encryption.ErrMalformedArtifact},
		{name: "shorter than iv", key: key, artifact: encryption.Artifact("abc"), want: encryption.ErrMalformedArtifact},
		{name: "invalid base64", key: key, artifact: encryption.Artifact(iv + "!!!!"), want: encryption.ErrMalformedArtifact},
		{name: "iv only", key: key, artifact: encryption.Artifact(iv), want: encryption.ErrDecryption},
		{name: "partial block", key: key, artifact: encryption.Artifact(iv + "AAAA"), want: encryption.ErrDecryption},
		{name: "empty key", key: nil, artifact: valid, want: encryption.ErrMalformedArtifact},
		{name: "short key", key: key[:16], artifact: valid, want: encryption.ErrCipherInit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := pipeline.Decrypt(tt.key, tt.artifact)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPipeline_EncryptErrors(t *testing.T) {
	t.Parallel()

	t.Run("key length mismatch", func(t *testing.T) {
		t.Parallel()

		pipeline := newPipeline(t, encryption.AES256CBC)

		_, err := pipeline.EncryptWithKey(randomBytes(t, 16), []byte("x"))
		assert.ErrorIs(t, err, encryption.ErrCipherInit)
	})

	t.Run("invalid configuration", func(t *testing.T) {
		t.Parallel()

		_, err := encryption.NewPipeline(encryption.CipherConfig{Name: "aes-20-cbc", IVLength: 16, KeyLength: 20})
		assert.ErrorIs(t, err, encryption.ErrCipherInit)

		_, err = encryption.NewPipeline(encryption.CipherConfig{Name: "aes-256-cbc-short-iv", IVLength: 8, KeyLength: 32})
		assert.ErrorIs(t, err, encryption.ErrCipherInit)
	})

	t.Run("derivation failure propagates", func(t *testing.T) {
		t.Parallel()

		cfg := encryption.AES256CBC
		pipeline, err := encryption.NewPipeline(cfg,
			encryption.WithDeriver(encryption.NewKeyDeriver(cfg, encryption.WithHash("MD4"))))
		require.NoError(t, err)

		_, err = pipeline.Encrypt([]byte("pw"), []byte("x"))
		assert.ErrorIs(t, err, encryption.ErrDerivation)
	})

	t.Run("iv source failure", func(t *testing.T) {
		t.Parallel()

		pipeline, err := encryption.NewPipeline(encryption.AES256CBC, encryption.WithIVSource(failingReader{}))
		require.NoError(t, err)

		_, err = pipeline.EncryptWithKey(randomBytes(t, 32), []byte("x"))
		assert.ErrorIs(t, err, errEntropy)
	})
}

func TestPipeline_CrossConfigurationKeyRejected(t *testing.T) {
	t.Parallel()

	aes128 := newPipeline(t, encryption.AES128CBC)
	aes256 := newPipeline(t, encryption.AES256CBC)

	sealed, err := aes128.Encrypt([]byte("pw"), []byte("payload"))
	require.NoError(t, err)

	_, err = aes256.Decrypt(sealed.Key, sealed.Artifact)
	assert.ErrorIs(t, err, encryption.ErrCipherInit)
}

var errEntropy = errors.New("entropy exhausted")

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errEntropy
}
