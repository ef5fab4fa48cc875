// Package logic implements the core business logic for the encryption/decryption.
package logic

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/gopbe/internal/config"
	"github.com/idelchi/gopbe/internal/encryption"
	"github.com/idelchi/gopbe/internal/fileutil"
)

// Run is the main logic of the application.
func Run(cfg *config.Config) error {
	return RunWithStore(cfg, fileutil.NewOsStore())
}

// RunWithStore processes the configured files on store.
func RunWithStore(cfg *config.Config, store *fileutil.Store) error {
	start := time.Now()

	proc, err := encryption.NewProcessor(cfg, store)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	processed, errored, totalSize, err := proc.ProcessFiles()

	if cfg.Stats {
		printStats(os.Stderr, len(cfg.Files), processed, errored, totalSize, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("running logic: %w", err)
	}

	return nil
}

// Derive writes a key derived from cfg.Password to w, hex-encoded.
// With an empty cfg.Salt a random one is used and the key cannot be reproduced.
func Derive(w io.Writer, cfg *config.Config) error {
	cipherConfig, err := encryption.LookupCipher(cfg.Cipher)
	if err != nil {
		return err
	}

	deriver := encryption.NewKeyDeriver(cipherConfig, encryption.WithIterations(cfg.Iterations))

	var key encryption.DerivedKey

	if cfg.Salt == "" {
		key, err = deriver.DeriveKey([]byte(cfg.Password))
	} else {
		key, err = deriver.DeriveKeyWithSalt([]byte(cfg.Password), []byte(cfg.Salt))
	}

	if err != nil {
		return fmt.Errorf("deriving key: %w", err)
	}

	if _, err := fmt.Fprintln(w, key.Hex()); err != nil {
		return fmt.Errorf("writing key: %w", err)
	}

	return nil
}

func printStats(w io.Writer, files, processed, errored int, totalSize int64, duration time.Duration) {
	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Files:     %d\n", files)
	fmt.Fprintf(w, "  Processed: %d\n", processed)
	fmt.Fprintf(w, "  Errors:    %d\n", errored)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(w, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totalSize))))
	fmt.Fprintf(w, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
