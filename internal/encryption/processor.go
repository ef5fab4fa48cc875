package encryption

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/gopbe/internal/config"
	"github.com/idelchi/gopbe/internal/fileutil"
)

// Processor handles the encryption and decryption of files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// pipeline performs the cryptographic work
	pipeline *Pipeline

	// store reads and writes files
	store *fileutil.Store

	// password is resolved once for all files
	password []byte
}

// NewProcessor creates a new Processor with the given configuration.
// The password is resolved up front so a bad --password-file fails before any file is touched.
func NewProcessor(cfg *config.Config, store *fileutil.Store) (*Processor, error) {
	cipherConfig, err := LookupCipher(cfg.Cipher)
	if err != nil {
		return nil, err
	}

	pipeline, err := NewPipeline(cipherConfig,
		WithDeriver(NewKeyDeriver(cipherConfig, WithIterations(cfg.Iterations))))
	if err != nil {
		return nil, fmt.Errorf("creating pipeline: %w", err)
	}

	processor := &Processor{
		cfg:      cfg,
		pipeline: pipeline,
		store:    store,
	}

	if cfg.Decrypt {
		return processor, nil
	}

	switch {
	case cfg.Password != "":
		processor.password = []byte(cfg.Password)
	case cfg.PasswordFile != "":
		data, err := store.Read(cfg.PasswordFile)
		if err != nil {
			return nil, fmt.Errorf("reading password file: %w", err)
		}

		processor.password = []byte(strings.TrimRight(string(data), "\r\n"))
	}

	return processor, nil
}

// ProcessFiles concurrently processes all files specified in the configuration.
// Returns the number of successfully processed files, the number of errors
// and the total size of the outputs.
//
//nolint:cyclop
func (p *Processor) ProcessFiles() (processed, errored int, totalSize int64, err error) {
	group := errgroup.Group{}
	group.SetLimit(p.cfg.Parallel)

	results := make(chan Result, len(p.cfg.Files))
	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range results {
			if result.Error != nil {
				errored++

				color.New(color.FgRed).Fprintf(os.Stderr, "Error processing %q: %v\n", result.Input, result.Error) //nolint:errcheck

				continue
			}

			processed++

			totalSize += result.OutputSize

			if p.cfg.Quiet {
				continue
			}

			if p.cfg.Decrypt {
				fmt.Printf("Processed %q -> %q\n", result.Input, result.Output) //nolint:forbidigo
			} else {
				fmt.Printf("Processed %q -> %q (key: %q)\n", result.Input, result.Output, result.KeyFile) //nolint:forbidigo
			}
		}
	}()

	for _, file := range p.cfg.Files {
		group.Go(func() error {
			result := p.processFile(file)

			results <- result

			return result.Error
		})
	}

	err = group.Wait()

	close(results)

	<-done // Wait for printer to finish

	if err != nil {
		return processed, errored, totalSize, fmt.Errorf("processing files: %w", err)
	}

	return processed, errored, totalSize, nil
}

// processFile encrypts or decrypts one file according to the configuration.
func (p *Processor) processFile(file string) Result {
	outPath := p.outputPath(file)
	keyPath := p.keyPath(file)

	var err error

	if p.cfg.Decrypt {
		err = p.DecryptFile(keyPath, file, outPath)
	} else {
		err = p.EncryptFile(p.password, file, outPath, keyPath)
	}

	if err != nil {
		return Result{Input: file, Error: err}
	}

	size, err := p.store.Size(outPath)
	if err != nil {
		return Result{Input: file, Error: fmt.Errorf("finalizing output: %w", err)}
	}

	return Result{Input: file, Output: outPath, KeyFile: keyPath, OutputSize: size}
}

// EncryptFile encrypts inFile with a key derived from password,
// writing the key to keyFile and the artifact to outFile.
// The key file is written first: an artifact without its key is unrecoverable.
func (p *Processor) EncryptFile(password []byte, inFile, outFile, keyFile string) error {
	if err := checkKeyPath(keyFile, inFile, outFile); err != nil {
		return err
	}

	plaintext, err := p.store.Read(inFile)
	if err != nil {
		return fmt.Errorf("reading input file: %w", err)
	}

	sealed, err := p.pipeline.Encrypt(password, plaintext)
	if err != nil {
		return fmt.Errorf("encrypting file: %w", err)
	}

	if err := p.store.Write(keyFile, []byte(sealed.Key.Hex()), fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("writing key file: %w", err)
	}

	if err := p.store.Write(outFile, sealed.Artifact, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("writing encrypted file: %w", err)
	}

	return nil
}

// DecryptFile decrypts inFile with the key stored in keyFile and writes the plaintext to outFile.
// The key file and the encrypted file are read concurrently.
func (p *Processor) DecryptFile(keyFile, inFile, outFile string) error {
	if err := checkKeyPath(keyFile, inFile, outFile); err != nil {
		return err
	}

	var keyText, artifact []byte

	group := errgroup.Group{}

	group.Go(func() error {
		data, err := p.store.Read(keyFile)
		if err != nil {
			return fmt.Errorf("reading key file: %w", err)
		}

		keyText = data

		return nil
	})

	group.Go(func() error {
		data, err := p.store.Read(inFile)
		if err != nil {
			return fmt.Errorf("reading encrypted file: %w", err)
		}

		artifact = data

		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}

	key, err := ParseKey(string(keyText))
	if err != nil {
		return fmt.Errorf("parsing key file %q: %w", keyFile, err)
	}

	plaintext, err := p.pipeline.Decrypt(key, artifact)
	if err != nil {
		return fmt.Errorf("decrypting file: %w", err)
	}

	if err := p.store.Write(outFile, plaintext, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("writing decrypted file: %w", err)
	}

	return nil
}

// checkKeyPath rejects a key file that is also the input or output file.
func checkKeyPath(keyFile string, others ...string) error {
	for _, other := range others {
		if filepath.Clean(keyFile) == filepath.Clean(other) {
			return fmt.Errorf("%w: %q", ErrKeyPathConflict, keyFile)
		}
	}

	return nil
}

// outputPath generates the output file path based on the input filename
// and the configured suffixes for encryption/decryption.
func (p *Processor) outputPath(filename string) string {
	if p.cfg.Output != "" {
		return p.cfg.Output
	}

	return OutputPath(filename, p.cfg)
}

// keyPath returns the key file for filename, defaulting to the plaintext path plus the key suffix.
func (p *Processor) keyPath(filename string) string {
	if p.cfg.KeyFile != "" {
		return p.cfg.KeyFile
	}

	return KeyPath(filename, p.cfg)
}

// OutputPath returns the default output path for filename.
func OutputPath(filename string, cfg *config.Config) string {
	ext := cfg.Suffixes.Encrypt

	if cfg.Decrypt {
		filename = strings.TrimSuffix(filename, cfg.Suffixes.Encrypt)
		ext = cfg.Suffixes.Decrypt
	}

	return filepath.Join(filepath.Dir(filename), filepath.Base(filename)+ext)
}

// KeyPath returns the default key file for filename: "<plaintext file><key-ext>".
// When decrypting, the encrypted suffix is stripped first.
func KeyPath(filename string, cfg *config.Config) string {
	if cfg.Decrypt {
		filename = strings.TrimSuffix(filename, cfg.Suffixes.Encrypt)
	}

	return filepath.Join(filepath.Dir(filename), filepath.Base(filename)+cfg.Suffixes.Key)
}
