// Package config defines the runtime configuration shared by all commands.
package config

import (
	"errors"
	"fmt"

	"github.com/idelchi/gogen/pkg/validator"
)

// Suffixes holds the file extensions used to derive default paths.
type Suffixes struct {
	Encrypt string `mapstructure:"encrypt-ext"`
	Decrypt string `mapstructure:"decrypt-ext"`
	Key     string `mapstructure:"key-ext"    validate:"required"`
}

// Config holds the application configuration.
type Config struct {
	// Common flags
	Parallel   int    `validate:"min=1"`
	Quiet      bool
	Stats      bool
	Cipher     string `validate:"required"`
	Iterations int    `validate:"min=1"`

	Suffixes Suffixes `mapstructure:",squash"`

	// Encrypt flags
	Password     string `label:"--password"      validate:"exclusive=PasswordFile"`
	PasswordFile string `label:"--password-file" mapstructure:"password-file"`

	// Derive flags
	Salt string

	// Per-file overrides, only valid with a single input
	KeyFile string `label:"--key-file" mapstructure:"key-file"`
	Output  string `label:"--output"`

	// Set by the command
	Decrypt bool `mapstructure:"-"`

	// Positional arguments
	Files []string `mapstructure:"-" validate:"min=1"`
}

var (
	// ErrPasswordRequired is returned when encrypting without a password source.
	ErrPasswordRequired = errors.New("a password is required: use --password, --password-file or GOPBE_PASSWORD")
	// ErrSingleFileOnly is returned when a per-file override is combined with several inputs.
	ErrSingleFileOnly = errors.New("--output and --key-file require exactly one input file")
	// ErrKeyPathConflict is returned when the key file would be overwritten by the output.
	ErrKeyPathConflict = errors.New("the key file must not be the output file")
)

// Validate validates the configuration against the struct tags
// and the rules that depend on the selected command.
func (c *Config) Validate() error {
	validate := validator.NewValidator()

	if err := registerExclusive(validate); err != nil {
		return err
	}

	if errs := validate.Validate(c); len(errs) > 0 {
		return fmt.Errorf("validating configuration: %w", errors.Join(errs...))
	}

	if !c.Decrypt && c.Password == "" && c.PasswordFile == "" {
		return ErrPasswordRequired
	}

	if len(c.Files) > 1 && (c.Output != "" || c.KeyFile != "") {
		return ErrSingleFileOnly
	}

	if c.Output != "" && c.Output == c.KeyFile {
		return fmt.Errorf("%w: --output and --key-file are both %q", ErrKeyPathConflict, c.Output)
	}

	outputSuffix := c.Suffixes.Encrypt
	if c.Decrypt {
		outputSuffix = c.Suffixes.Decrypt
	}

	if c.Output == "" && c.KeyFile == "" && outputSuffix == c.Suffixes.Key {
		return fmt.Errorf("%w: output and key suffix are both %q", ErrKeyPathConflict, c.Suffixes.Key)
	}

	return nil
}
