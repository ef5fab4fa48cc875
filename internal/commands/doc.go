// Package commands provides the command-line interface for the gopbe tool.
//
// It implements commands for:
//   - encryption
//   - decryption
//   - key derivation
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/gopbe/internal/config"
)

// EnvPrefix is the prefix for environment variables overriding flags.
const EnvPrefix = "GOPBE"

// bind populates cfg from the command's flags and GOPBE_* environment variables.
func bind(cmd *cobra.Command, cfg *config.Config) error {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	return nil
}

// preRun returns a PreRunE handler that binds configuration, resolves
// positional args into cfg.Files and validates the configuration.
func preRun(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := bind(cmd, cfg); err != nil {
			return err
		}

		cfg.Files = args

		return cfg.Validate()
	}
}
