package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gopbe/internal/config"
	"github.com/idelchi/gopbe/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "encrypt [flags] files...",
		Aliases: []string{"enc"},
		Short:   "Encrypt files with a key derived from a password",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Decrypt = false

			return preRun(cfg)(cmd, args)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return logic.Run(cfg)
		},
	}

	cmd.Flags().StringP("password", "p", "", "Password to derive the key from")
	cmd.Flags().String("password-file", "", "Path to a file containing the password")

	return cmd
}
