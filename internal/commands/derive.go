package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gopbe/internal/config"
	"github.com/idelchi/gopbe/internal/logic"
)

// NewDeriveCommand creates a new cobra command printing a derived key.
func NewDeriveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive [flags]",
		Short: "Print a key derived from a password (hex-encoded)",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bind(cmd, cfg)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Password == "" {
				return config.ErrPasswordRequired
			}

			return logic.Derive(cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().StringP("password", "p", "", "Password to derive the key from")
	cmd.Flags().String("salt", "", "Fixed salt, makes the output reproducible")

	return cmd
}
