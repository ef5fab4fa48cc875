package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/gopbe/internal/config"
	"github.com/idelchi/gopbe/internal/encryption"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "gopbe [flags] command [flags]"
	root.Short = "Password-based file encryption utility"
	root.Long = `A file encryption utility deriving AES keys from passwords with PBKDF2.
Encrypting writes a key file next to the encrypted file; keep it, it is the only way back.
Every flag can also be set through a GOPBE_<FLAG> environment variable.`
	root.SilenceUsage = true
	root.SilenceErrors = true

	flags := root.PersistentFlags()

	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.Bool("stats", false, "Print statistics after processing")
	flags.String("cipher", encryption.AES256CBC.Name, "Cipher to use (aes-256-cbc, aes-128-cbc)")
	flags.Int("iterations", encryption.DefaultIterations, "PBKDF2 iteration count")

	flags.StringP("key-file", "k", "", "Path to the key file, defaults to <plaintext file><key-ext>")
	flags.StringP("output", "o", "", "Path to the output file, defaults to <file><encrypt-ext> or <file - encrypt-ext><decrypt-ext>")

	flags.String("encrypt-ext", ".enc", "Suffix to append to encrypted files")
	flags.String("decrypt-ext", "", "Suffix to append to decrypted files, after stripping the encrypted suffix")
	flags.String("key-ext", ".key", "Suffix to append to the plaintext file name for the key file")

	root.AddCommand(NewEncryptCommand(cfg), NewDecryptCommand(cfg), NewDeriveCommand(cfg))

	return root
}
