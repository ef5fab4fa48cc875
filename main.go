// Command gopbe encrypts and decrypts files with keys derived from passwords.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/gopbe/internal/commands"
	"github.com/idelchi/gopbe/internal/config"
)

// version is set at build time.
var version = "unknown - unofficial & generated by unknown" //nolint:gochecknoglobals

func main() {
	cfg := config.Config{}

	if err := commands.NewRootCommand(&cfg, version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)

		os.Exit(1)
	}
}
