// File: cmd/encrypt.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/scalpel-e2e/internal/crypto"
)

func newEncryptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt-password <password>",
		Short: "Encrypts a password for use in the environment file",
		Long: `Encrypts a plain password with the configured key and IV and prints the
ciphertext to paste into APP_PASSWORD or APP_DB_PASSWORD.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			handler, err := crypto.NewPasswordHandler(cfg.Crypto())
			if err != nil {
				return fmt.Errorf("failed to initialize password handler: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Encrypted Password:%s\n\nPaste this password to APP_PASSWORD in .env file.\n", handler.Encrypt(args[0]))
			return nil
		},
	}
}
