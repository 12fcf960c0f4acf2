package cmd

import (
	"fmt"

	"github.com/readmify/readmify/crypto"
	"github.com/spf13/cobra"
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Print the encrypted form of an API key",
	Long: `Encrypt the API key the same way it is sent to the validation service
(OpenSSL-compatible salted AES-256-CBC, base64). Each run uses a fresh salt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := readAPIKey(cmd)
		if err != nil {
			return err
		}

		passphrase := settings.EncryptionKey
		if cmd.Flags().Changed("passphrase") {
			passphrase, _ = cmd.Flags().GetString("passphrase")
		}

		ciphertext, err := crypto.EncryptAPIKey(key, passphrase)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ciphertext)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encryptCmd)

	encryptCmd.Flags().String("api-key", "", "API key to encrypt (defaults to $READMIFY_API_KEY, then a prompt)")
	encryptCmd.Flags().String("passphrase", "", "Passphrase to encrypt with (defaults to the configured encryption key)")
}
