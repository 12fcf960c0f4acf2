package cmd

import (
	"errors"
	"fmt"

	"github.com/readmify/readmify/gate"
	"github.com/spf13/cobra"
)

const (
	validKeyMessage   = "API key is valid and ready to use"
	invalidKeyMessage = "Invalid API key. Please check and try again."
)

var errInvalidKey = errors.New("invalid API key")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a Gemini API key with the validation service",
	Long: `Encrypt the API key and ask the validation service whether it is usable.
The plaintext key is never sent to the validation service.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := readAPIKey(cmd)
		if err != nil {
			return err
		}

		page, err := newPage(settings)
		if err != nil {
			return err
		}
		page.SetCredential(key)
		if !page.Gate().CanValidate() {
			return errors.New("API key is empty")
		}

		if page.Validate(cmd.Context()) != gate.StatusValid {
			fmt.Fprintln(cmd.ErrOrStderr(), invalidKeyMessage)
			return errInvalidKey
		}
		fmt.Fprintln(cmd.OutOrStdout(), validKeyMessage)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().String("api-key", "", "Gemini API key (defaults to $READMIFY_API_KEY, then a prompt)")
}
