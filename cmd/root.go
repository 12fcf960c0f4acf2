package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/readmify/readmify/api"
	"github.com/readmify/readmify/app"
	"github.com/readmify/readmify/clipboard"
	"github.com/readmify/readmify/common"
	"github.com/readmify/readmify/crypto"
	"github.com/readmify/readmify/logger"
	"github.com/readmify/readmify/panel"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// Command line flags
	logLevel   string
	logFile    string
	configFile string

	// Loaded in PersistentPreRunE
	settings common.Settings
)

var rootCmd = &cobra.Command{
	Use:   "readmify",
	Short: "Readmify - generate a README for a repository using AI",
	Long: `Readmify generates a README.md for a public repository.
The Gemini API key is encrypted and checked with the validation service before
the repository is sent to the generation service.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		w, err := logWriter(cmd)
		if err != nil {
			return err
		}
		logger.InitWithWriter(logLevel, w)
		logger.Debugf("Log level set to: %s", logLevel)

		settings, err = common.Load(configFile)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior when no subcommands are provided
		cmd.Help()
	},
}

// Execute runs the root command and handles errors
func Execute() error {
	// Subcommands are added in their respective init() functions
	return rootCmd.Execute()
}

func init() {
	// Add persistent flags that will be available to all subcommands
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Set the logging level (debug, info, warn, error, dpanic, panic, fatal)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Settings file (defaults to readmify.yml in the current or user config directory)")
}

// logWriter picks the log destination. The full-screen UI owns the terminal,
// so it only logs when a file is given.
func logWriter(cmd *cobra.Command) (io.Writer, error) {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return f, nil
	}
	if cmd.Name() == "ui" {
		return io.Discard, nil
	}
	return os.Stderr, nil
}

// newClients builds one backend client per endpoint so each gets its own
// timeout.
func newClients(s common.Settings) (validator, generator *api.Client, err error) {
	validator, err = api.NewClient(
		api.WithValidateURL(s.ValidateURL),
		api.WithGenerateURL(s.GenerateURL),
		api.WithTimeout(s.Timeouts.Validate),
	)
	if err != nil {
		return nil, nil, err
	}
	generator, err = api.NewClient(
		api.WithValidateURL(s.ValidateURL),
		api.WithGenerateURL(s.GenerateURL),
		api.WithTimeout(s.Timeouts.Generate),
	)
	if err != nil {
		return nil, nil, err
	}
	return validator, generator, nil
}

// newPage wires the gate and the panel from the loaded settings
func newPage(s common.Settings) (*app.Page, error) {
	validator, generator, err := newClients(s)
	if err != nil {
		return nil, err
	}
	opts := []panel.Option{
		panel.WithCopyConfirmation(s.CopyConfirmation),
		panel.WithDownloadDir(s.DownloadDir),
	}
	if clipboard.Available() {
		opts = append(opts, panel.WithClipboard(clipboard.System{}))
	}
	return app.New(validator, crypto.NewEncrypter(s.EncryptionKey), generator, opts...), nil
}

// readAPIKey takes the key from the flag, then READMIFY_API_KEY, then an
// interactive prompt with echo off.
func readAPIKey(cmd *cobra.Command) (string, error) {
	if key, _ := cmd.Flags().GetString("api-key"); key != "" {
		return key, nil
	}
	if key := os.Getenv(common.EnvAPIKey); key != "" {
		return key, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no API key: pass --api-key or set %s", common.EnvAPIKey)
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Gemini API key: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}
