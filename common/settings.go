package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/readmify/readmify/logger"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultValidateURL is the local validation service endpoint
	DefaultValidateURL = "http://127.0.0.1:8000/validate-api-key"
	// DefaultGenerateURL is the hosted README generation endpoint
	DefaultGenerateURL = "https://readmify.onrender.com/generate-readme"
	// DefaultEncryptionKey is the passphrase shared with the validation service
	DefaultEncryptionKey = "elevate-readme-ai-secret-key-2025"

	DefaultValidateTimeout   = 30 * time.Second
	DefaultGenerateTimeout   = 5 * time.Minute
	DefaultCopyConfirmation  = 2 * time.Second
	DefaultDownloadDirectory = "."
)

// Environment variables read on top of the settings file
const (
	EnvValidateURL   = "READMIFY_VALIDATE_URL"
	EnvGenerateURL   = "READMIFY_GENERATE_URL"
	EnvEncryptionKey = "READMIFY_ENCRYPTION_KEY"
	EnvAPIKey        = "READMIFY_API_KEY"
	EnvGitHubToken   = "GITHUB_TOKEN"
)

var settingsFilenames = []string{"readmify.yml", "readmify.yaml"}

type Timeouts struct {
	Validate time.Duration `yaml:"validate"`
	Generate time.Duration `yaml:"generate"`
}

type Settings struct {
	ValidateURL      string        `yaml:"validate_url"`
	GenerateURL      string        `yaml:"generate_url"`
	EncryptionKey    string        `yaml:"encryption_key"`
	Timeouts         Timeouts      `yaml:"timeouts"`
	CopyConfirmation time.Duration `yaml:"copy_confirmation"`
	DownloadDir      string        `yaml:"download_dir"`
}

func WithDefaultSettings() Settings {
	return Settings{
		ValidateURL:   DefaultValidateURL,
		GenerateURL:   DefaultGenerateURL,
		EncryptionKey: DefaultEncryptionKey,
		Timeouts: Timeouts{
			Validate: DefaultValidateTimeout,
			Generate: DefaultGenerateTimeout,
		},
		CopyConfirmation: DefaultCopyConfirmation,
		DownloadDir:      DefaultDownloadDirectory,
	}
}

// WithYamlFile returns the default settings overlaid with the given yaml
// file. An empty path looks for readmify.yml or readmify.yaml in the current
// directory and then in the user config directory.
func WithYamlFile(path string) (Settings, error) {
	settings := WithDefaultSettings()

	if path == "" {
		path = findSettingsFile()
	}
	if path == "" {
		logger.Debug("No settings file found. Using default settings.")
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	logger.Infof("Using settings from YAML file: %s", path)

	return settings.withFallbacks(), nil
}

// Load reads .env from the working directory, then the settings file, then
// the READMIFY_* environment overrides.
func Load(path string) (Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnf("Failed to load .env file: %v", err)
	}

	settings, err := WithYamlFile(path)
	if err != nil {
		return settings, err
	}
	return settings.WithEnv(), nil
}

// WithEnv applies the READMIFY_* environment variables that are set
func (s Settings) WithEnv() Settings {
	if v := os.Getenv(EnvValidateURL); v != "" {
		s.ValidateURL = v
	}
	if v := os.Getenv(EnvGenerateURL); v != "" {
		s.GenerateURL = v
	}
	if v := os.Getenv(EnvEncryptionKey); v != "" {
		s.EncryptionKey = v
	}
	return s
}

// withFallbacks restores defaults for values a settings file blanked out
func (s Settings) withFallbacks() Settings {
	defaults := WithDefaultSettings()
	if s.ValidateURL == "" {
		s.ValidateURL = defaults.ValidateURL
	}
	if s.GenerateURL == "" {
		s.GenerateURL = defaults.GenerateURL
	}
	if s.EncryptionKey == "" {
		s.EncryptionKey = defaults.EncryptionKey
	}
	if s.Timeouts.Validate <= 0 {
		s.Timeouts.Validate = defaults.Timeouts.Validate
	}
	if s.Timeouts.Generate <= 0 {
		s.Timeouts.Generate = defaults.Timeouts.Generate
	}
	if s.CopyConfirmation <= 0 {
		s.CopyConfirmation = defaults.CopyConfirmation
	}
	if s.DownloadDir == "" {
		s.DownloadDir = defaults.DownloadDir
	}
	return s
}

func findSettingsFile() string {
	dirs := []string{"."}
	if cfgDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(cfgDir, "readmify"))
	}

	for _, dir := range dirs {
		for _, name := range settingsFilenames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}
