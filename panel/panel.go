package panel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/readmify/readmify/api"
	"github.com/readmify/readmify/clipboard"
	"github.com/readmify/readmify/common"
	"github.com/readmify/readmify/logger"
)

const (
	// DownloadFilename is the name of the exported file
	DownloadFilename = "README.md"
	// DownloadMIMEType describes the exported file
	DownloadMIMEType = "text/markdown"
)

// Generator produces a README for a repository
type Generator interface {
	GenerateReadme(ctx context.Context, repoURL, apiKey string) (string, error)
}

// OptionType defines the type of option
type OptionType string

const (
	ClipboardOption        OptionType = "clipboard"
	CopyConfirmationOption OptionType = "copy_confirmation"
	DownloadDirOption      OptionType = "download_dir"
)

// Option represents a configuration option for the Panel
type Option struct {
	Type  OptionType
	Value any
}

// WithClipboard sets the clipboard used by Copy
func WithClipboard(c clipboard.Clipboard) Option {
	return Option{Type: ClipboardOption, Value: c}
}

// WithCopyConfirmation sets how long Copied stays true after a copy
func WithCopyConfirmation(d time.Duration) Option {
	return Option{Type: CopyConfirmationOption, Value: d}
}

// WithDownloadDir sets the directory Download writes into
func WithDownloadDir(dir string) Option {
	return Option{Type: DownloadDirOption, Value: dir}
}

// Panel generates a README for a repository URL using an already validated
// credential, and exports the result. The owner only creates a Panel once the
// credential is valid; the Panel does not check again.
type Panel struct {
	credential       string
	generator        Generator
	clipboard        clipboard.Clipboard
	copyConfirmation time.Duration
	downloadDir      string

	mu         sync.Mutex
	repoURL    string
	readme     string
	hasReadme  bool
	errMsg     string
	generating bool
	copied     bool
	copyTimer  *time.Timer
}

// New creates a Panel for the given credential
func New(credential string, generator Generator, opts ...Option) *Panel {
	p := &Panel{
		credential:       credential,
		generator:        generator,
		clipboard:        clipboard.System{},
		copyConfirmation: common.DefaultCopyConfirmation,
		downloadDir:      common.DefaultDownloadDirectory,
	}

	for _, opt := range opts {
		switch opt.Type {
		case ClipboardOption:
			if c, ok := opt.Value.(clipboard.Clipboard); ok && c != nil {
				p.clipboard = c
			}
		case CopyConfirmationOption:
			if d, ok := opt.Value.(time.Duration); ok && d > 0 {
				p.copyConfirmation = d
			}
		case DownloadDirOption:
			if dir, ok := opt.Value.(string); ok && dir != "" {
				p.downloadDir = dir
			}
		}
	}

	return p
}

// SetRepoURL replaces the repository URL
func (p *Panel) SetRepoURL(repoURL string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.repoURL = repoURL
}

// RepoURL returns the current repository URL
func (p *Panel) RepoURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.repoURL
}

// Generating reports whether a generation call is in flight
func (p *Panel) Generating() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generating
}

// CanGenerate reports whether Generate would issue a call right now
func (p *Panel) CanGenerate() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.generating && !common.IsBlank(p.repoURL)
}

// Result returns the generated README and whether there is one
func (p *Panel) Result() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readme, p.hasReadme
}

// Error returns the message of the last failed generation, if any
func (p *Panel) Error() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errMsg
}

// Copied reports whether the copy confirmation is showing
func (p *Panel) Copied() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.copied
}

// Generate requests a README for the current repository URL. It does nothing
// for a blank URL or while another call is in flight. The previous result and
// error are cleared before the call is made.
func (p *Panel) Generate(ctx context.Context) {
	p.mu.Lock()
	if p.generating || common.IsBlank(p.repoURL) {
		p.mu.Unlock()
		return
	}
	p.generating = true
	p.readme, p.hasReadme = "", false
	p.errMsg = ""
	repoURL := p.repoURL
	p.mu.Unlock()

	logger.Infof("Generating README for %s", repoURL)
	readme, err := p.generator.GenerateReadme(ctx, repoURL, p.credential)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.generating = false

	if err != nil {
		p.errMsg = errorMessage(err)
		logger.Warnf("README generation failed: %v", describe(err))
		return
	}

	p.readme, p.hasReadme = readme, true
	logger.Infof("README generated (%d bytes)", len(readme))
}

// Copy writes the README to the clipboard and shows the confirmation for the
// configured duration. Clipboard failures are only logged.
func (p *Panel) Copy() {
	p.mu.Lock()
	readme, ok := p.readme, p.hasReadme
	p.mu.Unlock()
	if !ok {
		return
	}

	if err := p.clipboard.WriteAll(readme); err != nil {
		logger.Errorf("Failed to copy: %v", err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.copied = true
	if p.copyTimer != nil {
		p.copyTimer.Stop()
	}
	p.copyTimer = time.AfterFunc(p.copyConfirmation, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.copied = false
	})
}

// CopyConfirmation is how long Copied stays true after a copy
func (p *Panel) CopyConfirmation() time.Duration {
	return p.copyConfirmation
}

// Download writes the README to README.md in the download directory and
// returns the path. It returns "" and no error when there is no README.
func (p *Panel) Download() (string, error) {
	p.mu.Lock()
	readme, ok := p.readme, p.hasReadme
	p.mu.Unlock()
	if !ok {
		return "", nil
	}

	path := filepath.Join(p.downloadDir, DownloadFilename)
	if err := writeFileAtomic(path, []byte(readme)); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", DownloadFilename, err)
	}

	logger.Infof("Saved %s (%s) to %s", DownloadFilename, DownloadMIMEType, path)
	return path, nil
}

// writeFileAtomic writes through a temporary file in the same directory that
// is renamed into place, and removed if anything fails.
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".readme-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func errorMessage(err error) string {
	if api.IsStatusError(err) || err.Error() == "" {
		return api.GenerationFailedMessage
	}
	return err.Error()
}

func describe(err error) string {
	var se *api.StatusError
	if errors.As(err, &se) && se.Detail != "" {
		return fmt.Sprintf("status %d: %s", se.StatusCode, se.Detail)
	}
	return err.Error()
}
