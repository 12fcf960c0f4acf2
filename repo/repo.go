package repo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

const (
	// ProviderGitHub checks repositories through the GitHub REST API
	ProviderGitHub = "github"
	// ProviderGit checks any other host with ls-remote
	ProviderGit = "git"

	githubHost = "github.com"
)

// ErrNotFound is returned when the repository does not exist or is not visible
var ErrNotFound = errors.New("repository not found")

// OptionType defines the type of option for repository checkers
type OptionType string

// Available option types
const (
	APITokenOption OptionType = "api_token"
	TimeoutOption  OptionType = "timeout"
	BaseURLOption  OptionType = "base_url"
)

// Option represents a generic configuration option for any checker
type Option struct {
	Type  OptionType
	Value any
}

// WithAPIToken creates an option to set the API token
func WithAPIToken(token string) Option {
	return Option{Type: APITokenOption, Value: token}
}

// WithTimeout creates an option to set the API timeout in seconds
func WithTimeout(timeout int) Option {
	return Option{Type: TimeoutOption, Value: timeout}
}

// WithBaseURL creates an option to set the API base URL (GitHub Enterprise)
func WithBaseURL(baseURL string) Option {
	return Option{Type: BaseURLOption, Value: baseURL}
}

// Location is a parsed repository URL
type Location struct {
	URL   string
	Host  string
	Owner string
	Name  string
}

// Provider returns the checker that handles this location
func (l Location) Provider() string {
	if strings.EqualFold(l.Host, githubHost) && l.Owner != "" && l.Name != "" {
		return ProviderGitHub
	}
	return ProviderGit
}

// FullName is owner/name when both are known, else the URL
func (l Location) FullName() string {
	if l.Owner == "" || l.Name == "" {
		return l.URL
	}
	return l.Owner + "/" + l.Name
}

// Info describes a reachable repository
type Info struct {
	FullName      string
	DefaultBranch string
	Description   string
	Private       bool
	Archived      bool
}

// Checker confirms that a repository is reachable before generation
type Checker interface {
	Check(ctx context.Context, loc Location) (Info, error)
}

// ParseURL accepts https URLs (with or without .git or a trailing slash) and
// scp-like SSH addresses such as git@github.com:owner/name.git.
func ParseURL(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Location{}, errors.New("repository URL is empty")
	}

	if host, path, ok := splitSCP(raw); ok {
		loc := Location{URL: raw, Host: host}
		loc.Owner, loc.Name = ownerAndName(path)
		return loc, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("invalid repository URL %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http", "https", "ssh", "git":
	default:
		return Location{}, fmt.Errorf("unsupported repository URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return Location{}, fmt.Errorf("repository URL %q has no host", raw)
	}

	loc := Location{URL: raw, Host: u.Hostname()}
	loc.Owner, loc.Name = ownerAndName(u.Path)
	return loc, nil
}

// splitSCP handles user@host:path without a scheme
func splitSCP(raw string) (string, string, bool) {
	if strings.Contains(raw, "://") {
		return "", "", false
	}
	at := strings.Index(raw, "@")
	colon := strings.Index(raw, ":")
	if at < 0 || colon < at {
		return "", "", false
	}
	return raw[at+1 : colon], raw[colon+1:], true
}

func ownerAndName(path string) (string, string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 {
		return "", ""
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git")
}

// getAPIToken retrieves the GitHub token from the environment, if any
func getAPIToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

// NewChecker creates the checker for the location's provider. GITHUB_TOKEN
// is only ever sent to GitHub.
func NewChecker(loc Location, opts ...Option) (Checker, error) {
	switch loc.Provider() {
	case ProviderGitHub:
		options := []Option{
			WithAPIToken(getAPIToken()),
			WithTimeout(30),
		}
		if baseURL := os.Getenv("GITHUB_API_URL"); baseURL != "" {
			options = append(options, WithBaseURL(baseURL))
		}
		return NewGitHub(append(options, opts...)...)
	case ProviderGit:
		return NewGit(append([]Option{WithTimeout(30)}, opts...)...), nil
	default:
		return nil, fmt.Errorf("unsupported repository provider for %s", loc.URL)
	}
}

// Preflight parses repoURL and checks that the repository is reachable
func Preflight(ctx context.Context, repoURL string, opts ...Option) (Info, error) {
	loc, err := ParseURL(repoURL)
	if err != nil {
		return Info{}, err
	}
	checker, err := NewChecker(loc, opts...)
	if err != nil {
		return Info{}, err
	}
	return checker.Check(ctx, loc)
}
