package repo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v48/github"
	"golang.org/x/oauth2"
)

// GitHub checks repositories through the GitHub REST API
type GitHub struct {
	client   *github.Client
	apiToken string
	timeout  int
}

// NewGitHub creates a GitHub checker. The token is optional; without it only
// public repositories are visible and the rate limit is lower.
func NewGitHub(opts ...Option) (*GitHub, error) {
	gh := &GitHub{
		timeout: 30,
	}
	var baseURL string

	for _, opt := range opts {
		switch opt.Type {
		case APITokenOption:
			if token, ok := opt.Value.(string); ok {
				gh.apiToken = token
			}
		case TimeoutOption:
			if timeout, ok := opt.Value.(int); ok && timeout > 0 {
				gh.timeout = timeout
			}
		case BaseURLOption:
			if u, ok := opt.Value.(string); ok {
				baseURL = u
			}
		}
	}

	var httpClient *http.Client
	if gh.apiToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: gh.apiToken})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	gh.client = github.NewClient(httpClient)

	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
		}
		gh.client.BaseURL = u
	}

	return gh, nil
}

// Check fetches the repository metadata
func (gh *GitHub) Check(ctx context.Context, loc Location) (Info, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(gh.timeout)*time.Second)
	defer cancel()

	r, _, err := gh.client.Repositories.Get(ctx, loc.Owner, loc.Name)
	if err != nil {
		var errResp *github.ErrorResponse
		if errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound {
			return Info{}, fmt.Errorf("%w: %s", ErrNotFound, loc.FullName())
		}
		return Info{}, fmt.Errorf("failed to get repository %s: %w", loc.FullName(), err)
	}

	return Info{
		FullName:      r.GetFullName(),
		DefaultBranch: r.GetDefaultBranch(),
		Description:   r.GetDescription(),
		Private:       r.GetPrivate(),
		Archived:      r.GetArchived(),
	}, nil
}
