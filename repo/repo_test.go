package repo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		raw      string
		host     string
		owner    string
		name     string
		provider string
	}{
		{"https://github.com/octo/repo", "github.com", "octo", "repo", ProviderGitHub},
		{"https://github.com/octo/repo.git", "github.com", "octo", "repo", ProviderGitHub},
		{"https://github.com/octo/repo/", "github.com", "octo", "repo", ProviderGitHub},
		{"https://github.com/octo/repo/tree/main/docs", "github.com", "octo", "repo", ProviderGitHub},
		{"  https://GitHub.com/octo/repo  ", "GitHub.com", "octo", "repo", ProviderGitHub},
		{"git@github.com:octo/repo.git", "github.com", "octo", "repo", ProviderGitHub},
		{"https://gitlab.com/group/project", "gitlab.com", "group", "project", ProviderGit},
		{"https://github.com/octo", "github.com", "", "", ProviderGit},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			loc, err := ParseURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.host, loc.Host)
			assert.Equal(t, tt.owner, loc.Owner)
			assert.Equal(t, tt.name, loc.Name)
			assert.Equal(t, tt.provider, loc.Provider())
		})
	}
}

func TestParseURL_Rejects(t *testing.T) {
	for _, raw := range []string{"", "   ", "ftp://example.com/a/b", "https://", "not a url"} {
		_, err := ParseURL(raw)
		assert.Error(t, err, raw)
	}
}

func TestLocationFullName(t *testing.T) {
	assert.Equal(t, "octo/repo", Location{Owner: "octo", Name: "repo"}.FullName())
	assert.Equal(t, "https://x", Location{URL: "https://x"}.FullName())
}

func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/repos/{owner}/{name}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "name") != "repo" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"full_name":      chi.URLParam(r, "owner") + "/repo",
			"default_branch": "main",
			"description":    "An example",
			"private":        false,
			"archived":       true,
		})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestGitHubCheck(t *testing.T) {
	srv := fakeGitHub(t)
	gh, err := NewGitHub(WithBaseURL(srv.URL))
	require.NoError(t, err)

	info, err := gh.Check(context.Background(), Location{Owner: "octo", Name: "repo"})
	require.NoError(t, err)
	assert.Equal(t, Info{
		FullName:      "octo/repo",
		DefaultBranch: "main",
		Description:   "An example",
		Archived:      true,
	}, info)
}

func TestGitHubCheck_NotFound(t *testing.T) {
	srv := fakeGitHub(t)
	gh, err := NewGitHub(WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = gh.Check(context.Background(), Location{Owner: "octo", Name: "missing"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNewChecker_PicksProvider(t *testing.T) {
	gh, err := NewChecker(Location{Host: "github.com", Owner: "o", Name: "n"})
	require.NoError(t, err)
	assert.IsType(t, &GitHub{}, gh)

	g, err := NewChecker(Location{Host: "gitlab.com", Owner: "o", Name: "n"})
	require.NoError(t, err)
	assert.IsType(t, &Git{}, g)
}

func TestPreflight_InvalidURL(t *testing.T) {
	_, err := Preflight(context.Background(), "ftp://example.com/a/b")
	assert.Error(t, err)
}
