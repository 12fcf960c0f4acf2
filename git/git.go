package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
)

// ErrEmptyRepository is returned for a reachable remote without any commits
var ErrEmptyRepository = errors.New("remote repository is empty")

// RemoteReference is a branch or tag advertised by a remote
type RemoteReference struct {
	Name    string // Short name (e.g., "main", "v1.0.0")
	RefName string // Full reference name (e.g., "refs/heads/main")
	Hash    string
}

// RemoteInfo summarises what a remote advertises
type RemoteInfo struct {
	DefaultBranch string
	Branches      []RemoteReference
	Tags          []RemoteReference
}

// Client lists remote repositories without cloning them
type Client struct {
	auth transport.AuthMethod
}

// NewClient creates a Client. A non-empty token is sent as HTTP basic auth,
// which is what GitHub, GitLab and Gitea accept for personal access tokens.
func NewClient(token string) *Client {
	c := &Client{}
	if token != "" {
		c.auth = &http.BasicAuth{Username: "x-access-token", Password: token}
	}
	return c
}

// LsRemote is the equivalent of `git ls-remote <repoURL>`
func (c *Client) LsRemote(ctx context.Context, repoURL string) (RemoteInfo, error) {
	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: "origin",
		URLs: []string{repoURL},
	})

	refs, err := remote.ListContext(ctx, &git.ListOptions{Auth: c.auth})
	if err != nil {
		if errors.Is(err, transport.ErrEmptyRemoteRepository) {
			return RemoteInfo{}, ErrEmptyRepository
		}
		return RemoteInfo{}, fmt.Errorf("failed to list remote references: %w", err)
	}

	info := RemoteInfo{}
	for _, ref := range refs {
		name := ref.Name()

		if name == plumbing.HEAD {
			if ref.Type() == plumbing.SymbolicReference {
				info.DefaultBranch = ref.Target().Short()
			}
			continue
		}
		if ref.Type() == plumbing.SymbolicReference {
			continue
		}

		r := RemoteReference{
			Name:    name.Short(),
			RefName: name.String(),
			Hash:    ref.Hash().String(),
		}
		switch {
		case name.IsBranch():
			info.Branches = append(info.Branches, r)
		case name.IsTag() && !strings.HasSuffix(name.String(), "^{}"):
			info.Tags = append(info.Tags, r)
		}
	}

	if len(info.Branches) == 0 && len(info.Tags) == 0 {
		return RemoteInfo{}, ErrEmptyRepository
	}
	if info.DefaultBranch == "" {
		info.DefaultBranch = guessDefaultBranch(info.Branches)
	}

	return info, nil
}

func guessDefaultBranch(branches []RemoteReference) string {
	for _, preferred := range []string{"main", "master", "trunk", "develop"} {
		for _, b := range branches {
			if b.Name == preferred {
				return b.Name
			}
		}
	}
	return branches[0].Name
}
