package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/readmify/readmify/git"
)

// Git checks any host by listing its references
type Git struct {
	client  *git.Client
	timeout int
}

// NewGit creates an ls-remote based checker
func NewGit(opts ...Option) *Git {
	var token string
	g := &Git{timeout: 30}

	for _, opt := range opts {
		switch opt.Type {
		case APITokenOption:
			if t, ok := opt.Value.(string); ok {
				token = t
			}
		case TimeoutOption:
			if timeout, ok := opt.Value.(int); ok && timeout > 0 {
				g.timeout = timeout
			}
		}
	}

	g.client = git.NewClient(token)
	return g
}

// Check lists the remote's references
func (g *Git) Check(ctx context.Context, loc Location) (Info, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(g.timeout)*time.Second)
	defer cancel()

	remote, err := g.client.LsRemote(ctx, loc.URL)
	if err != nil {
		if errors.Is(err, git.ErrEmptyRepository) {
			return Info{}, fmt.Errorf("%s: %w", loc.FullName(), err)
		}
		return Info{}, fmt.Errorf("%w: %s: %v", ErrNotFound, loc.FullName(), err)
	}

	return Info{
		FullName:      loc.FullName(),
		DefaultBranch: remote.DefaultBranch,
	}, nil
}
