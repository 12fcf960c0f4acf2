package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepoWithCommit(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o600))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("main.go")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir
}

func TestLsRemote_LocalRepository(t *testing.T) {
	dir := initRepoWithCommit(t)

	info, err := NewClient("").LsRemote(context.Background(), dir)
	require.NoError(t, err)

	require.NotEmpty(t, info.Branches)
	assert.NotEmpty(t, info.DefaultBranch)
	assert.Len(t, info.Branches[0].Hash, 40)
}

func TestLsRemote_EmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = NewClient("").LsRemote(context.Background(), dir)
	assert.ErrorIs(t, err, ErrEmptyRepository)
}

func TestLsRemote_Missing(t *testing.T) {
	_, err := NewClient("").LsRemote(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestGuessDefaultBranch(t *testing.T) {
	assert.Equal(t, "main", guessDefaultBranch([]RemoteReference{{Name: "feature"}, {Name: "main"}}))
	assert.Equal(t, "feature", guessDefaultBranch([]RemoteReference{{Name: "feature"}}))
}

func TestNewClient_TokenAuth(t *testing.T) {
	assert.Nil(t, NewClient("").auth)
	assert.NotNil(t, NewClient("ghp_token").auth)
}
