package app_test

import (
	"context"
	"testing"

	"github.com/readmify/readmify/api"
	"github.com/readmify/readmify/app"
	"github.com/readmify/readmify/backendtest"
	"github.com/readmify/readmify/common"
	"github.com/readmify/readmify/crypto"
	"github.com/readmify/readmify/gate"
	"github.com/readmify/readmify/panel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPage(t *testing.T, b *backendtest.Backend, opts ...panel.Option) *app.Page {
	t.Helper()
	client, err := api.NewClient(
		api.WithValidateURL(b.ValidateURL()),
		api.WithGenerateURL(b.GenerateURL()),
	)
	require.NoError(t, err)
	return app.New(client, crypto.NewEncrypter(common.DefaultEncryptionKey), client, opts...)
}

func TestPage_PanelHiddenUntilValid(t *testing.T) {
	b := backendtest.New(t)
	page := newPage(t, b)

	_, ok := page.Panel()
	assert.False(t, ok)

	page.SetCredential("AIza-key")
	_, ok = page.Panel()
	assert.False(t, ok)

	require.Equal(t, gate.StatusValid, page.Validate(context.Background()))
	assert.True(t, page.Valid())

	p, ok := page.Panel()
	require.True(t, ok)
	again, _ := page.Panel()
	assert.Same(t, p, again)

	// the validation service only ever sees the encrypted form
	calls := b.ValidateCalls()
	require.Len(t, calls, 1)
	assert.NotEqual(t, "AIza-key", calls[0])
	assert.True(t, backendtest.LooksEncrypted(calls[0]))
}

func TestPage_InvalidKeepsPanelHidden(t *testing.T) {
	b := backendtest.New(t)
	b.ValidKey = func(string) bool { return false }
	page := newPage(t, b)

	page.SetCredential("AIza-key")
	assert.Equal(t, gate.StatusInvalid, page.Validate(context.Background()))

	_, ok := page.Panel()
	assert.False(t, ok)
}

func TestPage_EditHidesAndResetsPanel(t *testing.T) {
	b := backendtest.New(t)
	page := newPage(t, b)
	page.SetCredential("AIza-key")
	page.Validate(context.Background())

	first, ok := page.Panel()
	require.True(t, ok)
	first.SetRepoURL("https://github.com/octo/repo")

	page.SetCredential("AIza-key-2")
	assert.False(t, page.Valid())
	assert.Equal(t, gate.StatusUnknown, page.Gate().Status())
	_, ok = page.Panel()
	assert.False(t, ok)

	page.Validate(context.Background())
	second, ok := page.Panel()
	require.True(t, ok)
	assert.NotSame(t, first, second)
	assert.Empty(t, second.RepoURL())
}

func TestPage_GenerateSendsPlaintextCredential(t *testing.T) {
	b := backendtest.New(t)
	b.Readme = "# Octo\n"
	page := newPage(t, b)
	page.SetCredential("AIza-key")
	page.Validate(context.Background())

	p, ok := page.Panel()
	require.True(t, ok)
	p.SetRepoURL("https://github.com/octo/repo")
	p.Generate(context.Background())

	readme, ok := p.Result()
	require.True(t, ok)
	assert.Equal(t, "# Octo\n", readme)

	calls := b.GenerateCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "AIza-key", calls[0].APIKey)
}
