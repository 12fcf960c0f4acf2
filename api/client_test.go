package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/readmify/readmify/api"
	"github.com/readmify/readmify/backendtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, b *backendtest.Backend, opts ...api.Option) *api.Client {
	t.Helper()
	opts = append([]api.Option{
		api.WithValidateURL(b.ValidateURL()),
		api.WithGenerateURL(b.GenerateURL()),
	}, opts...)
	c, err := api.NewClient(opts...)
	require.NoError(t, err)
	return c
}

func TestValidateKey_SendsURLEncodedCiphertext(t *testing.T) {
	b := backendtest.New(t)
	c := newClient(t, b)

	// '+' and '/' must survive the query string
	ciphertext := "U2FsdGVkX1+abc/def+ghi=="
	b.ValidKey = func(got string) bool { return got == ciphertext }

	valid, err := c.ValidateKey(context.Background(), ciphertext)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, []string{ciphertext}, b.ValidateCalls())
}

func TestValidateKey_InvalidIsStatusError(t *testing.T) {
	b := backendtest.New(t)
	b.ValidKey = func(string) bool { return false }
	c := newClient(t, b)

	valid, err := c.ValidateKey(context.Background(), "anything")
	assert.False(t, valid)
	require.Error(t, err)

	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "Invalid API key", se.Detail)
}

func TestValidateKey_OnlyLiteralTrueIsValid(t *testing.T) {
	cases := map[string]bool{
		`{"valid": true}`:   true,
		`{"valid": false}`:  false,
		`{"valid": "true"}`: false,
		`{}`:                false,
	}

	for body, want := range cases {
		t.Run(body, func(t *testing.T) {
			b := backendtest.New(t)
			b.ValidateBody = body
			c := newClient(t, b)

			valid, _ := c.ValidateKey(context.Background(), "x")
			assert.Equal(t, want, valid)
		})
	}
}

func TestValidateKey_MalformedBody(t *testing.T) {
	b := backendtest.New(t)
	b.ValidateBody = "<html>oops</html>"
	c := newClient(t, b)

	valid, err := c.ValidateKey(context.Background(), "x")
	assert.False(t, valid)
	assert.Error(t, err)
}

func TestGenerateReadme_Success(t *testing.T) {
	b := backendtest.New(t)
	b.Readme = "# Title\n\n  indented *markdown* kept as-is\n"
	c := newClient(t, b)

	readme, err := c.GenerateReadme(context.Background(), "https://github.com/octo/repo", "plain-key")
	require.NoError(t, err)
	assert.Equal(t, b.Readme, readme)

	calls := b.GenerateCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "https://github.com/octo/repo", calls[0].RepoURL)
	assert.Equal(t, "plain-key", calls[0].APIKey)
}

func TestGenerateReadme_NonSuccessStatus(t *testing.T) {
	b := backendtest.New(t)
	b.GenerateStatus = http.StatusInternalServerError
	c := newClient(t, b)

	readme, err := c.GenerateReadme(context.Background(), "https://github.com/octo/repo", "k")
	assert.Empty(t, readme)
	require.Error(t, err)
	assert.True(t, api.IsStatusError(err))
	assert.Equal(t, api.GenerationFailedMessage, err.Error())

	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Detail, "failed to clone")
}

func TestGenerateReadme_MissingReadme(t *testing.T) {
	b := backendtest.New(t)
	b.GenerateBody = `{"something": "else"}`
	c := newClient(t, b)

	_, err := c.GenerateReadme(context.Background(), "https://github.com/octo/repo", "k")
	assert.ErrorIs(t, err, api.ErrEmptyReadme)
}

func TestGenerateReadme_Timeout(t *testing.T) {
	b := backendtest.New(t)
	b.Block = make(chan struct{})
	defer close(b.Block)
	c := newClient(t, b, api.WithTimeout(50*time.Millisecond))

	_, err := c.GenerateReadme(context.Background(), "https://github.com/octo/repo", "k")
	require.Error(t, err)
	assert.False(t, api.IsStatusError(err))
}

func TestRequestsCarryRequestID(t *testing.T) {
	b := backendtest.New(t)
	c := newClient(t, b)

	_, _ = c.ValidateKey(context.Background(), "x")
	_, _ = c.GenerateReadme(context.Background(), "https://github.com/octo/repo", "k")

	ids := b.RequestIDs()
	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.NotEqual(t, ids[0], ids[1])
}

func TestNewClient_RejectsBadEndpoint(t *testing.T) {
	_, err := api.NewClient(api.WithGenerateURL("not a url"))
	assert.Error(t, err)
}
