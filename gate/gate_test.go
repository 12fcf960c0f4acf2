package gate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeValidator answers from its fields and counts calls
type fakeValidator struct {
	mu      sync.Mutex
	valid   bool
	err     error
	calls   []string
	started chan struct{}
	release chan struct{}
}

func (f *fakeValidator) ValidateKey(_ context.Context, ciphertext string) (bool, error) {
	f.mu.Lock()
	f.calls = append(f.calls, ciphertext)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.valid, f.err
}

func (f *fakeValidator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeEncrypter struct {
	err error
}

func (f fakeEncrypter) Encrypt(plaintext string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "enc(" + plaintext + ")", nil
}

type listenerLog struct {
	mu     sync.Mutex
	events []bool
}

func (l *listenerLog) record(valid bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, valid)
}

func (l *listenerLog) all() []bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]bool(nil), l.events...)
}

func TestValidate_BlankCredentialIsNoop(t *testing.T) {
	for _, credential := range []string{"", " ", "\t\n  "} {
		v := &fakeValidator{valid: true}
		g := New(v, fakeEncrypter{})
		g.SetCredential(credential)

		status := g.Validate(context.Background())

		assert.Equal(t, StatusUnknown, status)
		assert.Equal(t, StatusUnknown, g.Status())
		assert.Zero(t, v.callCount())
		assert.False(t, g.CanValidate())
	}
}

func TestValidate_SendsCiphertext(t *testing.T) {
	v := &fakeValidator{valid: true}
	g := New(v, fakeEncrypter{})
	g.SetCredential("AIza-key")

	assert.Equal(t, StatusValid, g.Validate(context.Background()))
	assert.Equal(t, []string{"enc(AIza-key)"}, v.calls)
}

func TestValidate_Outcomes(t *testing.T) {
	tests := []struct {
		name      string
		validator *fakeValidator
		encrypter fakeEncrypter
		want      Status
	}{
		{"valid", &fakeValidator{valid: true}, fakeEncrypter{}, StatusValid},
		{"rejected", &fakeValidator{valid: false}, fakeEncrypter{}, StatusInvalid},
		{"transport error", &fakeValidator{valid: true, err: errors.New("connection refused")}, fakeEncrypter{}, StatusInvalid},
		{"encryption error", &fakeValidator{valid: true}, fakeEncrypter{err: errors.New("boom")}, StatusInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &listenerLog{}
			g := New(tt.validator, tt.encrypter, WithValidationListener(log.record))
			g.SetCredential("AIza-key")

			got := g.Validate(context.Background())

			assert.Equal(t, tt.want, got)
			assert.Equal(t, []bool{false, tt.want == StatusValid}, log.all())
			assert.False(t, g.Validating())
		})
	}

	t.Run("encryption error skips network", func(t *testing.T) {
		v := &fakeValidator{valid: true}
		g := New(v, fakeEncrypter{err: errors.New("boom")})
		g.SetCredential("AIza-key")
		g.Validate(context.Background())
		assert.Zero(t, v.callCount())
	})
}

func TestSetCredential_ResetsAfterValid(t *testing.T) {
	log := &listenerLog{}
	g := New(&fakeValidator{valid: true}, fakeEncrypter{}, WithValidationListener(log.record))
	g.SetCredential("AIza-key")
	require.Equal(t, StatusValid, g.Validate(context.Background()))

	g.SetCredential("AIza-key2")

	assert.Equal(t, StatusUnknown, g.Status())
	assert.Equal(t, []bool{false, true, false}, log.all())
}

func TestValidate_InFlightRefusesSecondCall(t *testing.T) {
	v := &fakeValidator{
		valid:   true,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	g := New(v, fakeEncrypter{})
	g.SetCredential("AIza-key")

	done := make(chan Status)
	go func() { done <- g.Validate(context.Background()) }()
	<-v.started

	assert.True(t, g.Validating())
	assert.False(t, g.CanValidate())
	assert.Equal(t, StatusUnknown, g.Validate(context.Background()))

	close(v.release)
	assert.Equal(t, StatusValid, <-done)
	assert.Equal(t, 1, v.callCount())
}

func TestValidate_EditDuringCallDropsResult(t *testing.T) {
	log := &listenerLog{}
	v := &fakeValidator{
		valid:   true,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	g := New(v, fakeEncrypter{}, WithValidationListener(log.record))
	g.SetCredential("AIza-key")

	done := make(chan Status)
	go func() { done <- g.Validate(context.Background()) }()
	<-v.started

	g.SetCredential("AIza-other")
	assert.Equal(t, StatusUnknown, g.Status())

	close(v.release)
	assert.Equal(t, StatusUnknown, <-done)
	assert.Equal(t, StatusUnknown, g.Status())
	assert.Equal(t, []bool{false, false}, log.all())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "unknown", StatusUnknown.String())
	assert.Equal(t, "valid", StatusValid.String())
	assert.Equal(t, "invalid", StatusInvalid.String())
}
