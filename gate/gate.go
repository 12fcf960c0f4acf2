package gate

import (
	"context"
	"sync"

	"github.com/readmify/readmify/common"
	"github.com/readmify/readmify/logger"
)

// Status is the validation state of the current credential
type Status int

const (
	StatusUnknown Status = iota
	StatusValid
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Validator checks an encrypted credential against the validation service
type Validator interface {
	ValidateKey(ctx context.Context, ciphertext string) (bool, error)
}

// Encrypter produces the ciphertext sent to the Validator
type Encrypter interface {
	Encrypt(plaintext string) (string, error)
}

// OptionType defines the type of option
type OptionType string

const (
	ListenerOption OptionType = "listener"
)

// Option represents a configuration option for the Gate
type Option struct {
	Type  OptionType
	Value any
}

// WithValidationListener registers the owner's callback. It is called with
// false on every credential edit and with the outcome of every validation.
func WithValidationListener(fn func(valid bool)) Option {
	return Option{Type: ListenerOption, Value: fn}
}

// Gate owns the credential and decides whether it unlocks generation.
// Status changes only on an edit, a successful validation, or a failed one.
type Gate struct {
	validator Validator
	encrypter Encrypter
	listener  func(valid bool)

	mu         sync.Mutex
	credential string
	status     Status
	validating bool
	// revision increments on every edit so late results can be recognised
	revision uint64
}

// New creates a Gate with an empty credential
func New(validator Validator, encrypter Encrypter, opts ...Option) *Gate {
	g := &Gate{
		validator: validator,
		encrypter: encrypter,
		status:    StatusUnknown,
	}

	for _, opt := range opts {
		switch opt.Type {
		case ListenerOption:
			if fn, ok := opt.Value.(func(bool)); ok {
				g.listener = fn
			}
		}
	}

	return g
}

// SetCredential replaces the credential and resets the status to unknown
func (g *Gate) SetCredential(credential string) {
	g.mu.Lock()
	g.credential = credential
	g.status = StatusUnknown
	g.revision++
	g.mu.Unlock()

	g.notify(false)
}

// Credential returns the current credential
func (g *Gate) Credential() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.credential
}

// Status returns the current validation status
func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// Validating reports whether a validation call is in flight
func (g *Gate) Validating() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.validating
}

// CanValidate reports whether Validate would issue a call right now
func (g *Gate) CanValidate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.validating && !common.IsBlank(g.credential)
}

// Validate encrypts the credential and asks the Validator about it. It does
// nothing for a blank credential or while another call is in flight. Every
// failure counts as invalid. If the credential is edited before the answer
// arrives, the answer is dropped and the status stays unknown.
func (g *Gate) Validate(ctx context.Context) Status {
	g.mu.Lock()
	if g.validating || common.IsBlank(g.credential) {
		status := g.status
		g.mu.Unlock()
		return status
	}
	g.validating = true
	credential := g.credential
	revision := g.revision
	g.mu.Unlock()

	valid := g.check(ctx, credential)

	g.mu.Lock()
	g.validating = false
	if revision != g.revision {
		status := g.status
		g.mu.Unlock()
		logger.Debug("Credential changed during validation, discarding result")
		return status
	}
	if valid {
		g.status = StatusValid
	} else {
		g.status = StatusInvalid
	}
	status := g.status
	g.mu.Unlock()

	g.notify(valid)
	return status
}

func (g *Gate) check(ctx context.Context, credential string) bool {
	ciphertext, err := g.encrypter.Encrypt(credential)
	if err != nil {
		logger.Debugf("Credential encryption failed: %v", err)
		return false
	}

	valid, err := g.validator.ValidateKey(ctx, ciphertext)
	if err != nil {
		logger.Debugf("Credential validation failed: %v", err)
		return false
	}

	logger.Debugw("Credential validated", "credential", common.MaskSecret(credential), "valid", valid)
	return valid
}

func (g *Gate) notify(valid bool) {
	if g.listener != nil {
		g.listener(valid)
	}
}
