// Package app is the page that owns the credential: it wires the credential
// gate to the generation panel and only exposes the panel once the gate has
// reported a valid credential.
package app

import (
	"context"
	"sync"

	"github.com/readmify/readmify/gate"
	"github.com/readmify/readmify/panel"
)

// Page holds the credential and the validity flag reported by the gate
type Page struct {
	gate      *gate.Gate
	generator panel.Generator
	panelOpts []panel.Option

	mu    sync.Mutex
	valid bool
	panel *panel.Panel
}

// New creates a Page. The panel options are applied to every panel the page
// creates.
func New(validator gate.Validator, encrypter gate.Encrypter, generator panel.Generator, panelOpts ...panel.Option) *Page {
	p := &Page{
		generator: generator,
		panelOpts: panelOpts,
	}
	p.gate = gate.New(validator, encrypter, gate.WithValidationListener(p.setValid))
	return p
}

// Gate returns the credential gate
func (p *Page) Gate() *gate.Gate {
	return p.gate
}

// SetCredential forwards an edit to the gate, which hides the panel
func (p *Page) SetCredential(credential string) {
	p.gate.SetCredential(credential)
}

// Validate runs the gate's validation
func (p *Page) Validate(ctx context.Context) gate.Status {
	return p.gate.Validate(ctx)
}

// Valid reports the validity flag last reported by the gate
func (p *Page) Valid() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.valid
}

// Panel returns the generation panel, or false while the credential is not
// valid. The same panel is returned until validity is lost.
func (p *Page) Panel() (*panel.Panel, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.valid {
		return nil, false
	}
	if p.panel == nil {
		p.panel = panel.New(p.gate.Credential(), p.generator, p.panelOpts...)
	}
	return p.panel, true
}

func (p *Page) setValid(valid bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.valid = valid
	if !valid {
		p.panel = nil
	}
}
