package tui

import (
	"github.com/readmify/readmify/gate"
)

// --- Tea messages ---

type validatedMsg struct {
	status gate.Status
}

type generatedMsg struct{}

type copyResetMsg struct{}
