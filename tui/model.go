package tui

import (
	"context"

	"github.com/readmify/readmify/app"
)

type focusField int

const (
	focusKey focusField = iota
	focusRepo
)

// Model is the root bubbletea model: the credential gate on top and the
// generation panel below it once the credential is valid.
// Exported so tests can construct and drive it directly.
type Model struct {
	page *app.Page
	ctx  context.Context

	width  int
	height int

	focus focusField

	// Credential gate
	keyInput        string
	showKey         bool
	validatePending bool

	// Generation panel
	repoInput       string
	generatePending bool
	scroll          int

	// Last download outcome
	notice    string
	noticeErr bool
}

// New creates a fresh Model around the page
func New(ctx context.Context, page *app.Page) Model {
	return Model{
		page:  page,
		ctx:   ctx,
		focus: focusKey,
	}
}
