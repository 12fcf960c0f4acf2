package tui

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/readmify/readmify/panel"
)

// Init satisfies tea.Model. Returns nil (no initial commands).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update is the bubbletea update function.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.PasteMsg:
		return m.insert(msg.Content), nil

	case validatedMsg:
		m.validatePending = false
		if _, ok := m.page.Panel(); !ok {
			m.focus = focusKey
		} else {
			m.focus = focusRepo
		}
		return m, nil

	case generatedMsg:
		m.generatePending = false
		m.scroll = 0
		return m, nil

	case copyResetMsg:
		// re-render so the confirmation disappears
		return m, nil
	}

	return m, nil
}

// --- Key Handling ---

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	k := msg.Key()

	if k.Mod == tea.ModCtrl {
		switch k.Code {
		case 'c':
			return m, tea.Quit
		case 't':
			m.showKey = !m.showKey
			return m, nil
		case 'y':
			return m.copyReadme()
		case 's':
			return m.downloadReadme(), nil
		}
		return m, nil
	}

	switch k.Code {
	case tea.KeyEscape:
		return m, tea.Quit
	case tea.KeyTab:
		if _, ok := m.page.Panel(); ok {
			if m.focus == focusKey {
				m.focus = focusRepo
			} else {
				m.focus = focusKey
			}
		}
		return m, nil
	case tea.KeyEnter:
		if m.focus == focusRepo {
			return m.generate()
		}
		return m.validate()
	case tea.KeyBackspace:
		return m.backspace(), nil
	case tea.KeyPgDown:
		m.scroll += 10
		return m, nil
	case tea.KeyPgUp:
		m.scroll -= 10
		if m.scroll < 0 {
			m.scroll = 0
		}
		return m, nil
	default:
		if k.Text != "" {
			return m.insert(k.Text), nil
		}
	}
	return m, nil
}

func (m Model) insert(text string) Model {
	if m.focus == focusRepo {
		if m.generatePending {
			return m
		}
		m.repoInput += text
		m.setRepoURL()
		return m
	}
	m.keyInput += text
	return m.credentialEdited()
}

func (m Model) backspace() Model {
	if m.focus == focusRepo {
		if m.generatePending || len(m.repoInput) == 0 {
			return m
		}
		m.repoInput = trimLastRune(m.repoInput)
		m.setRepoURL()
		return m
	}
	if len(m.keyInput) == 0 {
		return m
	}
	m.keyInput = trimLastRune(m.keyInput)
	return m.credentialEdited()
}

// credentialEdited hides the panel; its inputs go with it
func (m Model) credentialEdited() Model {
	m.page.SetCredential(m.keyInput)
	m.focus = focusKey
	m.repoInput = ""
	m.scroll = 0
	m.notice = ""
	return m
}

func (m Model) setRepoURL() {
	if p, ok := m.page.Panel(); ok {
		p.SetRepoURL(m.repoInput)
	}
}

func (m Model) validate() (tea.Model, tea.Cmd) {
	if m.validatePending || !m.page.Gate().CanValidate() {
		return m, nil
	}
	m.validatePending = true

	page, ctx := m.page, m.ctx
	return m, func() tea.Msg {
		return validatedMsg{status: page.Validate(ctx)}
	}
}

func (m Model) generate() (tea.Model, tea.Cmd) {
	p, ok := m.page.Panel()
	if !ok || m.generatePending {
		return m, nil
	}
	// a fresh panel after re-validation starts without the typed URL
	p.SetRepoURL(m.repoInput)
	if !p.CanGenerate() {
		return m, nil
	}
	m.generatePending = true
	m.notice = ""

	ctx := m.ctx
	return m, func() tea.Msg {
		p.Generate(ctx)
		return generatedMsg{}
	}
}

func (m Model) copyReadme() (tea.Model, tea.Cmd) {
	p, ok := m.page.Panel()
	if !ok {
		return m, nil
	}
	if _, has := p.Result(); !has {
		return m, nil
	}
	p.Copy()
	if !p.Copied() {
		return m, nil
	}
	return m, tea.Tick(p.CopyConfirmation()+50*time.Millisecond, func(time.Time) tea.Msg {
		return copyResetMsg{}
	})
}

func (m Model) downloadReadme() Model {
	p, ok := m.page.Panel()
	if !ok {
		return m
	}
	path, err := p.Download()
	switch {
	case err != nil:
		m.notice, m.noticeErr = err.Error(), true
	case path != "":
		m.notice, m.noticeErr = fmt.Sprintf("Saved %s (%s) to %s", panel.DownloadFilename, panel.DownloadMIMEType, path), false
	}
	return m
}

func trimLastRune(s string) string {
	r := []rune(s)
	return string(r[:len(r)-1])
}
