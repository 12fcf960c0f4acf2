package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/readmify/readmify/gate"
	"github.com/readmify/readmify/panel"
	"github.com/readmify/readmify/readme"
)

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	labelStyle = lipgloss.NewStyle().
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#16A34A")).
		Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DC2626")).
			Bold(true)

	focusedInputStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#3B82F6")).
				Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#374151")).
			Padding(0, 1)

	readmeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#374151")).
			Padding(0, 1)
)

const (
	validMessage   = "API key is valid and ready to use"
	invalidMessage = "Invalid API key. Please check and try again."
)

// View renders the full-screen TUI.
func (m Model) View() tea.View {
	if m.width == 0 {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("  Readmify - AI-Powered README Generator"))
	b.WriteString("\n\n")
	b.WriteString(m.viewGate())

	if p, ok := m.page.Panel(); ok {
		b.WriteString("\n")
		b.WriteString(m.viewPanel(p))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help()))

	v := tea.NewView(b.String())
	v.AltScreen = true
	return v
}

func (m Model) innerWidth() int {
	w := m.width - 6
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) viewGate() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Google Gemini API Key"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Your API key is encrypted for validation and never stored."))
	b.WriteString("\n")

	value := m.keyInput
	if !m.showKey {
		value = strings.Repeat("•", len([]rune(m.keyInput)))
	}
	if value == "" {
		value = dimStyle.Render("Enter your Gemini API key")
	}
	if m.focus == focusKey {
		value += "█"
	}
	b.WriteString(m.inputBox(m.focus == focusKey).Render(value))
	b.WriteString("\n")

	g := m.page.Gate()
	switch {
	case m.validatePending || g.Validating():
		b.WriteString(dimStyle.Render("Validating..."))
	case g.Status() == gate.StatusValid:
		b.WriteString(okStyle.Render("✓ " + validMessage))
	case g.Status() == gate.StatusInvalid:
		b.WriteString(errStyle.Render("✗ " + invalidMessage))
	case g.CanValidate():
		b.WriteString(dimStyle.Render("[enter] Validate API Key"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewPanel(p *panel.Panel) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Repository URL"))
	b.WriteString("\n")

	value := m.repoInput
	if value == "" {
		value = dimStyle.Render("https://github.com/username/repository")
	}
	if m.focus == focusRepo && !m.generatePending {
		value += "█"
	}
	b.WriteString(m.inputBox(m.focus == focusRepo).Render(value))
	b.WriteString("\n")

	if m.generatePending || p.Generating() {
		b.WriteString(dimStyle.Render("Generating..."))
		b.WriteString("\n")
		return b.String()
	}

	if msg := p.Error(); msg != "" {
		b.WriteString(errStyle.Render("! " + msg))
		b.WriteString("\n")
	}

	text, ok := p.Result()
	if !ok {
		return b.String()
	}

	header := okStyle.Render("✓ Generated README")
	if p.Copied() {
		header += "  " + okStyle.Render("Copied!")
	}
	if n := len(readme.Outline(text)); n > 0 {
		header += dimStyle.Render(fmt.Sprintf("  %d sections", n))
	}
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(readmeStyle.Width(m.innerWidth()).Render(m.visibleLines(text)))
	b.WriteString("\n")

	if m.notice != "" {
		if m.noticeErr {
			b.WriteString(errStyle.Render(m.notice))
		} else {
			b.WriteString(dimStyle.Render(m.notice))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// visibleLines returns the slice of the README that fits the screen. The
// text itself is shown unmodified.
func (m Model) visibleLines(text string) string {
	lines := strings.Split(text, "\n")
	avail := m.height - 20
	if avail < 5 {
		avail = 5
	}

	start := m.scroll
	if start > len(lines)-1 {
		start = len(lines) - 1
	}
	if start < 0 {
		start = 0
	}
	end := start + avail
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

func (m Model) inputBox(focused bool) lipgloss.Style {
	if focused {
		return focusedInputStyle.Width(m.innerWidth())
	}
	return inputStyle.Width(m.innerWidth())
}

func (m Model) help() string {
	parts := []string{"[enter] submit", "[ctrl+t] show/hide key"}
	if p, ok := m.page.Panel(); ok {
		parts = append(parts, "[tab] switch field")
		if _, has := p.Result(); has {
			parts = append(parts, "[ctrl+y] copy", "[ctrl+s] save README.md", "[pgup/pgdn] scroll")
		}
	}
	parts = append(parts, "[esc] quit")
	return strings.Join(parts, "  ")
}
