package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/wardrobe/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State.ModalVisible {
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, m.renderModal())
	}

	sections := []string{
		m.renderHeader(),
		"",
		m.Browser.View(m.Styles, m.Width),
	}
	body := strings.Join(sections, "\n")

	// Pin status and footer to the bottom
	used := lipgloss.Height(body)
	if gap := m.Height - used - 2; gap > 0 {
		body += strings.Repeat("\n", gap)
	}
	return body + "\n" + m.renderStatus() + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	title := m.Styles.Title.Render("wardrobe")

	var who string
	switch {
	case m.State.LoggedIn():
		who = m.Styles.Subtitle.Render(styles.Truncate(m.State.User.DisplayName(), 40))
	case m.State.Authenticated():
		who = m.Styles.Dim.Render("signed in, loading profile...")
	default:
		who = m.Styles.Error.Render("not signed in")
	}

	theme := m.Styles.Dim.Render("theme: " + m.Styles.Theme)
	return title + "  " + who + "  " + theme
}

func (m Model) renderStatus() string {
	if m.State.IsLoading {
		msg := m.State.LoadingMessage
		if msg == "" {
			msg = "Loading..."
		}
		return m.Spinner.View() + " " + m.Styles.Subtitle.Render(msg)
	}
	if m.StatusMsg == "" {
		return ""
	}
	if m.StatusIsErr {
		return m.Styles.Error.Render(m.StatusMsg)
	}
	return m.Styles.Success.Render(m.StatusMsg)
}

func (m Model) renderFooter() string {
	var parts []string
	for _, b := range footerKeys() {
		h := b.Help()
		parts = append(parts, m.Styles.HelpKey.Render(h.Key)+" "+m.Styles.HelpDesc.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderModal() string {
	var title string
	var lines []string

	switch c := m.State.ModalContent.(type) {
	case Details:
		title = c.Title
		lines = c.Lines
	case string:
		lines = []string{c}
	case nil:
	default:
		lines = []string{fmt.Sprint(c)}
	}

	var content []string
	if title != "" {
		content = append(content, m.Styles.ModalTitle.Render(title))
	}
	content = append(content, lines...)
	content = append(content, "", m.Styles.Dim.Render("esc to close"))

	return m.Styles.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}
