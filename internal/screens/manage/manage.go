// Package manage implements the question bank management screen:
// browse every question and toggle whether it is active.
package manage

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizdrill/quizdrill/internal/question"
	"github.com/quizdrill/quizdrill/internal/screen"
	"github.com/quizdrill/quizdrill/internal/store"
	"github.com/quizdrill/quizdrill/internal/ui/layout"
	"github.com/quizdrill/quizdrill/internal/ui/theme"
)

// ManageScreen implements screen.Screen for bank management.
type ManageScreen struct {
	store     *store.Store
	questions []*question.Question
	cursor    int
	offset    int
	detail    bool
	confirm   bool
}

var _ screen.Screen = (*ManageScreen)(nil)
var _ screen.KeyHintProvider = (*ManageScreen)(nil)
var _ screen.StatusProvider = (*ManageScreen)(nil)

// New creates a ManageScreen over the full bank.
func New(st *store.Store) *ManageScreen {
	return &ManageScreen{
		store:     st,
		questions: st.ListAll(),
	}
}

func (m *ManageScreen) Init() tea.Cmd {
	return nil
}

func (m *ManageScreen) Title() string {
	return "Manage"
}

func (m *ManageScreen) HeaderStatus() string {
	active := 0
	for _, q := range m.questions {
		if q.Active {
			active++
		}
	}
	return fmt.Sprintf("%d/%d active", active, len(m.questions))
}

func (m *ManageScreen) KeyHints() []layout.KeyHint {
	if m.confirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Confirm"},
			{Key: "any key", Description: "Cancel"},
		}
	}
	if m.detail {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Close"},
			{Key: "Space", Description: "Toggle active"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Space", Description: "Toggle active"},
		{Key: "Enter", Description: "Details"},
		{Key: "Esc", Description: "Back"},
	}
}

func (m *ManageScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.questions) == 0 {
		return m, nil
	}

	if m.confirm {
		if s := kmsg.String(); s == "y" || s == "Y" {
			q := m.questions[m.cursor]
			m.store.ToggleActive(q.ID, !q.Active)
			m.questions = m.store.ListAll()
			if m.cursor >= len(m.questions) {
				m.cursor = len(m.questions) - 1
			}
		}
		m.confirm = false
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if !m.detail && m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if !m.detail && m.cursor < len(m.questions)-1 {
			m.cursor++
		}
	case " ", "space":
		m.confirm = true
	case "enter":
		m.detail = !m.detail
	}

	return m, nil
}

func (m *ManageScreen) View(width, height int) string {
	if len(m.questions) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  The question bank is empty.\n\n  Generate or import questions first.")
	}

	body := m.renderList(width, height)
	if m.detail {
		body = m.renderDetail(width)
	}

	if m.confirm {
		q := m.questions[m.cursor]
		verb := "Deactivate"
		if !q.Active {
			verb = "Activate"
		}
		body += "\n" + lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Bold(true).
			Render(fmt.Sprintf("%s question %d? (y/N)", verb, q.ID))
	}
	return body
}

func (m *ManageScreen) renderList(width, height int) string {
	visible := height - 2
	if visible < 1 {
		visible = 1
	}

	// Keep the cursor in the visible window.
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}

	var b strings.Builder
	b.WriteString("\n")

	end := m.offset + visible
	if end > len(m.questions) {
		end = len(m.questions)
	}

	for i := m.offset; i < end; i++ {
		q := m.questions[i]

		mark := "[ ]"
		if q.Active {
			mark = "[✔]"
		}
		kind := "free"
		if q.IsMultipleChoice() {
			kind = "mcq "
		}

		line := fmt.Sprintf("  %3d  %s  %s  %-14s %s",
			q.ID, mark, kind, truncate(q.Topic, 14), truncate(q.Prompt, width-36))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if !q.Active {
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		}
		if i == m.cursor {
			style = style.Foreground(theme.Primary).Bold(true)
			line = "▸" + line[1:]
		}

		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

func (m *ManageScreen) renderDetail(width int) string {
	q := m.questions[m.cursor]

	var b strings.Builder
	fmt.Fprintf(&b, "ID: %d\n", q.ID)
	fmt.Fprintf(&b, "Topic: %s\n", q.Topic)
	fmt.Fprintf(&b, "Type: %s\n", q.Kind)
	fmt.Fprintf(&b, "Source: %s\n", q.Source)
	fmt.Fprintf(&b, "Active: %t\n\n", q.Active)

	b.WriteString(q.Prompt)
	b.WriteString("\n")

	if q.IsMultipleChoice() {
		for i, opt := range q.DisplayOptions() {
			fmt.Fprintf(&b, "  %s) %s\n", string(rune('A'+i)), opt)
		}
		fmt.Fprintf(&b, "Correct: %s\n", q.CorrectAnswer)
		if expl := q.ExplanationText(); expl != "" {
			fmt.Fprintf(&b, "Explanation: %s\n", expl)
		}
	} else {
		fmt.Fprintf(&b, "Reference answer: %s\n", q.ReferenceAnswer)
	}

	fmt.Fprintf(&b, "\nShown %d times, %d correct, %d incorrect (%.1f%%)\n",
		q.TimesShown, q.CorrectCount, q.IncorrectCount, q.CorrectPercentage())
	fmt.Fprintf(&b, "Selection weight: %.2f", q.Weight())

	card := theme.Card.Width(minInt(width-8, 76)).Render(b.String())
	return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}

func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
