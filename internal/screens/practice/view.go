package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/quizdrill/quizdrill/internal/ui/theme"
)

func (p *PracticeScreen) View(width, height int) string {
	if p.errMsg != "" {
		return renderError(width, p.errMsg)
	}
	if p.current == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Picking a question...")
	}
	if p.phase == phaseFeedback {
		return p.renderFeedback(width)
	}
	return p.renderQuestion(width)
}

func (p *PracticeScreen) renderQuestion(width int) string {
	q := p.current

	var b strings.Builder

	topicLine := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Topic: %s", q.Topic))
	b.WriteString(topicLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	if q.IsMultipleChoice() {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, p.mc.View()))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Select (1-4) or use arrows + Enter"))
		return b.String()
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Prompt))
	b.WriteString("\n\n")

	if p.phase == phaseJudging {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Checking your answer..."))
		return b.String()
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("Answer: " + p.input.View()))
	return b.String()
}

func (p *PracticeScreen) renderFeedback(width int) string {
	q := p.current

	var b strings.Builder
	b.WriteString("\n\n")

	if p.verdict.Correct {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render("Correct!"))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Bold(true).
			Render("Not quite"))
		if q.IsMultipleChoice() {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.TextDim).
				Render(fmt.Sprintf("Correct answer: %s", q.CorrectAnswer)))
		}
	}

	b.WriteString("\n\n")

	if q.IsMultipleChoice() {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, p.mc.View()))
		b.WriteString("\n")
	}

	if p.verdict.Explanation != "" {
		expStyle := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, expStyle.Render(p.verdict.Explanation)))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press any key for the next question..."))

	return b.String()
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press Esc to go back.", errMsg))
}

func scoreStatus(correct, answered int) string {
	return fmt.Sprintf("✔ %d/%d", correct, answered)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
