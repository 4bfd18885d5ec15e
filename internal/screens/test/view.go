package test

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/quizdrill/quizdrill/internal/ui/theme"
)

func (t *TestScreen) View(width, height int) string {
	if t.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press Esc to go back.", t.errMsg))
	}

	switch t.phase {
	case phaseSetup:
		return t.renderSetup(width)
	case phaseFeedback:
		return t.renderFeedback(width)
	case phaseDone:
		return t.renderSummary(width)
	}
	return t.renderQuestion(width)
}

func (t *TestScreen) renderSetup(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("How many questions?"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(t.countInput.View()))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Leave blank for %d. Repeats are excluded.", DefaultLength)))
	return b.String()
}

func (t *TestScreen) renderQuestion(width int) string {
	q := t.current()
	if q == nil {
		return ""
	}

	var b strings.Builder

	info := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d of %d — %s", t.idx+1, len(t.queue), q.Topic))
	b.WriteString(info)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", maxInt(width-4, 0))))
	b.WriteString("\n\n")

	if q.IsMultipleChoice() {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, t.mc.View()))
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

	if t.phase == phaseJudging {
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
		Render("Answer: " + t.input.View()))
	return b.String()
}

func (t *TestScreen) renderFeedback(width int) string {
	q := t.current()

	var b strings.Builder
	b.WriteString("\n\n")

	if t.verdict.Correct {
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
		if q != nil && q.IsMultipleChoice() {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.TextDim).
				Render(fmt.Sprintf("Correct answer: %s", q.CorrectAnswer)))
		}
	}

	if t.verdict.Explanation != "" {
		b.WriteString("\n\n")
		expStyle := lipgloss.NewStyle().
			Width(minInt(width-8, 70)).
			Foreground(theme.Text)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, expStyle.Render(t.verdict.Explanation)))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press any key to continue..."))

	return b.String()
}

func (t *TestScreen) renderSummary(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Test complete"))
	b.WriteString("\n\n")

	scoreStyle := theme.Success
	if t.correct*2 < len(t.queue) {
		scoreStyle = theme.Error
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(scoreStyle).
		Bold(true).
		Render(fmt.Sprintf("Score: %d/%d", t.correct, len(t.queue))))

	if t.saveErr != nil {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("Could not save result: %v", t.saveErr)))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press Esc to go back."))
	return b.String()
}

func scoreStatus(done, total int) string {
	return fmt.Sprintf("Q %d/%d", done, total)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
