package generate

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/quizdrill/quizdrill/internal/question"
	"github.com/quizdrill/quizdrill/internal/ui/theme"
)

func (g *GenerateScreen) View(width, height int) string {
	switch g.phase {
	case phaseTopic:
		return g.renderPrompt(width, "What topic should the questions cover?", g.topicInput.View())
	case phaseMCQCount:
		return g.renderPrompt(width,
			fmt.Sprintf("How many multiple-choice questions? (default %d)", g.params.NumMCQ),
			g.mcqInput.View())
	case phaseFreeformCount:
		return g.renderPrompt(width,
			fmt.Sprintf("How many freeform questions? (default %d)", g.params.NumFreeform),
			g.ffInput.View())
	case phaseGenerating:
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("\n\n\n  Generating questions about %q...", g.params.Topic))
	case phaseReview, phaseEditing:
		return g.renderReview(width)
	case phaseDone:
		return g.renderDone(width)
	}
	return ""
}

func (g *GenerateScreen) renderPrompt(width int, label, input string) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(label))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(input))
	if g.errMsg != "" {
		msg := g.errMsg
		if g.errType != "" {
			msg = fmt.Sprintf("[%s] %s", g.errType, g.errMsg)
		}
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(msg))

		if g.errRaw != "" {
			raw := g.errRaw
			if len(raw) > 400 {
				raw = raw[:400] + "..."
			}
			b.WriteString("\n\n")
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().
					Width(minInt(width-8, 70)).
					Foreground(theme.TextDim).
					Render("LLM returned: "+raw)))
		}
	}
	return b.String()
}

func (g *GenerateScreen) renderReview(width int) string {
	q := g.currentQuestion()
	if q == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Reviewing %d of %d — %s", g.idx+1, len(g.generated), kindLabel(q))))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", maxInt(width-4, 0))))
	b.WriteString("\n\n")

	if g.phase == phaseEditing {
		label := g.fields[g.fieldIdx].label
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Text).
			Render(fmt.Sprintf("Edit %s (%d/%d), Enter keeps the current value:",
				label, g.fieldIdx+1, len(g.fields))))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render(g.editInput.View()))
		if g.errMsg != "" {
			b.WriteString("\n\n")
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.Error).
				Render(g.errMsg))
		}
		return b.String()
	}

	card := renderQuestionCard(q, minInt(width-8, 70))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("[A]ccept   [E]dit   [S]kip"))

	return b.String()
}

func renderQuestionCard(q *question.Question, width int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(q.Prompt))
	b.WriteString("\n")

	if q.IsMultipleChoice() {
		for i, opt := range q.DisplayOptions() {
			label := string(rune('A' + i))
			line := fmt.Sprintf("%s) %s", label, opt)
			if strings.EqualFold(strings.TrimSpace(opt), strings.TrimSpace(q.CorrectAnswer)) {
				b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render(line + "  ✔"))
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(line))
			}
			b.WriteString("\n")
		}
		if expl := q.ExplanationText(); expl != "" {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(expl))
			b.WriteString("\n")
		}
	} else {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Reference answer: " + q.ReferenceAnswer))
		b.WriteString("\n")
	}

	return theme.Card.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func (g *GenerateScreen) renderDone(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Batch reviewed"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("%d accepted, %d skipped", len(g.accepted), g.skipped)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press Esc to go back."))
	return b.String()
}

func kindLabel(q *question.Question) string {
	if q.IsMultipleChoice() {
		return "multiple choice"
	}
	return "freeform"
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
