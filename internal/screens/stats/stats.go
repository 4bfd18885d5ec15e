// Package stats implements the statistics screen: bank totals,
// per-topic accuracy, and recent test results.
package stats

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizdrill/quizdrill/internal/question"
	"github.com/quizdrill/quizdrill/internal/screen"
	"github.com/quizdrill/quizdrill/internal/store"
	"github.com/quizdrill/quizdrill/internal/ui/components"
	"github.com/quizdrill/quizdrill/internal/ui/layout"
	"github.com/quizdrill/quizdrill/internal/ui/theme"
)

// maxResultsShown caps the recent-results section.
const maxResultsShown = 5

// topicStat aggregates answer counts for one topic.
type topicStat struct {
	Topic     string
	Questions int
	Correct   int
	Incorrect int
}

func (t topicStat) accuracy() float64 {
	total := t.Correct + t.Incorrect
	if total == 0 {
		return 0
	}
	return float64(t.Correct) / float64(total)
}

// StatsScreen implements screen.Screen for the statistics view.
type StatsScreen struct {
	questions []*question.Question
	topics    []topicStat
	results   []string
	offset    int
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

// New creates a StatsScreen from the current bank and results log.
func New(st *store.Store) *StatsScreen {
	questions := st.ListAll()

	byTopic := make(map[string]*topicStat)
	for _, q := range questions {
		ts, ok := byTopic[q.Topic]
		if !ok {
			ts = &topicStat{Topic: q.Topic}
			byTopic[q.Topic] = ts
		}
		ts.Questions++
		ts.Correct += q.CorrectCount
		ts.Incorrect += q.IncorrectCount
	}

	topics := make([]topicStat, 0, len(byTopic))
	for _, ts := range byTopic {
		topics = append(topics, *ts)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Topic < topics[j].Topic })

	var results []string
	if path, err := store.ResultsPath(); err == nil {
		results = store.ReadResultLines(path)
	}

	return &StatsScreen{
		questions: questions,
		topics:    topics,
		results:   results,
	}
}

func (s *StatsScreen) Init() tea.Cmd {
	return nil
}

func (s *StatsScreen) Title() string {
	return "Statistics"
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			if s.offset < len(s.questions)-1 {
				s.offset++
			}
		}
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	if len(s.questions) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  No questions yet — nothing to report.")
	}

	// Fixed sections get their space first; the table scrolls in
	// whatever is left.
	reserved := 10 + len(s.topics) + resultRows(len(s.results))
	tableRows := height - reserved
	if tableRows < 3 {
		tableRows = 3
	}
	if tableRows > len(s.questions) {
		tableRows = len(s.questions)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.renderTotals(width))
	b.WriteString("\n\n")
	b.WriteString(s.renderTable(width, tableRows))
	b.WriteString("\n")
	b.WriteString(s.renderTopics(width))
	b.WriteString("\n")
	b.WriteString(s.renderResults(width))
	return b.String()
}

func resultRows(n int) int {
	if n > maxResultsShown {
		n = maxResultsShown
	}
	if n == 0 {
		n = 1
	}
	return n + 3
}

func (s *StatsScreen) renderTable(width, rows int) string {
	if s.offset > len(s.questions)-rows {
		s.offset = len(s.questions) - rows
	}
	if s.offset < 0 {
		s.offset = 0
	}

	var b strings.Builder
	title := "  Question bank"
	if len(s.questions) > rows {
		title += "  (↑↓ to scroll)"
	}
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(title))
	b.WriteString("\n\n")

	promptWidth := width - 56
	if promptWidth < 10 {
		promptWidth = 10
	}

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %-4s %-3s %-7s %-12s %-5s %6s %9s  %s",
			"ID", "On", "Source", "Topic", "Type", "Shown", "Correct%", "Question")))
	b.WriteString("\n")

	end := s.offset + rows
	if end > len(s.questions) {
		end = len(s.questions)
	}
	for i := s.offset; i < end; i++ {
		q := s.questions[i]

		on := " "
		if q.Active {
			on = "✔"
		}
		kind := "free"
		if q.IsMultipleChoice() {
			kind = "mcq"
		}

		line := fmt.Sprintf("  %-4d %-3s %-7s %-12s %-5s %6d %8.1f%%  %s",
			q.ID, on, truncate(q.Source, 7), truncate(q.Topic, 12), kind,
			q.TimesShown, q.CorrectPercentage(), truncate(q.Prompt, promptWidth))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if !q.Active {
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

func (s *StatsScreen) renderTotals(width int) string {
	var active, shown, correct, incorrect int
	for _, q := range s.questions {
		if q.Active {
			active++
		}
		shown += q.TimesShown
		correct += q.CorrectCount
		incorrect += q.IncorrectCount
	}

	accuracy := 0.0
	if correct+incorrect > 0 {
		accuracy = float64(correct) / float64(correct+incorrect) * 100
	}

	line := fmt.Sprintf("%d questions (%d active)   %d answers   %.1f%% correct overall",
		len(s.questions), active, shown, accuracy)

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(line)
}

func (s *StatsScreen) renderTopics(width int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  Accuracy by topic"))
	b.WriteString("\n\n")

	barWidth := width - 8
	if barWidth > 60 {
		barWidth = 60
	}

	for _, ts := range s.topics {
		label := fmt.Sprintf("%-14s", truncate(ts.Topic, 14))
		bar := components.NewProgressBar(label, ts.accuracy(), true, barWidth)
		b.WriteString("  " + bar.View())
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  (%d questions)", ts.Questions)))
		b.WriteString("\n")
	}

	return b.String()
}

func (s *StatsScreen) renderResults(width int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  Recent test results"))
	b.WriteString("\n\n")

	if len(s.results) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render("  No tests taken yet."))
		return b.String()
	}

	recent := s.results
	if len(recent) > maxResultsShown {
		recent = recent[len(recent)-maxResultsShown:]
	}
	// Newest first.
	for i := len(recent) - 1; i >= 0; i-- {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.Text).
			Render("  " + recent[i]))
		b.WriteString("\n")
	}

	return b.String()
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
