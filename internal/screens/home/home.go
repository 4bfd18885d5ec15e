// Package home implements the main menu screen.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizdrill/quizdrill/internal/evaluator"
	"github.com/quizdrill/quizdrill/internal/judge"
	"github.com/quizdrill/quizdrill/internal/llm"
	"github.com/quizdrill/quizdrill/internal/quizgen"
	"github.com/quizdrill/quizdrill/internal/router"
	"github.com/quizdrill/quizdrill/internal/screen"
	"github.com/quizdrill/quizdrill/internal/screens/generate"
	"github.com/quizdrill/quizdrill/internal/screens/manage"
	"github.com/quizdrill/quizdrill/internal/screens/practice"
	"github.com/quizdrill/quizdrill/internal/screens/stats"
	testscreen "github.com/quizdrill/quizdrill/internal/screens/test"
	"github.com/quizdrill/quizdrill/internal/store"
	"github.com/quizdrill/quizdrill/internal/ui/components"
	"github.com/quizdrill/quizdrill/internal/ui/theme"
)

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	menu        components.Menu
	store       *store.Store
	llmReady    bool
	activeCount int
	totalCount  int
	topicCount  int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen. The provider may be nil when no LLM is
// configured; generation is then disabled and freeform answers cannot
// be judged.
func New(st *store.Store, provider llm.Provider) *HomeScreen {
	var jdg evaluator.Judge
	var gen *quizgen.Generator
	if provider != nil {
		jdg = judge.New(provider)
		gen = quizgen.New(provider)
	}

	items := []components.MenuItem{
		{Label: "PRACTICE", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: practice.New(st, jdg)}
			}
		}},
		{Label: "TEST", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: testscreen.New(st, jdg)}
			}
		}},
		{Label: "GENERATE QUESTIONS", Disabled: provider == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: generate.New(st, gen)}
			}
		}},
		{Label: "MANAGE BANK", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: manage.New(st)}
			}
		}},
		{Label: "STATISTICS", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: stats.New(st)}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	h := &HomeScreen{
		menu:     components.NewMenu(items),
		store:    st,
		llmReady: provider != nil,
	}
	h.refreshCounts()
	return h
}

func (h *HomeScreen) refreshCounts() {
	questions := h.store.ListAll()
	topics := make(map[string]struct{})
	active := 0
	for _, q := range questions {
		topics[q.Topic] = struct{}{}
		if q.Active {
			active++
		}
	}
	h.totalCount = len(questions)
	h.activeCount = active
	h.topicCount = len(topics)
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	// The bank may have changed while a pushed screen was active.
	h.refreshCounts()

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	title := theme.Title.Width(width).Render("QuizDrill")
	subtitle := theme.Subtitle.Width(width).Render("Practice. Test. Improve.")
	sections = append(sections, title+"\n"+subtitle)

	summary := fmt.Sprintf("%d questions · %d active · %d topics",
		h.totalCount, h.activeCount, h.topicCount)
	if !h.llmReady {
		summary += "   (no LLM configured)"
	}
	sections = append(sections, lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(summary))

	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))

	content := strings.Join(sections, "\n\n")

	return lipgloss.NewStyle().
		Height(height).
		Width(width).
		AlignVertical(lipgloss.Center).
		Render(content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
