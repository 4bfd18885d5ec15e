// Package practice implements the endless practice screen. Questions
// are drawn with weighted sampling so the ones the user keeps getting
// wrong come up more often.
package practice

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/quizdrill/quizdrill/internal/evaluator"
	"github.com/quizdrill/quizdrill/internal/llm"
	"github.com/quizdrill/quizdrill/internal/question"
	"github.com/quizdrill/quizdrill/internal/screen"
	"github.com/quizdrill/quizdrill/internal/selector"
	"github.com/quizdrill/quizdrill/internal/store"
	"github.com/quizdrill/quizdrill/internal/ui/components"
	"github.com/quizdrill/quizdrill/internal/ui/layout"
)

type phase int

const (
	phaseAsking phase = iota
	phaseJudging
	phaseFeedback
)

// PracticeScreen implements screen.Screen for practice mode.
type PracticeScreen struct {
	store     *store.Store
	judge     evaluator.Judge
	sessionID string

	current *question.Question
	phase   phase
	mc      components.MultiChoice
	input   components.TextInput
	verdict evaluator.Verdict

	answered int
	correct  int
	errMsg   string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.StatusProvider = (*PracticeScreen)(nil)

// New creates a PracticeScreen. The judge may be nil when no LLM
// provider is configured; freeform answers then evaluate to an error
// verdict instead of calling out.
func New(st *store.Store, jdg evaluator.Judge) *PracticeScreen {
	return &PracticeScreen{
		store:     st,
		judge:     jdg,
		sessionID: uuid.New().String(),
		input:     components.NewTextInput("Type your answer...", false, 200),
	}
}

func (p *PracticeScreen) Init() tea.Cmd {
	return tea.Batch(p.nextQuestion(), p.input.Init())
}

func (p *PracticeScreen) Title() string {
	return "Practice"
}

func (p *PracticeScreen) HeaderStatus() string {
	if p.answered == 0 {
		return ""
	}
	return scoreStatus(p.correct, p.answered)
}

func (p *PracticeScreen) KeyHints() []layout.KeyHint {
	switch p.phase {
	case phaseFeedback:
		return []layout.KeyHint{
			{Key: "any key", Description: "Next question"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseJudging:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (p *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionReadyMsg:
		if msg.Err != nil {
			p.errMsg = msg.Err.Error()
			return p, nil
		}
		p.setQuestion(msg.Question)
		return p, p.input.Init()

	case verdictMsg:
		p.applyVerdict(msg.Verdict)
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	if p.phase == phaseAsking && p.current != nil && !p.current.IsMultipleChoice() {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}

	return p, nil
}

func (p *PracticeScreen) setQuestion(q *question.Question) {
	p.current = q
	p.phase = phaseAsking
	if q.IsMultipleChoice() {
		p.mc = components.NewMultiChoice(q.Prompt, q.DisplayOptions(), correctIndex(q))
	} else {
		p.input = components.NewTextInput("Type your answer...", false, 200)
	}
}

func (p *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if p.errMsg != "" || p.current == nil {
		return p, nil
	}

	switch p.phase {
	case phaseFeedback:
		return p, p.nextQuestion()

	case phaseJudging:
		return p, nil
	}

	key := msg.String()

	if p.current.IsMultipleChoice() {
		switch key {
		case "1", "2", "3", "4":
			idx := int(key[0] - '1')
			if idx < len(p.current.DisplayOptions()) {
				p.mc.Selected = idx
				p.mc.Submitted = true
				p.mc.ChosenIndex = idx
			}
		default:
			p.mc, _ = p.mc.Update(msg)
		}
		if p.mc.Submitted {
			return p.submitChoice()
		}
		return p, nil
	}

	if key == "enter" {
		answer := p.input.Value()
		p.phase = phaseJudging
		return p, p.judgeAnswer(p.current, answer)
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *PracticeScreen) submitChoice() (screen.Screen, tea.Cmd) {
	options := p.current.DisplayOptions()
	if p.mc.ChosenIndex < 0 || p.mc.ChosenIndex >= len(options) {
		return p, nil
	}
	p.applyVerdict(evaluator.EvaluateMCQ(p.current, options[p.mc.ChosenIndex]))
	return p, nil
}

// judgeAnswer evaluates a freeform answer asynchronously; the judge
// call can take seconds.
func (p *PracticeScreen) judgeAnswer(q *question.Question, answer string) tea.Cmd {
	jdg := p.judge
	sessionID := p.sessionID
	return func() tea.Msg {
		if jdg == nil {
			return verdictMsg{Verdict: evaluator.Verdict{
				Correct:     false,
				Explanation: "LLM error: no LLM provider configured",
			}}
		}
		ctx := llm.WithSession(context.Background(), sessionID)
		return verdictMsg{Verdict: evaluator.EvaluateFreeform(ctx, q, answer, jdg)}
	}
}

func (p *PracticeScreen) applyVerdict(v evaluator.Verdict) {
	p.verdict = v
	p.phase = phaseFeedback
	p.answered++
	if v.Correct {
		p.correct++
	}
	p.store.RecordResult(p.current, v.Correct)
}

// nextQuestion draws the next question by weight.
func (p *PracticeScreen) nextQuestion() tea.Cmd {
	st := p.store
	return func() tea.Msg {
		q, err := selector.WeightedChoice(st.ListActive())
		if err != nil {
			return questionReadyMsg{Err: err}
		}
		return questionReadyMsg{Question: q}
	}
}

// correctIndex finds the option matching the question's correct answer.
func correctIndex(q *question.Question) int {
	for i, opt := range q.DisplayOptions() {
		if strings.EqualFold(strings.TrimSpace(opt), strings.TrimSpace(q.CorrectAnswer)) {
			return i
		}
	}
	return -1
}
