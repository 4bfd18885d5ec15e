// Package test implements test mode: a fixed-length quiz over randomly
// drawn questions, scored at the end and appended to the results log.
package test

import (
	"context"
	"strings"
	"time"

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

// DefaultLength is the question count used when the user submits a
// blank count.
const DefaultLength = 5

type phase int

const (
	phaseSetup phase = iota
	phaseAsking
	phaseJudging
	phaseFeedback
	phaseDone
)

// verdictMsg is sent when the current answer has been evaluated.
type verdictMsg struct {
	Verdict evaluator.Verdict
}

// TestScreen implements screen.Screen for test mode.
type TestScreen struct {
	store     *store.Store
	judge     evaluator.Judge
	sessionID string

	phase      phase
	countInput components.TextInput

	queue   []*question.Question
	idx     int
	mc      components.MultiChoice
	input   components.TextInput
	verdict evaluator.Verdict

	correct int
	errMsg  string
	saveErr error
}

var _ screen.Screen = (*TestScreen)(nil)
var _ screen.KeyHintProvider = (*TestScreen)(nil)
var _ screen.StatusProvider = (*TestScreen)(nil)

// New creates a TestScreen. The judge may be nil; freeform answers then
// evaluate to an error verdict.
func New(st *store.Store, jdg evaluator.Judge) *TestScreen {
	return &TestScreen{
		store:      st,
		judge:      jdg,
		sessionID:  uuid.New().String(),
		countInput: components.NewTextInput("5", true, 3),
	}
}

func (t *TestScreen) Init() tea.Cmd {
	return t.countInput.Init()
}

func (t *TestScreen) Title() string {
	return "Test"
}

func (t *TestScreen) HeaderStatus() string {
	if t.phase == phaseSetup || len(t.queue) == 0 {
		return ""
	}
	done := t.idx
	if t.phase == phaseDone {
		done = len(t.queue)
	}
	return scoreStatus(done, len(t.queue))
}

func (t *TestScreen) KeyHints() []layout.KeyHint {
	switch t.phase {
	case phaseSetup:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseFeedback:
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	case phaseDone:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Abandon test"},
		}
	}
}

func (t *TestScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case verdictMsg:
		t.applyVerdict(msg.Verdict)
		return t, nil

	case tea.KeyMsg:
		return t.handleKey(msg)
	}

	switch t.phase {
	case phaseSetup:
		var cmd tea.Cmd
		t.countInput, cmd = t.countInput.Update(msg)
		return t, cmd
	case phaseAsking:
		if t.current() != nil && !t.current().IsMultipleChoice() {
			var cmd tea.Cmd
			t.input, cmd = t.input.Update(msg)
			return t, cmd
		}
	}

	return t, nil
}

func (t *TestScreen) current() *question.Question {
	if t.idx < 0 || t.idx >= len(t.queue) {
		return nil
	}
	return t.queue[t.idx]
}

func (t *TestScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if t.errMsg != "" {
		return t, nil
	}

	key := msg.String()

	switch t.phase {
	case phaseSetup:
		if key == "enter" {
			return t.startTest()
		}
		var cmd tea.Cmd
		t.countInput, cmd = t.countInput.Update(msg)
		return t, cmd

	case phaseJudging:
		return t, nil

	case phaseFeedback:
		t.advance()
		return t, t.input.Init()

	case phaseDone:
		return t, nil
	}

	q := t.current()
	if q == nil {
		return t, nil
	}

	if q.IsMultipleChoice() {
		switch key {
		case "1", "2", "3", "4":
			idx := int(key[0] - '1')
			if idx < len(q.DisplayOptions()) {
				t.mc.Selected = idx
				t.mc.Submitted = true
				t.mc.ChosenIndex = idx
			}
		default:
			t.mc, _ = t.mc.Update(msg)
		}
		if t.mc.Submitted {
			options := q.DisplayOptions()
			if t.mc.ChosenIndex >= 0 && t.mc.ChosenIndex < len(options) {
				t.applyVerdict(evaluator.EvaluateMCQ(q, options[t.mc.ChosenIndex]))
			}
		}
		return t, nil
	}

	if key == "enter" {
		answer := t.input.Value()
		t.phase = phaseJudging
		return t, t.judgeAnswer(q, answer)
	}

	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return t, cmd
}

func (t *TestScreen) startTest() (screen.Screen, tea.Cmd) {
	n := DefaultLength
	if v, err := t.countInput.NumericValue(); err == nil && v > 0 {
		n = v
	}

	active := t.store.ListActive()
	if len(active) == 0 {
		t.errMsg = selector.ErrNoQuestions.Error()
		return t, nil
	}

	t.queue = selector.RandomUnique(active, n)
	t.idx = 0
	t.correct = 0
	t.setupQuestion()
	return t, t.input.Init()
}

func (t *TestScreen) setupQuestion() {
	t.phase = phaseAsking
	q := t.current()
	if q == nil {
		return
	}
	if q.IsMultipleChoice() {
		t.mc = components.NewMultiChoice(q.Prompt, q.DisplayOptions(), correctIndex(q))
	} else {
		t.input = components.NewTextInput("Type your answer...", false, 200)
	}
}

func (t *TestScreen) judgeAnswer(q *question.Question, answer string) tea.Cmd {
	jdg := t.judge
	sessionID := t.sessionID
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

func (t *TestScreen) applyVerdict(v evaluator.Verdict) {
	t.verdict = v
	t.phase = phaseFeedback
	if v.Correct {
		t.correct++
	}
	t.store.RecordResult(t.current(), v.Correct)
}

// advance moves to the next question, or finishes and logs the score.
func (t *TestScreen) advance() {
	t.idx++
	if t.idx < len(t.queue) {
		t.setupQuestion()
		return
	}

	t.phase = phaseDone
	t.saveErr = t.saveResult()
}

func (t *TestScreen) saveResult() error {
	path, err := store.ResultsPath()
	if err != nil {
		return err
	}
	line := store.FormatResultLine(time.Now(), t.correct, len(t.queue))
	return store.AppendResultLine(path, line)
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
