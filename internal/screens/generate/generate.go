// Package generate implements the LLM question generation screen:
// pick a topic and batch size, review each generated question, and
// accept, edit, or skip it before anything reaches the bank.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/quizdrill/quizdrill/internal/question"
	"github.com/quizdrill/quizdrill/internal/quizgen"
	"github.com/quizdrill/quizdrill/internal/screen"
	"github.com/quizdrill/quizdrill/internal/store"
	"github.com/quizdrill/quizdrill/internal/ui/components"
	"github.com/quizdrill/quizdrill/internal/ui/layout"
)

type phase int

const (
	phaseTopic phase = iota
	phaseMCQCount
	phaseFreeformCount
	phaseGenerating
	phaseReview
	phaseEditing
	phaseDone
)

// generatedMsg is sent when the LLM batch has been generated.
type generatedMsg struct {
	Questions []*question.Question
	Err       error
}

// editField identifies one editable field of a draft question.
type editField struct {
	label string
	get   func(q *question.Question) string
	set   func(q *question.Question, v string)

	// mustMatchOption rejects values not among the question's options.
	mustMatchOption bool
}

// editFields lists the fields a draft of this kind offers for editing.
func editFields(q *question.Question) []editField {
	fields := []editField{{
		label: "Question text",
		get:   func(q *question.Question) string { return q.Prompt },
		set:   func(q *question.Question, v string) { q.Prompt = v },
	}}

	if q.IsMultipleChoice() {
		for i := range q.DisplayOptions() {
			fields = append(fields, editField{
				label: fmt.Sprintf("Option %s", string(rune('A'+i))),
				get:   func(q *question.Question) string { return q.Options[i] },
				set:   func(q *question.Question, v string) { q.Options[i] = v },
			})
		}
		fields = append(fields, editField{
			label:           "Correct answer",
			get:             func(q *question.Question) string { return q.CorrectAnswer },
			set:             func(q *question.Question, v string) { q.CorrectAnswer = v },
			mustMatchOption: true,
		})
		return fields
	}

	return append(fields, editField{
		label: "Reference answer",
		get:   func(q *question.Question) string { return q.ReferenceAnswer },
		set:   func(q *question.Question, v string) { q.ReferenceAnswer = v },
	})
}

// GenerateScreen implements screen.Screen for question generation.
type GenerateScreen struct {
	store *store.Store
	gen   *quizgen.Generator

	phase      phase
	topicInput components.TextInput
	mcqInput   components.TextInput
	ffInput    components.TextInput
	editInput  components.TextInput

	params    quizgen.Params
	generated []*question.Question
	idx       int
	accepted  []*question.Question
	skipped   int

	fields      []editField
	fieldIdx    int
	editChanged bool

	errMsg  string
	errType string
	errRaw  string
}

var _ screen.Screen = (*GenerateScreen)(nil)
var _ screen.KeyHintProvider = (*GenerateScreen)(nil)

// New creates a GenerateScreen.
func New(st *store.Store, gen *quizgen.Generator) *GenerateScreen {
	return &GenerateScreen{
		store:      st,
		gen:        gen,
		topicInput: components.NewTextInput("e.g. geography", false, 100),
		mcqInput:   components.NewTextInput("3", true, 2),
		ffInput:    components.NewTextInput("1", true, 2),
	}
}

func (g *GenerateScreen) Init() tea.Cmd {
	return g.topicInput.Init()
}

func (g *GenerateScreen) Title() string {
	return "Generate"
}

func (g *GenerateScreen) KeyHints() []layout.KeyHint {
	switch g.phase {
	case phaseReview:
		return []layout.KeyHint{
			{Key: "A", Description: "Accept"},
			{Key: "E", Description: "Edit"},
			{Key: "S", Description: "Skip"},
		}
	case phaseEditing:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next field"},
		}
	case phaseDone:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	case phaseGenerating:
		return nil
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (g *GenerateScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		if msg.Err != nil {
			g.errMsg = msg.Err.Error()
			var genErr *quizgen.Error
			if errors.As(msg.Err, &genErr) {
				g.errType = genErr.Type
				g.errRaw = genErr.Raw
			}
			g.phase = phaseTopic
			return g, nil
		}
		g.generated = msg.Questions
		g.idx = 0
		g.phase = phaseReview
		return g, nil

	case tea.KeyMsg:
		return g.handleKey(msg)
	}

	return g.forwardToInput(msg)
}

func (g *GenerateScreen) forwardToInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch g.phase {
	case phaseTopic:
		g.topicInput, cmd = g.topicInput.Update(msg)
	case phaseMCQCount:
		g.mcqInput, cmd = g.mcqInput.Update(msg)
	case phaseFreeformCount:
		g.ffInput, cmd = g.ffInput.Update(msg)
	case phaseEditing:
		g.editInput, cmd = g.editInput.Update(msg)
	}
	return g, cmd
}

func (g *GenerateScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch g.phase {
	case phaseTopic:
		if key == "enter" {
			topic := g.topicInput.Value()
			if topic == "" {
				g.errMsg = "Topic must not be blank"
				return g, nil
			}
			g.errMsg = ""
			g.errType = ""
			g.errRaw = ""
			g.params = quizgen.DefaultParams(topic)
			g.phase = phaseMCQCount
			return g, g.mcqInput.Init()
		}

	case phaseMCQCount:
		if key == "enter" {
			if v, err := g.mcqInput.NumericValue(); err == nil {
				g.params.NumMCQ = v
			}
			g.phase = phaseFreeformCount
			return g, g.ffInput.Init()
		}

	case phaseFreeformCount:
		if key == "enter" {
			if v, err := g.ffInput.NumericValue(); err == nil {
				g.params.NumFreeform = v
			}
			g.phase = phaseGenerating
			return g, g.generate()
		}

	case phaseGenerating:
		return g, nil

	case phaseReview:
		switch key {
		case "a", "A":
			g.accept(false)
			return g, nil
		case "e", "E":
			g.phase = phaseEditing
			g.fields = editFields(g.currentQuestion())
			g.fieldIdx = 0
			g.editChanged = false
			return g, g.startEditField()
		case "s", "S":
			g.skipped++
			g.advance()
			return g, nil
		}
		return g, nil

	case phaseEditing:
		if key == "enter" {
			return g.submitEditField()
		}

	case phaseDone:
		return g, nil
	}

	return g.forwardToInput(msg)
}

// startEditField opens the input for the current edit field, prefilled
// with the field's current value.
func (g *GenerateScreen) startEditField() tea.Cmd {
	f := g.fields[g.fieldIdx]
	g.editInput = components.NewTextInput(f.label, false, 500)
	g.editInput.Model.SetValue(f.get(g.currentQuestion()))
	return g.editInput.Init()
}

// submitEditField applies the current field's value and moves on. The
// last field accepts the draft; any change flips its provenance.
func (g *GenerateScreen) submitEditField() (screen.Screen, tea.Cmd) {
	q := g.currentQuestion()
	f := g.fields[g.fieldIdx]
	v := g.editInput.Value()

	if v != "" && v != f.get(q) {
		if f.mustMatchOption && !matchesOption(q, v) {
			g.errMsg = "Correct answer must match one of the options"
			return g, nil
		}
		f.set(q, v)
		g.editChanged = true
	}
	g.errMsg = ""

	g.fieldIdx++
	if g.fieldIdx < len(g.fields) {
		return g, g.startEditField()
	}
	g.accept(g.editChanged)
	return g, nil
}

func matchesOption(q *question.Question, answer string) bool {
	for _, opt := range q.DisplayOptions() {
		if strings.EqualFold(strings.TrimSpace(opt), strings.TrimSpace(answer)) {
			return true
		}
	}
	return false
}

func (g *GenerateScreen) currentQuestion() *question.Question {
	if g.idx < 0 || g.idx >= len(g.generated) {
		return nil
	}
	return g.generated[g.idx]
}

// accept takes the current question into the batch. A human edit
// changes the question's provenance from LLM to manual.
func (g *GenerateScreen) accept(edited bool) {
	q := g.currentQuestion()
	if q == nil {
		return
	}
	if edited {
		q.Source = question.SourceManual
	}
	g.accepted = append(g.accepted, q)
	g.advance()
}

func (g *GenerateScreen) advance() {
	g.idx++
	if g.idx < len(g.generated) {
		g.phase = phaseReview
		return
	}
	if len(g.accepted) > 0 {
		g.store.AddQuestions(g.accepted)
	}
	g.phase = phaseDone
}

// generate runs the LLM batch asynchronously.
func (g *GenerateScreen) generate() tea.Cmd {
	gen := g.gen
	params := g.params

	var existing []string
	for _, q := range g.store.ListAll() {
		if q.Topic == params.Topic {
			existing = append(existing, q.Prompt)
		}
	}
	params.Existing = existing

	return func() tea.Msg {
		questions, err := gen.Generate(context.Background(), params)
		return generatedMsg{Questions: questions, Err: err}
	}
}
