package onboarding

import (
	"context"
	"errors"
	"strings"

	"github.com/looplab/fsm"

	"github.com/mbolis/study-abroad/log"
)

type State string

const (
	StateIdle       State = "idle"
	StateAsking     State = "asking"
	StateProcessing State = "processing"
	StateResults    State = "results"
)

const (
	eventStart  = "start"
	eventFinish = "finish"
	eventSettle = "settle"
)

var ErrNotIdle = errors.New("onboarding: flow already started")

// Submitter persists the answers once the last question is passed.
type Submitter interface {
	Submit(ctx context.Context, payload Payload) error
}

// Listener is a running speech-input session.
type Listener interface {
	Stop()
}

// Narrator reads prompts out loud.
type Narrator interface {
	Say(text string)
}

type Option func(*Flow)

func WithListener(l Listener) Option {
	return func(f *Flow) { f.listener = l }
}

func WithNarrator(n Narrator) Option {
	return func(f *Flow) { f.narrator = n }
}

type Prompt struct {
	Index       int
	Total       int
	Text        string
	Options     []string
	Placeholder string
	Suggestions []string
	MultiSelect bool
	Required    bool
	Last        bool
}

// Flow walks a questionnaire one question at a time and submits the answers
// after the last one. A Flow belongs to one session and is not safe for
// concurrent use.
type Flow struct {
	questions []Question
	submitter Submitter
	listener  Listener
	narrator  Narrator

	machine   *fsm.FSM
	current   int
	answers   Answers
	submitErr error
}

func NewFlow(questions []Question, submitter Submitter, opts ...Option) *Flow {
	f := &Flow{
		questions: questions,
		submitter: submitter,
		answers:   Answers{},
	}
	for _, opt := range opts {
		opt(f)
	}

	f.machine = fsm.NewFSM(
		string(StateIdle),
		fsm.Events{
			{Name: eventStart, Src: []string{string(StateIdle)}, Dst: string(StateAsking)},
			{Name: eventFinish, Src: []string{string(StateAsking)}, Dst: string(StateProcessing)},
			{Name: eventSettle, Src: []string{string(StateProcessing)}, Dst: string(StateResults)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Debugf("onboarding.flow: %s -> %s", e.Src, e.Dst)
			},
			"enter_" + string(StateAsking): func(_ context.Context, _ *fsm.Event) {
				f.current = 0
				f.answers = Answers{}
				f.submitErr = nil
			},
		},
	)
	return f
}

func (f *Flow) Start(ctx context.Context) error {
	if err := f.machine.Event(ctx, eventStart); err != nil {
		return ErrNotIdle
	}
	if len(f.questions) == 0 {
		f.complete(ctx)
		return nil
	}
	f.narrate()
	return nil
}

// Restart drops every answer and asks the first question again.
func (f *Flow) Restart(ctx context.Context) {
	f.stopListening()
	f.machine.SetState(string(StateIdle))
	_ = f.Start(ctx)
}

// Advance records raw as the answer to the current question and moves on.
// Empty input is ignored and reported as false.
func (f *Flow) Advance(ctx context.Context, raw string) bool {
	if f.State() != StateAsking {
		return false
	}
	input := strings.TrimSpace(raw)
	if input == "" {
		return false
	}

	f.answers[f.questions[f.current].ID] = input
	f.stopListening()
	f.next(ctx)
	return true
}

// Skip moves past an optional question without answering it.
func (f *Flow) Skip(ctx context.Context) bool {
	if f.State() != StateAsking || f.questions[f.current].Required {
		return false
	}
	f.next(ctx)
	return true
}

func (f *Flow) CurrentPrompt() (Prompt, bool) {
	if f.State() != StateAsking {
		return Prompt{}, false
	}
	q := f.questions[f.current]
	return Prompt{
		Index:       f.current,
		Total:       len(f.questions),
		Text:        q.Text,
		Options:     q.Options,
		Placeholder: q.Placeholder,
		Suggestions: q.Suggestions,
		MultiSelect: q.MultiSelect,
		Required:    q.Required,
		Last:        f.current == len(f.questions)-1,
	}, true
}

func (f *Flow) State() State {
	return State(f.machine.Current())
}

func (f *Flow) Position() int {
	return f.current
}

func (f *Flow) Answers() Answers {
	answers := make(Answers, len(f.answers))
	for k, v := range f.answers {
		answers[k] = v
	}
	return answers
}

// SubmitErr is the error returned by the Submitter, if any. The flow reaches
// the results state regardless.
func (f *Flow) SubmitErr() error {
	return f.submitErr
}

func (f *Flow) next(ctx context.Context) {
	if f.current < len(f.questions)-1 {
		f.current++
		f.narrate()
		return
	}
	f.complete(ctx)
}

func (f *Flow) complete(ctx context.Context) {
	if err := f.machine.Event(ctx, eventFinish); err != nil {
		log.Warnf("onboarding.flow.finish: %s", err)
		return
	}

	if f.submitter != nil {
		err := f.submitter.Submit(ctx, BuildPayload(f.answers))
		if err != nil {
			f.submitErr = err
			log.WithError(err).Error("onboarding.flow.submit")
		}
	}

	if err := f.machine.Event(ctx, eventSettle); err != nil {
		log.Warnf("onboarding.flow.settle: %s", err)
	}
}

func (f *Flow) narrate() {
	if f.narrator == nil {
		return
	}
	f.narrator.Say(f.questions[f.current].Text)
}

func (f *Flow) stopListening() {
	if f.listener != nil {
		f.listener.Stop()
	}
}
