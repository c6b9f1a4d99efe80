package onboarding

import (
	"context"
	"errors"
	"testing"
)

type fakeSubmitter struct {
	calls    int
	payloads []Payload
	err      error
}

func (s *fakeSubmitter) Submit(_ context.Context, p Payload) error {
	s.calls++
	s.payloads = append(s.payloads, p)
	return s.err
}

type fakeListener struct{ stops int }

func (l *fakeListener) Stop() { l.stops++ }

type fakeNarrator struct{ said []string }

func (n *fakeNarrator) Say(text string) { n.said = append(n.said, text) }

var testQuestions = []Question{
	{ID: "name", Text: "Name?", Required: true},
	{ID: "nickname", Text: "Nickname?"},
	{ID: "level", Text: "Level?", Options: []string{"UG", "PG"}, Required: true},
	{ID: "notes", Text: "Notes?"},
}

func startFlow(t *testing.T, s *fakeSubmitter, opts ...Option) *Flow {
	t.Helper()
	f := NewFlow(testQuestions, s, opts...)
	if err := f.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return f
}

func TestFlowStart(t *testing.T) {
	f := NewFlow(testQuestions, &fakeSubmitter{})
	if f.State() != StateIdle {
		t.Fatalf("State() = %s, want %s", f.State(), StateIdle)
	}
	if _, ok := f.CurrentPrompt(); ok {
		t.Error("CurrentPrompt() ok before start")
	}

	if err := f.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if f.State() != StateAsking || f.Position() != 0 {
		t.Errorf("after start: state %s position %d", f.State(), f.Position())
	}

	if err := f.Start(context.Background()); !errors.Is(err, ErrNotIdle) {
		t.Errorf("second Start() error = %v, want ErrNotIdle", err)
	}
}

func TestAdvanceRejectsEmptyRequired(t *testing.T) {
	ctx := context.Background()
	f := startFlow(t, &fakeSubmitter{})

	for _, input := range []string{"", "   ", "\t\n"} {
		if f.Advance(ctx, input) {
			t.Errorf("Advance(%q) = true, want false", input)
		}
		if f.Position() != 0 {
			t.Errorf("Advance(%q) moved position to %d", input, f.Position())
		}
		if len(f.Answers()) != 0 {
			t.Errorf("Advance(%q) recorded %v", input, f.Answers())
		}
	}
}

func TestAdvanceRecordsTrimmedAnswer(t *testing.T) {
	ctx := context.Background()
	listener := &fakeListener{}
	f := startFlow(t, &fakeSubmitter{}, WithListener(listener))

	if !f.Advance(ctx, "  Ada  ") {
		t.Fatal("Advance() = false, want true")
	}
	if got := f.Answers()["name"]; got != "Ada" {
		t.Errorf("answer = %q, want %q", got, "Ada")
	}
	if f.Position() != 1 {
		t.Errorf("Position() = %d, want 1", f.Position())
	}
	if listener.stops != 1 {
		t.Errorf("listener stopped %d times, want 1", listener.stops)
	}
}

func TestSkip(t *testing.T) {
	ctx := context.Background()
	f := startFlow(t, &fakeSubmitter{})

	if f.Skip(ctx) {
		t.Error("Skip() on required question = true, want false")
	}
	if f.Position() != 0 {
		t.Errorf("Skip() on required question moved to %d", f.Position())
	}

	f.Advance(ctx, "Ada")
	if !f.Skip(ctx) {
		t.Fatal("Skip() on optional question = false, want true")
	}
	if f.Position() != 2 {
		t.Errorf("Position() = %d, want 2", f.Position())
	}
	if _, ok := f.Answers()["nickname"]; ok {
		t.Error("skipped question has an answer")
	}
}

func TestCompletion(t *testing.T) {
	ctx := context.Background()
	s := &fakeSubmitter{}
	f := startFlow(t, s)

	f.Advance(ctx, "Ada")
	f.Skip(ctx)
	f.Advance(ctx, "PG")
	if f.State() != StateAsking {
		t.Fatalf("State() = %s before last question", f.State())
	}
	f.Skip(ctx)

	if f.State() != StateResults {
		t.Errorf("State() = %s, want %s", f.State(), StateResults)
	}
	if s.calls != 1 {
		t.Errorf("Submit called %d times, want 1", s.calls)
	}
	if got := len(f.Answers()); got != 2 {
		t.Errorf("len(Answers()) = %d, want 2", got)
	}
	if s.payloads[0].StudyLevel != "" {
		t.Errorf("payload StudyLevel = %q, want empty for unknown question IDs", s.payloads[0].StudyLevel)
	}

	// Further input after completion is ignored.
	if f.Advance(ctx, "more") || f.Skip(ctx) {
		t.Error("flow accepted input after completion")
	}
	if s.calls != 1 {
		t.Errorf("Submit called %d times after completion, want 1", s.calls)
	}
}

func TestCompletionSubmitFailure(t *testing.T) {
	ctx := context.Background()
	s := &fakeSubmitter{err: errors.New("save failed")}
	f := startFlow(t, s)

	f.Advance(ctx, "Ada")
	f.Advance(ctx, "Ace")
	f.Advance(ctx, "UG")
	f.Advance(ctx, "none")

	if f.State() != StateResults {
		t.Errorf("State() = %s, want %s", f.State(), StateResults)
	}
	if f.SubmitErr() == nil {
		t.Error("SubmitErr() = nil, want error")
	}
}

func TestDefaultQuestionsPayload(t *testing.T) {
	ctx := context.Background()
	s := &fakeSubmitter{}
	f := NewFlow(DefaultQuestions, s)
	if err := f.Start(ctx); err != nil {
		t.Fatal(err)
	}

	answers := map[string]string{
		"nationality":      "Indian",
		"qualification":    "Undergraduate",
		"marks":            "8.5 CGPA",
		"field":            "Computer Science",
		"budget":           "$20,000 - $40,000",
		"countries":        "Canada, Germany",
		"gaps":             "1 year",
		"career_goals":     "Research",
		"study_preference": "Mixed",
		"scholarship":      "Maybe",
		"timeline":         "6-12 months",
	}
	for {
		p, ok := f.CurrentPrompt()
		if !ok {
			break
		}
		q := DefaultQuestions[p.Index]
		if a, ok := answers[q.ID]; ok {
			f.Advance(ctx, a)
		} else if !f.Skip(ctx) {
			t.Fatalf("cannot skip required question %s", q.ID)
		}
	}

	if s.calls != 1 {
		t.Fatalf("Submit called %d times, want 1", s.calls)
	}
	if got := len(f.Answers()); got != len(answers) {
		t.Errorf("len(Answers()) = %d, want %d", got, len(answers))
	}

	want := Payload{
		PreferredCountries: "Canada, Germany",
		StudyLevel:         "Undergraduate",
		PreferredStream:    "Computer Science",
		GapYears:           1,
		BudgetMin:          20000,
		BudgetMax:          40000,
		ImportantFactors:   "Mixed",
		AdmissionReadiness: "Undergraduate",
		CampusLife:         "Mixed",
		SpecialInterests:   "Research",
		ScholarshipNeed:    ScholarshipImportant,
		StartDate:          "6-12 months",
	}
	if s.payloads[0] != want {
		t.Errorf("payload = %+v, want %+v", s.payloads[0], want)
	}
}

func TestCurrentPromptAndNarration(t *testing.T) {
	ctx := context.Background()
	n := &fakeNarrator{}
	f := startFlow(t, &fakeSubmitter{}, WithNarrator(n))

	p, ok := f.CurrentPrompt()
	if !ok {
		t.Fatal("CurrentPrompt() not ok while asking")
	}
	if p.Text != "Name?" || p.Total != 4 || !p.Required || p.Last {
		t.Errorf("unexpected prompt %+v", p)
	}

	f.Advance(ctx, "Ada")
	f.Skip(ctx)
	p, _ = f.CurrentPrompt()
	if len(p.Options) != 2 {
		t.Errorf("Options = %v, want 2 choices", p.Options)
	}

	f.Advance(ctx, "UG")
	p, _ = f.CurrentPrompt()
	if !p.Last {
		t.Error("Last = false on final question")
	}

	want := []string{"Name?", "Nickname?", "Level?", "Notes?"}
	if len(n.said) != len(want) {
		t.Fatalf("narrated %v, want %v", n.said, want)
	}
	for i := range want {
		if n.said[i] != want[i] {
			t.Errorf("narration[%d] = %q, want %q", i, n.said[i], want[i])
		}
	}
}

func TestRestart(t *testing.T) {
	ctx := context.Background()
	listener := &fakeListener{}
	s := &fakeSubmitter{}
	f := startFlow(t, s, WithListener(listener))

	f.Advance(ctx, "Ada")
	f.Restart(ctx)

	if f.State() != StateAsking || f.Position() != 0 {
		t.Errorf("after restart: state %s position %d", f.State(), f.Position())
	}
	if len(f.Answers()) != 0 {
		t.Errorf("answers kept after restart: %v", f.Answers())
	}
	if listener.stops != 2 {
		t.Errorf("listener stopped %d times, want 2", listener.stops)
	}
	if s.calls != 0 {
		t.Errorf("Submit called %d times, want 0", s.calls)
	}
}

func TestEmptyQuestionnaire(t *testing.T) {
	s := &fakeSubmitter{}
	f := NewFlow(nil, s)
	if err := f.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.State() != StateResults {
		t.Errorf("State() = %s, want %s", f.State(), StateResults)
	}
	if s.calls != 1 {
		t.Errorf("Submit called %d times, want 1", s.calls)
	}
}
