package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/study-abroad/client"
	"github.com/mbolis/study-abroad/httpx"
	"github.com/mbolis/study-abroad/log"
	"github.com/mbolis/study-abroad/model"
	"github.com/mbolis/study-abroad/onboarding"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestResolveAnswer(t *testing.T) {
	single := onboarding.Prompt{Options: []string{"Yes", "No", "Maybe"}}
	multi := onboarding.Prompt{Suggestions: []string{"USA", "UK", "Canada"}, MultiSelect: true}
	free := onboarding.Prompt{}

	tests := []struct {
		name   string
		prompt onboarding.Prompt
		input  string
		want   string
	}{
		{"option number", single, "3", "Maybe"},
		{"option text", single, "No", "No"},
		{"out of range", single, "7", "7"},
		{"multiple numbers", multi, "1, 3", "USA, Canada"},
		{"mixed", multi, "2,Germany", "UK, Germany"},
		{"free text keeps commas", free, "8, maybe 9", "8, maybe 9"},
		{"single select keeps commas", single, "1, 2", "1, 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveAnswer(tt.prompt, tt.input); got != tt.want {
				t.Errorf("resolveAnswer(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

type fakeServer struct {
	saved        []onboarding.Payload
	matchesError bool
}

func (f *fakeServer) start(t *testing.T) *client.Client {
	t.Helper()

	r := chi.NewRouter()
	r.Post("/api/login", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, httpx.TokenResponse{AccessToken: "t"})
	})
	r.Post("/api/onboarding/save", func(w http.ResponseWriter, r *http.Request) {
		var p onboarding.Payload
		json.NewDecoder(r.Body).Decode(&p)
		f.saved = append(f.saved, p)
		render.JSON(w, r, map[string]any{"success": true})
	})
	r.Get("/api/matches", func(w http.ResponseWriter, r *http.Request) {
		if f.matchesError {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		render.JSON(w, r, model.MatchPage{
			Matches: []model.Match{{Name: "University of Toronto", City: "Toronto", Country: "Canada", MatchScore: 100}},
			Total:   1,
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c := client.New(srv.URL, srv.Client())
	if err := c.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return c
}

var terminalInput = strings.Join([]string{
	"Indian",
	"4",
	"8.5 CGPA",
	"1, 5",
	"2",
	"",
	"Canada, 5",
	"",
	"",
	"Research",
	"3",
	"1",
	"3",
}, "\n") + "\n"

func TestRun(t *testing.T) {
	srv := &fakeServer{}
	c := srv.start(t)

	var out bytes.Buffer
	if err := run(context.Background(), c, strings.NewReader(terminalInput), &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(srv.saved) != 1 {
		t.Fatalf("server received %d payloads, want 1", len(srv.saved))
	}
	got := srv.saved[0]
	if got.StudyLevel != "Postgraduate" || got.PreferredStream != "Computer Science, Data Science" ||
		got.PreferredCountries != "Canada, Germany" || got.BudgetMin != 20000 || got.BudgetMax != 40000 ||
		got.ScholarshipNeed != onboarding.ScholarshipEssential || got.StartDate != "1-2 years" {
		t.Errorf("payload = %+v", got)
	}

	// the blank line on the required career question is rejected, not skipped
	if !strings.Contains(out.String(), "An answer is required.") {
		t.Error("output does not reject the empty required answer")
	}
	if !strings.Contains(out.String(), "University of Toronto (Toronto, Canada)") {
		t.Errorf("output does not list the match:\n%s", out.String())
	}
}

func TestRunMatchesUnavailable(t *testing.T) {
	srv := &fakeServer{matchesError: true}
	c := srv.start(t)

	var out bytes.Buffer
	if err := run(context.Background(), c, strings.NewReader(terminalInput), &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Matches are not available right now.") {
		t.Errorf("output lacks the placeholder:\n%s", out.String())
	}
}

func TestRunInputEnds(t *testing.T) {
	c := (&fakeServer{}).start(t)

	err := run(context.Background(), c, strings.NewReader("Indian\n"), &bytes.Buffer{})
	if err == nil {
		t.Error("run succeeded on truncated input")
	}
}
