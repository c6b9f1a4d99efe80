package onboarding

import "testing"

func TestParseBudget(t *testing.T) {
	tests := []struct {
		in       string
		min, max float64
	}{
		{"$20,000 - $40,000", 20000, 40000},
		{"$10,000 - $20,000", 10000, 20000},
		{"$60,000+", 60000, 100000},
		{"", 0, 100000},
		{"about twenty thousand", 0, 100000},
		{"- $30,000", 0, 30000},
		{"$5,000 -", 5000, 100000},
		{"12.5k-30.5k", 12.5, 30.5},
		{"$0 - $0", 0, 100000},
	}

	for _, tt := range tests {
		min, max := ParseBudget(tt.in)
		if min != tt.min || max != tt.max {
			t.Errorf("ParseBudget(%q) = (%v, %v), want (%v, %v)", tt.in, min, max, tt.min, tt.max)
		}
	}
}

func TestBuildPayloadGapYears(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"0 years", 0},
		{"2 years", 2},
		{"3+ years", 3},
		{"none", 0},
		{"", 0},
	}

	for _, tt := range tests {
		p := BuildPayload(Answers{"gaps": tt.in})
		if p.GapYears != tt.want {
			t.Errorf("gaps %q: GapYears = %d, want %d", tt.in, p.GapYears, tt.want)
		}
	}
}

func TestBuildPayloadScholarship(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Yes", ScholarshipEssential},
		{"Maybe", ScholarshipImportant},
		{"No", ScholarshipNotRequired},
		{"", ScholarshipNotRequired},
	}

	for _, tt := range tests {
		p := BuildPayload(Answers{"scholarship": tt.in})
		if p.ScholarshipNeed != tt.want {
			t.Errorf("scholarship %q: ScholarshipNeed = %q, want %q", tt.in, p.ScholarshipNeed, tt.want)
		}
	}
}

func TestBuildPayloadEmpty(t *testing.T) {
	p := BuildPayload(Answers{})
	want := Payload{BudgetMin: 0, BudgetMax: 100000, ScholarshipNeed: ScholarshipNotRequired}
	if p != want {
		t.Errorf("BuildPayload(empty) = %+v, want %+v", p, want)
	}
}
