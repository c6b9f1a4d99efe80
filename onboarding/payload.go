package onboarding

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultBudgetMin = 0
	DefaultBudgetMax = 100000
)

// Answers maps a question ID to the trimmed answer given for it.
type Answers map[string]string

// Payload is the body accepted by the save endpoint.
type Payload struct {
	PreferredCountries  string  `json:"q1"`
	StudyLevel          string  `json:"q2"`
	PreferredStream     string  `json:"q3"`
	GapYears            int     `json:"q4"`
	BudgetMin           float64 `json:"q5_min"`
	BudgetMax           float64 `json:"q5_max"`
	ImportantFactors    string  `json:"q6"`
	AdmissionReadiness  string  `json:"q7"`
	LanguageProficiency string  `json:"q8"`
	CampusLife          string  `json:"q9"`
	SpecialInterests    string  `json:"q10"`
	ScholarshipNeed     string  `json:"q11"`
	StartDate           string  `json:"q12"`
}

const (
	ScholarshipEssential   = "Essential"
	ScholarshipImportant   = "Important"
	ScholarshipNotRequired = "Not Required"
)

func BuildPayload(answers Answers) Payload {
	min, max := ParseBudget(answers["budget"])

	return Payload{
		PreferredCountries:  answers["countries"],
		StudyLevel:          answers["qualification"],
		PreferredStream:     answers["field"],
		GapYears:            leadingInt(answers["gaps"]),
		BudgetMin:           min,
		BudgetMax:           max,
		ImportantFactors:    answers["study_preference"],
		AdmissionReadiness:  answers["qualification"],
		LanguageProficiency: answers["english"],
		CampusLife:          answers["study_preference"],
		SpecialInterests:    answers["career_goals"],
		ScholarshipNeed:     scholarshipNeed(answers["scholarship"]),
		StartDate:           answers["timeline"],
	}
}

func scholarshipNeed(answer string) string {
	switch answer {
	case "Yes":
		return ScholarshipEssential
	case "Maybe":
		return ScholarshipImportant
	default:
		return ScholarshipNotRequired
	}
}

var (
	reNotNumeric = regexp.MustCompile(`[^0-9.]`)
	reLeadingNum = regexp.MustCompile(`^(?:[0-9]+\.?[0-9]*|\.[0-9]+)`)
	reLeadingInt = regexp.MustCompile(`^[+-]?[0-9]+`)
)

// ParseBudget reads a range such as "$20,000 - $40,000". Bounds that are
// missing, unparsable or zero fall back to DefaultBudgetMin and DefaultBudgetMax.
func ParseBudget(budget string) (min, max float64) {
	min, max = DefaultBudgetMin, DefaultBudgetMax
	if budget == "" {
		return
	}

	parts := strings.Split(budget, "-")
	if v, ok := budgetBound(parts[0]); ok {
		min = v
	}
	if len(parts) > 1 {
		if v, ok := budgetBound(parts[1]); ok {
			max = v
		}
	}
	return
}

func budgetBound(s string) (float64, bool) {
	num := reLeadingNum.FindString(reNotNumeric.ReplaceAllString(s, ""))
	if num == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}

func leadingInt(s string) int {
	n, err := strconv.Atoi(reLeadingInt.FindString(strings.TrimSpace(s)))
	if err != nil {
		return 0
	}
	return n
}
