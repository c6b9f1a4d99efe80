package model

import "time"

type User struct {
	ID       int    `json:"id,omitempty"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
}

// OnboardingResponse is the stored form of a user's questionnaire answers.
type OnboardingResponse struct {
	UserID              int       `json:"user_id"`
	PreferredCountries  string    `json:"preferred_countries"`
	StudyLevel          string    `json:"study_level"`
	PreferredStream     string    `json:"preferred_stream"`
	GapYears            int       `json:"gap_years"`
	BudgetMin           float64   `json:"budget_min"`
	BudgetMax           float64   `json:"budget_max"`
	ImportantFactors    string    `json:"important_factors"`
	AdmissionReadiness  string    `json:"admission_readiness"`
	LanguageProficiency string    `json:"language_proficiency"`
	CampusLife          string    `json:"campus_life"`
	SpecialInterests    string    `json:"special_interests"`
	ScholarshipNeed     bool      `json:"scholarship_need"`
	StartDate           string    `json:"start_date"`
	Completed           bool      `json:"completed"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type University struct {
	ID                 int    `json:"id"`
	UniversityID       string `json:"university_id"`
	Name               string `json:"name"`
	Country            string `json:"country"`
	City               string `json:"city"`
	Course             string `json:"course"`
	ProgramLevel       string `json:"program_level"`
	TuitionFeeAnnual   string `json:"tuition_fee_annual"`
	LivingCostAnnual   string `json:"living_cost_annual"`
	TotalEstimatedCost string `json:"total_estimated_cost"`
	Scholarships       string `json:"scholarships"`
	IntlServices       string `json:"intl_services"`
	Website            string `json:"website"`
	ImageURL           string `json:"image_url"`
}

type Match struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Country       string   `json:"country"`
	City          string   `json:"city"`
	MatchScore    float64  `json:"match_score"`
	MatchReason   string   `json:"match_reason"`
	Course        string   `json:"course"`
	TuitionFee    *float64 `json:"tuition_fee"`
	LivingCost    *float64 `json:"living_cost"`
	TotalCost     *float64 `json:"total_cost"`
	Scholarships  string   `json:"scholarships"`
	Website       string   `json:"website"`
	ImageURL      string   `json:"image_url"`
	IsFavorite    bool     `json:"is_favorite"`
	IsShortlisted bool     `json:"is_shortlisted"`
}

type MatchPage struct {
	Matches []Match `json:"matches"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
	Pages   int     `json:"pages"`
}

// Filters describes the university catalogue for the match filters.
type Filters struct {
	Countries        []string           `json:"countries"`
	BudgetMin        float64            `json:"budget_min"`
	BudgetMax        float64            `json:"budget_max"`
	AvgCostByCountry map[string]float64 `json:"avg_cost_by_country"`
}
