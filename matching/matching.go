// Package matching scores universities against a student's onboarding answers.
package matching

import (
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mbolis/study-abroad/model"
)

// MinScore is the lowest score worth storing as a match.
const MinScore = 30

const (
	weightCountry      = 0.25
	weightBudget       = 0.25
	weightLevel        = 0.15
	weightStream       = 0.15
	weightScholarships = 0.10
	weightServices     = 0.10
)

// Score rates uni for resp on a 0-100 scale.
func Score(resp model.OnboardingResponse, uni model.University) float64 {
	score := 0.0

	countries := PreferredCountries(resp.PreferredCountries)
	country := strings.ToLower(strings.TrimSpace(uni.Country))
	switch {
	case len(countries) == 0:
		score += 70 * weightCountry
	case country != "" && countryMatches(country, countries):
		score += 100 * weightCountry
	default:
		score += 20 * weightCountry
	}

	budgetMin, budgetMax := resp.BudgetMin, resp.BudgetMax
	if budgetMax == 0 {
		budgetMax = 100000
	}
	cost, ok := ParseCost(uni.TotalEstimatedCost)
	switch {
	case !ok:
		score += 50 * weightBudget
	case budgetMin <= cost && cost <= budgetMax:
		score += 100 * weightBudget
	case cost < budgetMin:
		score += 80 * weightBudget
	case cost <= budgetMax*1.2:
		score += 60 * weightBudget
	default:
		score += 20 * weightBudget
	}

	level := strings.ToLower(resp.StudyLevel)
	course := strings.ToLower(uni.Course)
	if level != "" && (strings.Contains(strings.ToLower(uni.ProgramLevel), level) || strings.Contains(course, level)) {
		score += 100 * weightLevel
	} else {
		score += 70 * weightLevel
	}

	stream := strings.ToLower(resp.PreferredStream)
	switch {
	case stream == "":
		score += 70 * weightStream
	case strings.Contains(course, stream):
		score += 100 * weightStream
	default:
		score += 40 * weightStream
	}

	switch {
	case resp.ScholarshipNeed && uni.Scholarships != "":
		score += 100 * weightScholarships
	case uni.Scholarships != "":
		score += 50 * weightScholarships
	case resp.ScholarshipNeed:
		score += 10 * weightScholarships
	}

	if uni.IntlServices != "" {
		score += 100 * weightServices
	}

	return math.Min(math.Round(score*100)/100, 100)
}

func countryMatches(country string, preferred []string) bool {
	for _, pc := range preferred {
		pc = strings.ToLower(pc)
		if country == pc || strings.Contains(pc, country) || strings.Contains(country, pc) {
			return true
		}
	}
	return false
}

// Reason summarizes why uni was matched.
func Reason(resp model.OnboardingResponse, uni model.University, score float64) string {
	var reasons []string
	switch {
	case score >= 80:
		reasons = append(reasons, "Excellent match for your profile")
	case score >= 60:
		reasons = append(reasons, "Good match for your preferences")
	default:
		reasons = append(reasons, "Fair match")
	}

	if resp.PreferredCountries != "" && uni.Country != "" && strings.Contains(resp.PreferredCountries, uni.Country) {
		reasons = append(reasons, "Located in your preferred country: "+uni.Country)
	}
	return strings.Join(reasons, "; ")
}

// PreferredCountries splits a comma separated list, or a JSON array of names.
func PreferredCountries(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var list []string
		if err := json.Unmarshal([]byte(s), &list); err == nil {
			return list
		}
		s = strings.NewReplacer("[", "", "]", "").Replace(s)
	}

	var countries []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			countries = append(countries, c)
		}
	}
	return countries
}

var (
	reParenthesized = regexp.MustCompile(`\([^)]*\)`)
	reAmount        = regexp.MustCompile(`^(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)$`)
	costTokens      = strings.NewReplacer("~", "", "≈", "", "$", "", "AUD", "", "USD", "", "EUR", "", "ETB", "", "Birr", "", ",", "")
	unknownCosts    = map[string]bool{"N/A": true, "NA": true, "TBD": true, "TBA": true, "VARIES": true, "-": true}
)

// ParseCost reads annual cost strings such as "AUD $40000-60000" (a range
// yields its midpoint) or "$1800 (UG); $1200 (PG)" (the first value wins).
func ParseCost(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || unknownCosts[strings.ToUpper(s)] {
		return 0, false
	}
	if i := strings.Index(s, ";"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	s = reParenthesized.ReplaceAllString(s, "")
	s = strings.TrimSpace(costTokens.Replace(s))

	if strings.Contains(s, "-") {
		parts := strings.Split(s, "-")
		if len(parts) == 2 {
			lo, okLo := parseAmount(parts[0])
			hi, okHi := parseAmount(parts[1])
			if okLo && okHi {
				return (lo + hi) / 2, true
			}
		}
	}

	return parseAmount(strings.ReplaceAll(s, " ", ""))
}

// parseAmount accepts plain decimals only, so values such as "nan", "inf"
// or "0x1p4" never reach the scores or the JSON output.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !reAmount.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// UniversityCost is the total estimated cost, or tuition plus living cost when
// the total is unknown.
func UniversityCost(uni model.University) (float64, bool) {
	if cost, ok := ParseCost(uni.TotalEstimatedCost); ok {
		return cost, true
	}
	tuition, okTuition := ParseCost(uni.TuitionFeeAnnual)
	living, okLiving := ParseCost(uni.LivingCostAnnual)
	return tuition + living, okTuition || okLiving
}

// Filters summarizes the catalogue: its countries, the cost range and the
// average cost per country. Without any known cost the range is 0-100000.
func Filters(unis []model.University) model.Filters {
	f := model.Filters{
		Countries:        []string{},
		BudgetMin:        0,
		BudgetMax:        100000,
		AvgCostByCountry: map[string]float64{},
	}

	seen := map[string]bool{}
	sums := map[string]float64{}
	counts := map[string]int{}
	known := false
	for _, u := range unis {
		country := strings.TrimSpace(u.Country)
		if country != "" && !seen[country] {
			seen[country] = true
			f.Countries = append(f.Countries, country)
		}

		cost, ok := UniversityCost(u)
		if !ok {
			continue
		}
		if !known || cost < f.BudgetMin {
			f.BudgetMin = cost
		}
		if !known || cost > f.BudgetMax {
			f.BudgetMax = cost
		}
		known = true

		if country != "" {
			sums[country] += cost
			counts[country]++
		}
	}
	sort.Strings(f.Countries)

	for country, sum := range sums {
		f.AvgCostByCountry[country] = sum / float64(counts[country])
	}
	return f
}
