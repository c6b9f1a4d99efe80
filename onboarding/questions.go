package onboarding

type Question struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Options     []string `json:"options,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	MultiSelect bool     `json:"multi_select,omitempty"`
	Required    bool     `json:"required"`
}

// DefaultQuestions is the onboarding questionnaire, in the order it is asked.
var DefaultQuestions = []Question{
	{
		ID:          "nationality",
		Text:        "What is your nationality?",
		Placeholder: "e.g., Indian, American, Chinese",
		Suggestions: []string{"Indian", "Chinese", "Nigerian", "Pakistani", "Bangladeshi", "Vietnamese", "Other"},
		Required:    true,
	},
	{
		ID:       "qualification",
		Text:     "What is your highest qualification?",
		Options:  []string{"10th", "12th", "Undergraduate", "Postgraduate"},
		Required: true,
	},
	{
		ID:          "marks",
		Text:        "What are your marks or CGPA?",
		Placeholder: "e.g., 85% or 8.5 CGPA",
		Suggestions: []string{"60-70%", "70-80%", "80-90%", "90%+", "6.0-7.0 CGPA", "7.0-8.0 CGPA", "8.0+ CGPA"},
		Required:    true,
	},
	{
		ID:          "field",
		Text:        "What field or subjects are you interested in?",
		Placeholder: "e.g., Computer Science, Business, Medicine",
		Suggestions: []string{"Computer Science", "Business Administration", "Engineering", "Medicine", "Data Science", "Psychology", "Law", "Arts & Design"},
		MultiSelect: true,
		Required:    true,
	},
	{
		ID:          "budget",
		Text:        "What is your budget range per year for tuition and living expenses?",
		Placeholder: "e.g., $20,000 - $40,000",
		Suggestions: []string{"$10,000 - $20,000", "$20,000 - $40,000", "$40,000 - $60,000", "$60,000+"},
		Required:    true,
	},
	{
		ID:          "english",
		Text:        "Do you have an English proficiency score like IELTS or TOEFL?",
		Placeholder: "e.g., IELTS 7.0, TOEFL 100, or None",
		Suggestions: []string{"IELTS 6.5", "IELTS 7.0", "IELTS 7.5", "TOEFL 90", "TOEFL 100", "None"},
	},
	{
		ID:          "countries",
		Text:        "Which countries do you prefer to study in?",
		Placeholder: "e.g., USA, UK, Canada, Australia, Germany",
		Suggestions: []string{"USA", "UK", "Canada", "Australia", "Germany", "Netherlands", "Ireland", "New Zealand"},
		MultiSelect: true,
	},
	{
		ID:          "gaps",
		Text:        "Do you have any gap years in your education?",
		Placeholder: "e.g., 0, 1, 2 years",
		Suggestions: []string{"0 years", "1 year", "2 years", "3+ years"},
	},
	{
		ID:          "career_goals",
		Text:        "What are your career aspirations after completing your education?",
		Placeholder: "e.g., Work in tech industry, Start my own business, Research",
		Required:    true,
	},
	{
		ID:       "study_preference",
		Text:     "What type of learning environment do you prefer?",
		Options:  []string{"Practical/Hands-on", "Theoretical/Research-based", "Mixed"},
		Required: true,
	},
	{
		ID:       "scholarship",
		Text:     "Are you interested in scholarship opportunities?",
		Options:  []string{"Yes", "No", "Maybe"},
		Required: true,
	},
	{
		ID:       "timeline",
		Text:     "When are you planning to start your studies?",
		Options:  []string{"Within 6 months", "6-12 months", "1-2 years", "Not sure yet"},
		Required: true,
	},
}
