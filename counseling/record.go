package counseling

import (
	"errors"
	"time"
)

type Status string

const (
	StatusNotStarted  Status = "not_started"
	StatusShortlisted Status = "shortlisted"
	StatusApplied     Status = "applied"
	StatusOffer       Status = "offer"
	StatusRejected    Status = "rejected"
)

var statusLabels = map[Status]string{
	StatusNotStarted:  "Not started",
	StatusShortlisted: "Shortlisted",
	StatusApplied:     "Applied",
	StatusOffer:       "Offer received",
	StatusRejected:    "Rejected",
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label is the display name of the status. Unknown statuses read as "Not started".
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return statusLabels[StatusNotStarted]
}

// ChecklistItems are the application documents tracked for every university.
var ChecklistItems = []string{
	"Updated CV / Resume",
	"Academic transcripts / mark sheets",
	"Degree / provisional certificate",
	"Statement of Purpose (SOP)",
	"Letters of Recommendation (LORs)",
	"English proficiency (IELTS/TOEFL/PTE)",
	"Standardized tests (GRE/GMAT/SAT, if needed)",
	"Passport copy",
	"Financial proofs / bank statements",
}

func IsChecklistItem(item string) bool {
	for _, i := range ChecklistItems {
		if i == item {
			return true
		}
	}
	return false
}

const DeadlineLayout = "2006-01-02"

var (
	ErrInvalidStatus   = errors.New("counseling: invalid status")
	ErrUnknownItem     = errors.New("counseling: unknown checklist item")
	ErrInvalidDeadline = errors.New("counseling: deadline must be empty or YYYY-MM-DD")
)

type Record struct {
	Status    Status          `json:"status"`
	Checklist map[string]bool `json:"checklist"`
	Notes     string          `json:"notes"`
	Deadline  string          `json:"deadline"`
}

func DefaultRecord() Record {
	return Record{
		Status:    StatusNotStarted,
		Checklist: map[string]bool{},
	}
}

// Validate checks the fields a client is allowed to write.
func (r Record) Validate() error {
	if !r.Status.Valid() {
		return ErrInvalidStatus
	}
	for item := range r.Checklist {
		if !IsChecklistItem(item) {
			return ErrUnknownItem
		}
	}
	return validateDeadline(r.Deadline)
}

func validateDeadline(deadline string) error {
	if deadline == "" {
		return nil
	}
	if _, err := time.Parse(DeadlineLayout, deadline); err != nil {
		return ErrInvalidDeadline
	}
	return nil
}
