package models

import "time"

// Evaluation summarises a student's standing against one rule set.
type Evaluation struct {
	Milestone               MilestoneType  `json:"milestone"`
	TotalRequiredCredits    int            `json:"total_required_credits"`
	CountedCredits          int            `json:"counted_credits"`
	RemainingTotal          int            `json:"remaining_total"`
	RemainingByCategory     map[string]int `json:"remaining_by_category"`
	RemainingByComposite    map[string]int `json:"remaining_by_composite"`
	MissingMandatoryCourses []string       `json:"missing_mandatory_courses"`
	Satisfied               bool           `json:"satisfied"`
}

// Progress is an evaluation bound to the student and the moment it was computed.
type Progress struct {
	StudentID      string     `json:"student_id"`
	EnrollmentYear int        `json:"enrollment_year"`
	Department     string     `json:"department"`
	CurrentGrade   int        `json:"current_grade"`
	Evaluation     Evaluation `json:"evaluation"`
	RecordCount    int        `json:"record_count"`
	GeneratedAt    time.Time  `json:"generated_at"`
}

// OverCreditResult reports the outcome of classifying a single record.
type OverCreditResult struct {
	RecordID     string `json:"record_id"`
	Category     string `json:"category"`
	IsOverCredit bool   `json:"is_over_credit"`
	Changed      bool   `json:"changed"`
}
