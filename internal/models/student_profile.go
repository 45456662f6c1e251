package models

import "time"

// StudentProfile identifies which rule sets apply to a student.
type StudentProfile struct {
	StudentID      string    `db:"student_id" json:"student_id"`
	EnrollmentYear int       `db:"enrollment_year" json:"enrollment_year"`
	CurrentGrade   int       `db:"current_grade" json:"current_grade"`
	Department     string    `db:"department" json:"department"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// RuleKey builds the rule lookup key for the given milestone.
func (p StudentProfile) RuleKey(milestone MilestoneType) RuleKey {
	return RuleKey{EnrollmentYear: p.EnrollmentYear, Department: p.Department, Milestone: milestone}
}
