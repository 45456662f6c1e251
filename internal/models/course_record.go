package models

import "time"

// Difficulty is the student's own tag for how hard a course was. It is informational only.
type Difficulty string

const (
	DifficultyHard   Difficulty = "H"
	DifficultyMedium Difficulty = "M"
	DifficultyEasy   Difficulty = "E"
)

// Category labels used by the default curriculum.
const (
	CategoryRequiredGeneral = "総合科目-必修"
	CategoryRequiredBasic   = "基礎教育-必修"
	CategoryRequiredMajor   = "専門科目-必修"
	CategoryElectiveGeneral = "総合科目-選択"
	CategoryElectiveBasic   = "基礎教育-選択"
	CategoryElectiveMajor   = "専門科目-選択"
	CategoryUnclassified    = "未分類"
)

// CourseCategory describes a known category label for clients building intake forms.
type CourseCategory struct {
	Label    string `json:"label"`
	Group    string `json:"group"`
	Required bool   `json:"required"`
}

// DefaultCategories lists the category labels of the default curriculum.
func DefaultCategories() []CourseCategory {
	return []CourseCategory{
		{Label: CategoryRequiredGeneral, Group: "総合科目", Required: true},
		{Label: CategoryRequiredBasic, Group: "基礎教育", Required: true},
		{Label: CategoryRequiredMajor, Group: "専門科目", Required: true},
		{Label: CategoryElectiveGeneral, Group: "総合科目", Required: false},
		{Label: CategoryElectiveBasic, Group: "基礎教育", Required: false},
		{Label: CategoryElectiveMajor, Group: "専門科目", Required: false},
	}
}

// CourseRecord is one completed course owned by a student.
type CourseRecord struct {
	ID           string     `db:"id" json:"id"`
	StudentID    string     `db:"student_id" json:"student_id"`
	CourseName   string     `db:"course_name" json:"course_name"`
	Credits      int        `db:"credits" json:"credits"`
	Difficulty   Difficulty `db:"difficulty" json:"difficulty"`
	Category     string     `db:"category" json:"category"`
	Term         string     `db:"term" json:"term"`
	IsOverCredit bool       `db:"is_over_credit" json:"is_over_credit"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// CourseRecordFilter narrows record listings.
type CourseRecordFilter struct {
	StudentID string
	Category  string
	Term      string
}
