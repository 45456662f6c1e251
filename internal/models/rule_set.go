package models

// MilestoneType identifies a promotion or graduation checkpoint.
type MilestoneType string

const (
	MilestoneGrade2     MilestoneType = "Grade2"
	MilestoneGrade3     MilestoneType = "Grade3"
	MilestoneGrade4     MilestoneType = "Grade4"
	MilestoneGraduation MilestoneType = "Graduation"
)

// Milestones returns every milestone in curriculum order.
func Milestones() []MilestoneType {
	return []MilestoneType{MilestoneGrade2, MilestoneGrade3, MilestoneGrade4, MilestoneGraduation}
}

// Valid reports whether m is a known milestone.
func (m MilestoneType) Valid() bool {
	switch m {
	case MilestoneGrade2, MilestoneGrade3, MilestoneGrade4, MilestoneGraduation:
		return true
	}
	return false
}

// Order returns the position of m in curriculum order, or -1 when unknown.
func (m MilestoneType) Order() int {
	for i, candidate := range Milestones() {
		if candidate == m {
			return i
		}
	}
	return -1
}

// NextMilestone returns the checkpoint a student in the given grade is working toward.
func NextMilestone(currentGrade int) MilestoneType {
	switch {
	case currentGrade <= 1:
		return MilestoneGrade2
	case currentGrade == 2:
		return MilestoneGrade3
	case currentGrade == 3:
		return MilestoneGrade4
	default:
		return MilestoneGraduation
	}
}

// RuleKey uniquely identifies a rule set.
type RuleKey struct {
	EnrollmentYear int           `json:"enrollment_year"`
	Department     string        `json:"department"`
	Milestone      MilestoneType `json:"milestone"`
}

// RuleSet is the static credit policy for one cohort, department and milestone.
// A nil CompositeSubjectDetails or RequiredCourses means the milestone has none.
type RuleSet struct {
	EnrollmentYear          int            `json:"enrollment_year" yaml:"enrollment_year"`
	Department              string         `json:"department" yaml:"department"`
	Milestone               MilestoneType  `json:"milestone" yaml:"milestone"`
	TotalRequiredCredits    int            `json:"total_required_credits" yaml:"total_required_credits"`
	CategoryRequiredCredits map[string]int `json:"category_required_credits" yaml:"category_required_credits"`
	CompositeSubjectDetails map[string]int `json:"composite_subject_details,omitempty" yaml:"composite_subject_details,omitempty"`
	RequiredCourses         []string       `json:"required_courses,omitempty" yaml:"required_courses,omitempty"`
}

// Key returns the lookup key of the rule set.
func (r RuleSet) Key() RuleKey {
	return RuleKey{EnrollmentYear: r.EnrollmentYear, Department: r.Department, Milestone: r.Milestone}
}

// Clone returns a deep copy so callers cannot alias the maps of a shared rule set.
func (r RuleSet) Clone() RuleSet {
	out := r
	out.CategoryRequiredCredits = cloneIntMap(r.CategoryRequiredCredits)
	out.CompositeSubjectDetails = cloneIntMap(r.CompositeSubjectDetails)
	if r.RequiredCourses != nil {
		out.RequiredCourses = append([]string{}, r.RequiredCourses...)
	}
	return out
}

func cloneIntMap(in map[string]int) map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
