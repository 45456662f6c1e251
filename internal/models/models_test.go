package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentHalf(t *testing.T) {
	assert.Equal(t, TermFirstHalf, CurrentHalf(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, TermFirstHalf, CurrentHalf(time.Date(2024, time.August, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, TermSecondHalf, CurrentHalf(time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, TermSecondHalf, CurrentHalf(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)))
}

func TestTermLabels(t *testing.T) {
	now := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"2024-前期", "2024-後期", "2025-前期"}, TermLabels(2024, now))

	autumn := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"2025-前期", "2025-後期"}, TermLabels(2025, autumn))

	assert.Empty(t, TermLabels(2030, now))
}

func TestNextMilestone(t *testing.T) {
	assert.Equal(t, MilestoneGrade2, NextMilestone(0))
	assert.Equal(t, MilestoneGrade2, NextMilestone(1))
	assert.Equal(t, MilestoneGrade3, NextMilestone(2))
	assert.Equal(t, MilestoneGrade4, NextMilestone(3))
	assert.Equal(t, MilestoneGraduation, NextMilestone(4))
	assert.Equal(t, MilestoneGraduation, NextMilestone(9))
}

func TestMilestoneOrder(t *testing.T) {
	for i, m := range Milestones() {
		assert.True(t, m.Valid())
		assert.Equal(t, i, m.Order())
	}
	assert.False(t, MilestoneType("Grade5").Valid())
	assert.Equal(t, -1, MilestoneType("").Order())
}

func TestRuleSetCloneDoesNotAlias(t *testing.T) {
	original := RuleSet{
		CategoryRequiredCredits: map[string]int{CategoryRequiredMajor: 10},
		RequiredCourses:         []string{"基礎数学"},
	}
	clone := original.Clone()
	clone.CategoryRequiredCredits[CategoryRequiredMajor] = 0
	clone.RequiredCourses[0] = "changed"

	require.Nil(t, clone.CompositeSubjectDetails)
	assert.Equal(t, 10, original.CategoryRequiredCredits[CategoryRequiredMajor])
	assert.Equal(t, "基礎数学", original.RequiredCourses[0])
}

func TestProfileRuleKey(t *testing.T) {
	p := StudentProfile{EnrollmentYear: 2024, Department: "海洋生物資源学科"}
	assert.Equal(t, RuleKey{EnrollmentYear: 2024, Department: "海洋生物資源学科", Milestone: MilestoneGrade3}, p.RuleKey(MilestoneGrade3))
}
