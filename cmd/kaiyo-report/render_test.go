package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sat-tum/kaiyo-api/internal/models"
	"github.com/sat-tum/kaiyo-api/internal/rules"
)

func TestPrintProgress(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printProgress(&buf, &models.Progress{
		StudentID:      "s1",
		EnrollmentYear: 2024,
		Department:     "Marine",
		RecordCount:    3,
		Evaluation: models.Evaluation{
			Milestone:               models.MilestoneGrade2,
			TotalRequiredCredits:    30,
			CountedCredits:          24,
			RemainingTotal:          6,
			RemainingByCategory:     map[string]int{"Req": 2},
			MissingMandatoryCourses: []string{"Intro"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "s1 / 2024 / Marine")
	assert.Contains(t, out, "Grade2")
	assert.Contains(t, out, "Req")
	assert.Contains(t, out, "- Intro")
	assert.Contains(t, out, "Requirements not yet met.")
	assert.NotContains(t, out, "composite")
}

func TestPrintRuleTable(t *testing.T) {
	color.NoColor = true
	table, err := rules.NewTable([]models.RuleSet{
		{EnrollmentYear: 2024, Department: "Marine", Milestone: models.MilestoneGrade2, TotalRequiredCredits: 30},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	printRuleTable(&buf, table)
	assert.Contains(t, buf.String(), "1 rule sets")
	assert.Contains(t, buf.String(), "Marine")
}
