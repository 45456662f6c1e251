package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sat-tum/kaiyo-api/internal/models"
)

func TestRuleSetRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRuleSetRepository(db)

	rows := sqlmock.NewRows([]string{"enrollment_year", "department", "milestone", "total_required_credits", "category_required_credits", "composite_subject_details", "required_courses"}).
		AddRow(2024, "Marine", "Grade3", 62, []byte(`{"Req":10}`), []byte(`{"Arts":4}`), []byte(`["A","B"]`)).
		AddRow(2024, "Marine", "Grade2", 30, []byte(`{"Req":6}`), nil, nil)
	mock.ExpectQuery("SELECT enrollment_year, department, milestone, total_required_credits, category_required_credits, composite_subject_details, required_courses FROM curriculum_rules").
		WillReturnRows(rows)

	sets, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, sets, 2)

	assert.Equal(t, models.MilestoneGrade3, sets[0].Milestone)
	assert.Equal(t, map[string]int{"Arts": 4}, sets[0].CompositeSubjectDetails)
	assert.Equal(t, []string{"A", "B"}, sets[0].RequiredCourses)

	assert.Equal(t, 6, sets[1].CategoryRequiredCredits["Req"])
	assert.Nil(t, sets[1].CompositeSubjectDetails)
	assert.Nil(t, sets[1].RequiredCourses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRuleSetRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRuleSetRepository(db)

	mock.ExpectExec("INSERT INTO curriculum_rules").
		WithArgs(2024, "Marine", "Grade2", 30, sqlmock.AnyArg(), nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Upsert(context.Background(), models.RuleSet{
		EnrollmentYear:          2024,
		Department:              "Marine",
		Milestone:               models.MilestoneGrade2,
		TotalRequiredCredits:    30,
		CategoryRequiredCredits: map[string]int{"Req": 6},
		RequiredCourses:         []string{"A"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
