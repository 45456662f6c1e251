package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sat-tum/kaiyo-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var courseRecordCols = []string{"id", "student_id", "course_name", "credits", "difficulty", "category", "term", "is_over_credit", "created_at", "updated_at"}

func TestCourseRecordRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRecordRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(courseRecordCols).
		AddRow("r1", "s1", "海洋学概論", 2, "M", models.CategoryRequiredMajor, "2024-前期", false, now, now).
		AddRow("r2", "s1", "基礎数学", 2, "H", models.CategoryRequiredBasic, "2024-前期", true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + courseRecordColumns + " FROM course_records WHERE 1=1 AND student_id = $1 AND term = $2 ORDER BY term ASC, course_name ASC")).
		WithArgs("s1", "2024-前期").
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), models.CourseRecordFilter{StudentID: "s1", Term: "2024-前期"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.DifficultyMedium, records[0].Difficulty)
	assert.True(t, records[1].IsOverCredit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRecordRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRecordRepository(db)

	mock.ExpectExec("INSERT INTO course_records").
		WithArgs(sqlmock.AnyArg(), "s1", "基礎数学", 2, models.DifficultyHard, models.CategoryRequiredBasic, "2024-前期", false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.CourseRecord{StudentID: "s1", CourseName: "基礎数学", Credits: 2, Difficulty: models.DifficultyHard, Category: models.CategoryRequiredBasic, Term: "2024-前期"}
	require.NoError(t, repo.Create(context.Background(), record))
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRecordRepositoryCreateBatchRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRecordRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO course_records").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO course_records").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.CreateBatch(context.Background(), []*models.CourseRecord{
		{StudentID: "s1", CourseName: "A", Credits: 2, Difficulty: models.DifficultyEasy, Category: "x", Term: "t"},
		{StudentID: "s1", CourseName: "B", Credits: 2, Difficulty: models.DifficultyEasy, Category: "x", Term: "t"},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRecordRepositorySetOverCredit(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRecordRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE course_records SET is_over_credit = $1, updated_at = $2 WHERE id = $3 AND student_id = $4")).
		WithArgs(true, sqlmock.AnyArg(), "r1", "s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetOverCredit(context.Background(), "s1", "r1", true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRecordRepositoryDeleteAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRecordRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM course_records WHERE student_id = $1")).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteAll(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
