package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sat-tum/kaiyo-api/internal/models"
)

const courseRecordColumns = "id, student_id, course_name, credits, difficulty, category, term, is_over_credit, created_at, updated_at"

// CourseRecordRepository handles persistence for acquired course records.
type CourseRecordRepository struct {
	db *sqlx.DB
}

// NewCourseRecordRepository instantiates a course record repository.
func NewCourseRecordRepository(db *sqlx.DB) *CourseRecordRepository {
	return &CourseRecordRepository{db: db}
}

// List returns records matching the filter ordered by term then course name.
func (r *CourseRecordRepository) List(ctx context.Context, filter models.CourseRecordFilter) ([]models.CourseRecord, error) {
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Term != "" {
		conditions = append(conditions, fmt.Sprintf("term = $%d", len(args)+1))
		args = append(args, filter.Term)
	}

	query := "SELECT " + courseRecordColumns + " FROM course_records WHERE 1=1"
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY term ASC, course_name ASC"

	records := []models.CourseRecord{}
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list course records: %w", err)
	}
	return records, nil
}

// FindByID loads a record owned by the student.
func (r *CourseRecordRepository) FindByID(ctx context.Context, studentID, id string) (*models.CourseRecord, error) {
	query := "SELECT " + courseRecordColumns + " FROM course_records WHERE id = $1 AND student_id = $2"
	var record models.CourseRecord
	if err := r.db.GetContext(ctx, &record, query, id, studentID); err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new record.
func (r *CourseRecordRepository) Create(ctx context.Context, record *models.CourseRecord) error {
	prepareRecord(record, time.Now().UTC())
	if _, err := r.db.NamedExecContext(ctx, insertCourseRecord, record); err != nil {
		return fmt.Errorf("create course record: %w", err)
	}
	return nil
}

// CreateBatch inserts several records in one transaction.
func (r *CourseRecordRepository) CreateBatch(ctx context.Context, records []*models.CourseRecord) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin course record batch tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for _, record := range records {
		prepareRecord(record, now)
		if _, err = tx.NamedExecContext(ctx, insertCourseRecord, record); err != nil {
			return fmt.Errorf("insert course record %s: %w", record.CourseName, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit course record batch tx: %w", err)
	}
	return nil
}

// Update modifies the metadata of an existing record.
func (r *CourseRecordRepository) Update(ctx context.Context, record *models.CourseRecord) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE course_records SET course_name = :course_name, credits = :credits, difficulty = :difficulty, category = :category, term = :term, is_over_credit = :is_over_credit, updated_at = :updated_at WHERE id = :id AND student_id = :student_id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update course record: %w", err)
	}
	return nil
}

// SetOverCredit writes a classification result back to a record.
func (r *CourseRecordRepository) SetOverCredit(ctx context.Context, studentID, id string, overCredit bool) error {
	const query = `UPDATE course_records SET is_over_credit = $1, updated_at = $2 WHERE id = $3 AND student_id = $4`
	if _, err := r.db.ExecContext(ctx, query, overCredit, time.Now().UTC(), id, studentID); err != nil {
		return fmt.Errorf("set over credit: %w", err)
	}
	return nil
}

// Delete removes a single record.
func (r *CourseRecordRepository) Delete(ctx context.Context, studentID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM course_records WHERE id = $1 AND student_id = $2`, id, studentID); err != nil {
		return fmt.Errorf("delete course record: %w", err)
	}
	return nil
}

// DeleteAll removes every record owned by the student and returns how many were removed.
func (r *CourseRecordRepository) DeleteAll(ctx context.Context, studentID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM course_records WHERE student_id = $1`, studentID)
	if err != nil {
		return 0, fmt.Errorf("delete course records: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted course records: %w", err)
	}
	return affected, nil
}

const insertCourseRecord = `INSERT INTO course_records (id, student_id, course_name, credits, difficulty, category, term, is_over_credit, created_at, updated_at) VALUES (:id, :student_id, :course_name, :credits, :difficulty, :category, :term, :is_over_credit, :created_at, :updated_at)`

func prepareRecord(record *models.CourseRecord, now time.Time) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
}
