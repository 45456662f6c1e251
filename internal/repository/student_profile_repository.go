package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sat-tum/kaiyo-api/internal/models"
)

// StudentProfileRepository persists the one profile each student owns.
type StudentProfileRepository struct {
	db *sqlx.DB
}

// NewStudentProfileRepository instantiates a profile repository.
func NewStudentProfileRepository(db *sqlx.DB) *StudentProfileRepository {
	return &StudentProfileRepository{db: db}
}

// Get loads the profile of a student. sql.ErrNoRows is returned untouched when absent.
func (r *StudentProfileRepository) Get(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	const query = `SELECT student_id, enrollment_year, current_grade, department, created_at, updated_at FROM student_profiles WHERE student_id = $1`
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, studentID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert creates or replaces the profile.
func (r *StudentProfileRepository) Upsert(ctx context.Context, profile *models.StudentProfile) error {
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	const query = `INSERT INTO student_profiles (student_id, enrollment_year, current_grade, department, created_at, updated_at)
        VALUES (:student_id, :enrollment_year, :current_grade, :department, :created_at, :updated_at)
        ON CONFLICT (student_id) DO UPDATE SET enrollment_year = EXCLUDED.enrollment_year, current_grade = EXCLUDED.current_grade, department = EXCLUDED.department, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("upsert student profile: %w", err)
	}
	return nil
}

// Delete removes the profile.
func (r *StudentProfileRepository) Delete(ctx context.Context, studentID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM student_profiles WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("delete student profile: %w", err)
	}
	return nil
}
