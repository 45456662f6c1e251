package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migration is a versioned schema change.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
}

const migration001 = `
CREATE TABLE IF NOT EXISTS student_profiles (
    student_id VARCHAR(64) PRIMARY KEY,
    enrollment_year INTEGER NOT NULL,
    current_grade SMALLINT NOT NULL,
    department VARCHAR(128) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    CONSTRAINT valid_current_grade CHECK (current_grade BETWEEN 1 AND 4)
);

CREATE TABLE IF NOT EXISTS course_records (
    id UUID PRIMARY KEY,
    student_id VARCHAR(64) NOT NULL,
    course_name VARCHAR(255) NOT NULL,
    credits INTEGER NOT NULL,
    difficulty CHAR(1) NOT NULL,
    category VARCHAR(128) NOT NULL,
    term VARCHAR(32) NOT NULL,
    is_over_credit BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    CONSTRAINT valid_credits CHECK (credits >= 0),
    CONSTRAINT valid_difficulty CHECK (difficulty IN ('H', 'M', 'E'))
);

CREATE INDEX IF NOT EXISTS idx_course_records_student ON course_records(student_id);
CREATE INDEX IF NOT EXISTS idx_course_records_student_category ON course_records(student_id, category);
CREATE INDEX IF NOT EXISTS idx_course_records_student_term ON course_records(student_id, term);
`

const migration002 = `
CREATE TABLE IF NOT EXISTS curriculum_rules (
    enrollment_year INTEGER NOT NULL,
    department VARCHAR(128) NOT NULL,
    milestone VARCHAR(16) NOT NULL,
    total_required_credits INTEGER NOT NULL,
    category_required_credits JSONB NOT NULL DEFAULT '{}'::jsonb,
    composite_subject_details JSONB,
    required_courses JSONB,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    PRIMARY KEY (enrollment_year, department, milestone),
    CONSTRAINT valid_milestone CHECK (milestone IN ('Grade2', 'Grade3', 'Grade4', 'Graduation'))
);
`

// Migrations returns the schema history in version order.
func Migrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_student_profiles_and_course_records", UpSQL: migration001},
		{Version: 2, Name: "create_curriculum_rules", UpSQL: migration002},
	}
}

// Migrate applies every migration not yet recorded in schema_migrations.
func Migrate(ctx context.Context, db *sqlx.DB, migrations []Migration) error {
	const ensure = `CREATE TABLE IF NOT EXISTS schema_migrations (
        version INTEGER PRIMARY KEY,
        name TEXT NOT NULL,
        applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
    )`
	if _, err := db.ExecContext(ctx, ensure); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	var applied []int
	if err := db.SelectContext(ctx, &applied, `SELECT version FROM schema_migrations ORDER BY version`); err != nil {
		return fmt.Errorf("list applied migrations: %w", err)
	}
	done := make(map[int]struct{}, len(applied))
	for _, v := range applied {
		done[v] = struct{}{}
	}

	for _, mig := range migrations {
		if _, ok := done[mig.Version]; ok {
			continue
		}
		if err := applyMigration(ctx, db, mig); err != nil {
			return err
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sqlx.DB, mig Migration) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", mig.Version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, mig.UpSQL); err != nil {
		return fmt.Errorf("apply migration %d: %w", mig.Version, err)
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, mig.Version, mig.Name); err != nil {
		return fmt.Errorf("record migration %d: %w", mig.Version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", mig.Version, err)
	}
	return nil
}
