package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/sat-tum/kaiyo-api/internal/models"
)

// ruleSetRow is the persisted layout of a rule set; map and list columns are JSONB.
type ruleSetRow struct {
	EnrollmentYear          int                `db:"enrollment_year"`
	Department              string             `db:"department"`
	Milestone               string             `db:"milestone"`
	TotalRequiredCredits    int                `db:"total_required_credits"`
	CategoryRequiredCredits types.JSONText     `db:"category_required_credits"`
	CompositeSubjectDetails types.NullJSONText `db:"composite_subject_details"`
	RequiredCourses         types.NullJSONText `db:"required_courses"`
}

// RuleSetRepository reads and writes curriculum rule sets.
type RuleSetRepository struct {
	db *sqlx.DB
}

// NewRuleSetRepository instantiates a rule set repository.
func NewRuleSetRepository(db *sqlx.DB) *RuleSetRepository {
	return &RuleSetRepository{db: db}
}

// ListAll returns every persisted rule set.
func (r *RuleSetRepository) ListAll(ctx context.Context) ([]models.RuleSet, error) {
	const query = `SELECT enrollment_year, department, milestone, total_required_credits, category_required_credits, composite_subject_details, required_courses FROM curriculum_rules ORDER BY enrollment_year, department, milestone`
	var rows []ruleSetRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list rule sets: %w", err)
	}

	sets := make([]models.RuleSet, 0, len(rows))
	for _, row := range rows {
		set, err := row.toModel()
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// Upsert stores a rule set, replacing any set with the same key.
func (r *RuleSetRepository) Upsert(ctx context.Context, set models.RuleSet) error {
	row, err := fromRuleSet(set)
	if err != nil {
		return err
	}
	const query = `INSERT INTO curriculum_rules (enrollment_year, department, milestone, total_required_credits, category_required_credits, composite_subject_details, required_courses, updated_at)
        VALUES (:enrollment_year, :department, :milestone, :total_required_credits, :category_required_credits, :composite_subject_details, :required_courses, NOW())
        ON CONFLICT (enrollment_year, department, milestone) DO UPDATE SET total_required_credits = EXCLUDED.total_required_credits, category_required_credits = EXCLUDED.category_required_credits, composite_subject_details = EXCLUDED.composite_subject_details, required_courses = EXCLUDED.required_courses, updated_at = NOW()`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("upsert rule set: %w", err)
	}
	return nil
}

func (row ruleSetRow) toModel() (models.RuleSet, error) {
	set := models.RuleSet{
		EnrollmentYear:       row.EnrollmentYear,
		Department:           row.Department,
		Milestone:            models.MilestoneType(row.Milestone),
		TotalRequiredCredits: row.TotalRequiredCredits,
	}
	if err := decodeJSON(row.CategoryRequiredCredits, &set.CategoryRequiredCredits); err != nil {
		return set, fmt.Errorf("decode category credits for %d/%s/%s: %w", row.EnrollmentYear, row.Department, row.Milestone, err)
	}
	if err := decodeNullJSON(row.CompositeSubjectDetails, &set.CompositeSubjectDetails); err != nil {
		return set, fmt.Errorf("decode composite details for %d/%s/%s: %w", row.EnrollmentYear, row.Department, row.Milestone, err)
	}
	if err := decodeNullJSON(row.RequiredCourses, &set.RequiredCourses); err != nil {
		return set, fmt.Errorf("decode required courses for %d/%s/%s: %w", row.EnrollmentYear, row.Department, row.Milestone, err)
	}
	if set.CategoryRequiredCredits == nil {
		set.CategoryRequiredCredits = map[string]int{}
	}
	return set, nil
}

func fromRuleSet(set models.RuleSet) (ruleSetRow, error) {
	row := ruleSetRow{
		EnrollmentYear:       set.EnrollmentYear,
		Department:           set.Department,
		Milestone:            string(set.Milestone),
		TotalRequiredCredits: set.TotalRequiredCredits,
	}
	categories := set.CategoryRequiredCredits
	if categories == nil {
		categories = map[string]int{}
	}
	var err error
	if row.CategoryRequiredCredits, err = encodeJSON(categories); err != nil {
		return row, err
	}
	if set.CompositeSubjectDetails != nil {
		if row.CompositeSubjectDetails.JSONText, err = encodeJSON(set.CompositeSubjectDetails); err != nil {
			return row, err
		}
		row.CompositeSubjectDetails.Valid = true
	}
	if set.RequiredCourses != nil {
		if row.RequiredCourses.JSONText, err = encodeJSON(set.RequiredCourses); err != nil {
			return row, err
		}
		row.RequiredCourses.Valid = true
	}
	return row, nil
}

// decodeNullJSON leaves dest untouched for NULL columns so absent optional fields stay nil.
func decodeNullJSON(raw types.NullJSONText, dest interface{}) error {
	if !raw.Valid {
		return nil
	}
	return decodeJSON(raw.JSONText, dest)
}

func decodeJSON(raw types.JSONText, dest interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func encodeJSON(v interface{}) (types.JSONText, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode rule set column: %w", err)
	}
	return types.JSONText(b), nil
}
