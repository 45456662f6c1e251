package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sat-tum/kaiyo-api/internal/evaluator"
	"github.com/sat-tum/kaiyo-api/internal/models"
	"github.com/sat-tum/kaiyo-api/internal/rules"
	"github.com/sat-tum/kaiyo-api/pkg/cache"
	appErrors "github.com/sat-tum/kaiyo-api/pkg/errors"
)

type ruleLookup interface {
	Lookup(key models.RuleKey) rules.LookupResult
	ForProgram(enrollmentYear int, department string) []models.RuleSet
}

type profileReader interface {
	Get(ctx context.Context, studentID string) (*models.StudentProfile, error)
}

// ProgressService evaluates a student's records against the curriculum rules.
type ProgressService struct {
	profiles  profileReader
	records   courseRecordRepository
	table     ruleLookup
	evaluator *evaluator.Evaluator
	cache     *CacheService
	metrics   *MetricsService
	cacheTTL  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// ProgressServiceConfig bundles the collaborators of ProgressService.
type ProgressServiceConfig struct {
	Profiles  profileReader
	Records   courseRecordRepository
	Rules     ruleLookup
	Evaluator *evaluator.Evaluator
	Cache     *CacheService
	Metrics   *MetricsService
	CacheTTL  time.Duration
	Logger    *zap.Logger
}

// NewProgressService constructs a ProgressService.
func NewProgressService(cfg ProgressServiceConfig) *ProgressService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	eval := cfg.Evaluator
	if eval == nil {
		eval = evaluator.New()
	}
	return &ProgressService{
		profiles:  cfg.Profiles,
		records:   cfg.Records,
		table:     cfg.Rules,
		evaluator: eval,
		cache:     cfg.Cache,
		metrics:   cfg.Metrics,
		cacheTTL:  cfg.CacheTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// Evaluate computes the student's standing against a milestone. An empty milestone
// selects the one the student's current grade is working toward.
func (s *ProgressService) Evaluate(ctx context.Context, studentID string, milestone models.MilestoneType) (*models.Progress, error) {
	return s.evaluate(ctx, studentID, milestone, true)
}

// evaluate computes progress and stores it in the cache. With readCache false
// any cached entry is ignored and overwritten.
func (s *ProgressService) evaluate(ctx context.Context, studentID string, milestone models.MilestoneType, readCache bool) (*models.Progress, error) {
	profile, err := s.profiles.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	milestone, err = resolveMilestone(profile, milestone)
	if err != nil {
		return nil, err
	}

	key := cache.ProgressKey(studentID, string(milestone))
	if readCache {
		var cached models.Progress
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, nil
		}
	}

	ruleSet, err := s.resolveRules(profile, milestone)
	if err != nil {
		return nil, err
	}
	records, err := s.snapshot(ctx, studentID)
	if err != nil {
		return nil, err
	}

	evaluation := s.evaluator.Evaluate(records, ruleSet)
	outcome := OutcomeShortfall
	if evaluation.Satisfied {
		outcome = OutcomeSatisfied
	}
	s.metrics.ObserveEvaluation(milestone, outcome)

	progress := &models.Progress{
		StudentID:      studentID,
		EnrollmentYear: profile.EnrollmentYear,
		Department:     profile.Department,
		CurrentGrade:   profile.CurrentGrade,
		Evaluation:     evaluation,
		RecordCount:    len(records),
		GeneratedAt:    s.now().UTC(),
	}
	if err := s.cache.Set(ctx, key, progress, s.cacheTTL); err != nil {
		s.logger.Warn("progress cache write failed", zap.String("student_id", studentID), zap.Error(err))
	}
	return progress, nil
}

// Warm recomputes the default-milestone progress of a student and overwrites
// the cached entry, which may have been written by an evaluation that read the
// records before the latest change. A missing profile or rule set is not an
// error here; there is nothing to cache.
func (s *ProgressService) Warm(ctx context.Context, studentID string) error {
	if !s.cache.Enabled() {
		return nil
	}
	_, err := s.evaluate(ctx, studentID, "", false)
	if err == nil {
		return nil
	}
	switch appErrors.FromError(err).Code {
	case appErrors.ErrProfileMissing.Code, appErrors.ErrRulesNotFound.Code:
		return nil
	}
	return err
}

// Milestones lists the rule sets defined for the student's cohort and department.
func (s *ProgressService) Milestones(ctx context.Context, studentID string) ([]models.RuleSet, error) {
	profile, err := s.profiles.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	sets := s.table.ForProgram(profile.EnrollmentYear, profile.Department)
	if len(sets) == 0 {
		return nil, appErrors.Clone(appErrors.ErrRulesNotFound, "no curriculum rules for this enrollment year and department")
	}
	return sets, nil
}

// ApplyOverCredit classifies one record against the milestone rules and writes
// the flag back. The result depends on the flags already present in the
// student's records, so classifying records in a different order can flag a
// different record.
func (s *ProgressService) ApplyOverCredit(ctx context.Context, studentID, recordID string, milestone models.MilestoneType) (*models.OverCreditResult, error) {
	profile, err := s.profiles.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	milestone, err = resolveMilestone(profile, milestone)
	if err != nil {
		return nil, err
	}
	ruleSet, err := s.resolveRules(profile, milestone)
	if err != nil {
		return nil, err
	}

	records, err := s.snapshot(ctx, studentID)
	if err != nil {
		return nil, err
	}
	var target *models.CourseRecord
	for i := range records {
		if records[i].ID == recordID {
			target = &records[i]
			break
		}
	}
	if target == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course record not found")
	}

	flag := s.evaluator.ClassifyOverCredit(*target, records, ruleSet)
	result := &models.OverCreditResult{
		RecordID:     target.ID,
		Category:     target.Category,
		IsOverCredit: flag,
		Changed:      flag != target.IsOverCredit,
	}
	if result.Changed {
		if err := s.records.SetOverCredit(ctx, studentID, recordID, flag); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update over-credit flag")
		}
		if err := s.cache.Invalidate(ctx, cache.ProgressPattern(studentID)); err != nil {
			s.logger.Warn("progress cache invalidation failed", zap.String("student_id", studentID), zap.Error(err))
		}
	}
	s.metrics.ObserveOverCredit(flag, result.Changed)
	s.logger.Info("over-credit classified",
		zap.String("student_id", studentID),
		zap.String("record_id", recordID),
		zap.String("milestone", string(milestone)),
		zap.Bool("over_credit", flag),
		zap.Bool("changed", result.Changed),
	)
	return result, nil
}

func (s *ProgressService) resolveRules(profile *models.StudentProfile, milestone models.MilestoneType) (models.RuleSet, error) {
	result := s.table.Lookup(profile.RuleKey(milestone))
	if !result.Found() {
		s.metrics.ObserveEvaluation(milestone, OutcomeRulesMissing)
		s.logger.Warn("curriculum rules not found",
			zap.String("student_id", profile.StudentID),
			zap.Int("enrollment_year", profile.EnrollmentYear),
			zap.String("department", profile.Department),
			zap.String("milestone", string(milestone)),
		)
		return models.RuleSet{}, appErrors.Clone(appErrors.ErrRulesNotFound, "")
	}
	return result.RuleSet(), nil
}

func (s *ProgressService) snapshot(ctx context.Context, studentID string) ([]models.CourseRecord, error) {
	records, err := s.records.List(ctx, models.CourseRecordFilter{StudentID: studentID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course records")
	}
	return records, nil
}

func resolveMilestone(profile *models.StudentProfile, milestone models.MilestoneType) (models.MilestoneType, error) {
	if milestone == "" {
		return models.NextMilestone(profile.CurrentGrade), nil
	}
	if !milestone.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, "unknown milestone "+string(milestone))
	}
	return milestone, nil
}
