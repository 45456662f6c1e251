package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sat-tum/kaiyo-api/internal/models"
	"github.com/sat-tum/kaiyo-api/pkg/cache"
	appErrors "github.com/sat-tum/kaiyo-api/pkg/errors"
)

type studentProfileRepository interface {
	Get(ctx context.Context, studentID string) (*models.StudentProfile, error)
	Upsert(ctx context.Context, profile *models.StudentProfile) error
	Delete(ctx context.Context, studentID string) error
}

// ProfileRequest represents the payload for saving a student profile.
type ProfileRequest struct {
	EnrollmentYear int    `json:"enrollment_year" validate:"required,min=1949,max=2200"`
	CurrentGrade   int    `json:"current_grade" validate:"required,min=1,max=4"`
	Department     string `json:"department" validate:"required,max=100"`
}

// ProfileService manages student profiles.
type ProfileService struct {
	repo      studentProfileRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewProfileService constructs a ProfileService.
func NewProfileService(repo studentProfileRepository, cacheSvc *CacheService, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{repo: repo, cache: cacheSvc, validator: validate, logger: logger, now: time.Now}
}

// Get returns the profile of a student.
func (s *ProfileService) Get(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	profile, err := s.repo.Get(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrProfileMissing, "student profile has not been set up")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student profile")
	}
	return profile, nil
}

// Save creates or replaces the profile of a student.
func (s *ProfileService) Save(ctx context.Context, studentID string, req ProfileRequest) (*models.StudentProfile, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	req.Department = strings.TrimSpace(req.Department)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	profile := &models.StudentProfile{
		StudentID:      studentID,
		EnrollmentYear: req.EnrollmentYear,
		CurrentGrade:   req.CurrentGrade,
		Department:     req.Department,
	}
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save student profile")
	}
	// Cohort or grade changes alter which rule set applies.
	if err := s.cache.Invalidate(ctx, cache.ProgressPattern(studentID)); err != nil {
		s.logger.Warn("progress cache invalidation failed", zap.String("student_id", studentID), zap.Error(err))
	}
	return profile, nil
}

// Delete removes the profile of a student.
func (s *ProfileService) Delete(ctx context.Context, studentID string) error {
	if _, err := s.Get(ctx, studentID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, studentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student profile")
	}
	if err := s.cache.Invalidate(ctx, cache.ProgressPattern(studentID)); err != nil {
		s.logger.Warn("progress cache invalidation failed", zap.String("student_id", studentID), zap.Error(err))
	}
	return nil
}

// Terms lists the term labels a student could have taken courses in, from enrollment up to now.
func (s *ProfileService) Terms(ctx context.Context, studentID string) ([]string, error) {
	profile, err := s.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return models.TermLabels(profile.EnrollmentYear, s.now()), nil
}
