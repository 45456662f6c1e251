package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sat-tum/kaiyo-api/internal/models"
	"github.com/sat-tum/kaiyo-api/pkg/cache"
	appErrors "github.com/sat-tum/kaiyo-api/pkg/errors"
)

type courseRecordRepository interface {
	List(ctx context.Context, filter models.CourseRecordFilter) ([]models.CourseRecord, error)
	FindByID(ctx context.Context, studentID, id string) (*models.CourseRecord, error)
	Create(ctx context.Context, record *models.CourseRecord) error
	CreateBatch(ctx context.Context, records []*models.CourseRecord) error
	Update(ctx context.Context, record *models.CourseRecord) error
	SetOverCredit(ctx context.Context, studentID, id string, overCredit bool) error
	Delete(ctx context.Context, studentID, id string) error
	DeleteAll(ctx context.Context, studentID string) (int64, error)
}

type progressRefresher interface {
	Enqueue(studentID string) error
}

// CourseRecordRequest represents the payload for creating or updating a course record.
type CourseRecordRequest struct {
	CourseName string `json:"course_name" validate:"required,max=200"`
	Credits    int    `json:"credits" validate:"min=0,max=99"`
	Difficulty string `json:"difficulty" validate:"required,oneof=H M E"`
	Category   string `json:"category" validate:"required,max=100"`
	Term       string `json:"term" validate:"required,max=20"`
}

// normalize trims free-text fields so blank values fail the required checks.
func (r *CourseRecordRequest) normalize() {
	r.CourseName = strings.TrimSpace(r.CourseName)
	r.Difficulty = strings.TrimSpace(r.Difficulty)
	r.Category = strings.TrimSpace(r.Category)
	r.Term = strings.TrimSpace(r.Term)
}

// BatchCourseRecordRequest represents a batch intake payload.
type BatchCourseRecordRequest struct {
	Records []CourseRecordRequest `json:"records" validate:"required,min=1,max=200,dive"`
}

// CourseRecordService orchestrates course record intake and maintenance.
type CourseRecordService struct {
	repo      courseRecordRepository
	cache     *CacheService
	refresher progressRefresher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseRecordService constructs a CourseRecordService.
func NewCourseRecordService(repo courseRecordRepository, cacheSvc *CacheService, validate *validator.Validate, logger *zap.Logger) *CourseRecordService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseRecordService{repo: repo, cache: cacheSvc, validator: validate, logger: logger}
}

// UseRefresher schedules a background progress recomputation after every mutation.
func (s *CourseRecordService) UseRefresher(r progressRefresher) {
	s.refresher = r
}

// List returns a student's records, optionally narrowed by category or term.
func (s *CourseRecordService) List(ctx context.Context, filter models.CourseRecordFilter) ([]models.CourseRecord, error) {
	if strings.TrimSpace(filter.StudentID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course records")
	}
	return records, nil
}

// Get returns a single record owned by the student.
func (s *CourseRecordService) Get(ctx context.Context, studentID, id string) (*models.CourseRecord, error) {
	record, err := s.repo.FindByID(ctx, studentID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course record")
	}
	return record, nil
}

// Create validates and stores a new record. New records are never flagged over-credit.
func (s *CourseRecordService) Create(ctx context.Context, studentID string, req CourseRecordRequest) (*models.CourseRecord, error) {
	req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course record payload")
	}
	record := buildRecord(studentID, req)
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course record")
	}
	s.invalidate(ctx, studentID)
	return record, nil
}

// CreateBatch stores several records atomically.
func (s *CourseRecordService) CreateBatch(ctx context.Context, studentID string, req BatchCourseRecordRequest) ([]models.CourseRecord, error) {
	for i := range req.Records {
		req.Records[i].normalize()
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course record batch")
	}
	records := make([]*models.CourseRecord, 0, len(req.Records))
	for _, item := range req.Records {
		records = append(records, buildRecord(studentID, item))
	}
	if err := s.repo.CreateBatch(ctx, records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course records")
	}
	s.invalidate(ctx, studentID)

	result := make([]models.CourseRecord, 0, len(records))
	for _, record := range records {
		result = append(result, *record)
	}
	s.logger.Info("course records created", zap.String("student_id", studentID), zap.Int("count", len(result)))
	return result, nil
}

// Update replaces the editable fields of a record. The over-credit flag is kept as is.
func (s *CourseRecordService) Update(ctx context.Context, studentID, id string, req CourseRecordRequest) (*models.CourseRecord, error) {
	req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course record payload")
	}
	record, err := s.Get(ctx, studentID, id)
	if err != nil {
		return nil, err
	}
	record.CourseName = req.CourseName
	record.Credits = req.Credits
	record.Difficulty = models.Difficulty(req.Difficulty)
	record.Category = req.Category
	record.Term = req.Term

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course record")
	}
	s.invalidate(ctx, studentID)
	return record, nil
}

// Delete removes a record.
func (s *CourseRecordService) Delete(ctx context.Context, studentID, id string) error {
	if _, err := s.Get(ctx, studentID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, studentID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course record")
	}
	s.invalidate(ctx, studentID)
	return nil
}

// DeleteAll removes every record of the student and returns the number removed.
func (s *CourseRecordService) DeleteAll(ctx context.Context, studentID string) (int64, error) {
	removed, err := s.repo.DeleteAll(ctx, studentID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course records")
	}
	s.invalidate(ctx, studentID)
	s.logger.Info("course records cleared", zap.String("student_id", studentID), zap.Int64("removed", removed))
	return removed, nil
}

func (s *CourseRecordService) invalidate(ctx context.Context, studentID string) {
	if err := s.cache.Invalidate(ctx, cache.ProgressPattern(studentID)); err != nil {
		s.logger.Warn("progress cache invalidation failed", zap.String("student_id", studentID), zap.Error(err))
	}
	if s.refresher == nil {
		return
	}
	if err := s.refresher.Enqueue(studentID); err != nil {
		s.logger.Warn("progress refresh not scheduled", zap.String("student_id", studentID), zap.Error(err))
	}
}

func buildRecord(studentID string, req CourseRecordRequest) *models.CourseRecord {
	return &models.CourseRecord{
		StudentID:  studentID,
		CourseName: req.CourseName,
		Credits:    req.Credits,
		Difficulty: models.Difficulty(req.Difficulty),
		Category:   req.Category,
		Term:       req.Term,
	}
}
