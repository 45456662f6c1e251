package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sat-tum/kaiyo-api/internal/models"
	"github.com/sat-tum/kaiyo-api/internal/service"
	appErrors "github.com/sat-tum/kaiyo-api/pkg/errors"
	"github.com/sat-tum/kaiyo-api/pkg/response"
)

type courseRecordService interface {
	List(ctx context.Context, filter models.CourseRecordFilter) ([]models.CourseRecord, error)
	Create(ctx context.Context, studentID string, req service.CourseRecordRequest) (*models.CourseRecord, error)
	CreateBatch(ctx context.Context, studentID string, req service.BatchCourseRecordRequest) ([]models.CourseRecord, error)
	Update(ctx context.Context, studentID, id string, req service.CourseRecordRequest) (*models.CourseRecord, error)
	Delete(ctx context.Context, studentID, id string) error
	DeleteAll(ctx context.Context, studentID string) (int64, error)
}

// CourseRecordHandler exposes course record intake endpoints.
type CourseRecordHandler struct {
	service courseRecordService
}

// NewCourseRecordHandler constructs a CourseRecordHandler.
func NewCourseRecordHandler(service courseRecordService) *CourseRecordHandler {
	return &CourseRecordHandler{service: service}
}

// List godoc
// @Summary List course records
// @Tags Courses
// @Produce json
// @Param studentId path string true "Student ID"
// @Param category query string false "Category label"
// @Param term query string false "Term label, e.g. 2024-前期"
// @Success 200 {object} response.Envelope
// @Router /students/{studentId}/courses [get]
func (h *CourseRecordHandler) List(c *gin.Context) {
	filter := models.CourseRecordFilter{
		StudentID: studentIDParam(c),
		Category:  strings.TrimSpace(c.Query("category")),
		Term:      strings.TrimSpace(c.Query("term")),
	}
	records, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	credits := 0
	for _, record := range records {
		credits += record.Credits
	}
	response.JSON(c, http.StatusOK, records, map[string]interface{}{"count": len(records), "credits": credits})
}

// Create godoc
// @Summary Add a course record
// @Tags Courses
// @Accept json
// @Produce json
// @Param studentId path string true "Student ID"
// @Param payload body service.CourseRecordRequest true "Course record"
// @Success 201 {object} response.Envelope
// @Router /students/{studentId}/courses [post]
func (h *CourseRecordHandler) Create(c *gin.Context) {
	var req service.CourseRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course record payload"))
		return
	}
	record, err := h.service.Create(c.Request.Context(), studentIDParam(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// CreateBatch godoc
// @Summary Add several course records at once
// @Tags Courses
// @Accept json
// @Produce json
// @Param studentId path string true "Student ID"
// @Param payload body service.BatchCourseRecordRequest true "Course records"
// @Success 201 {object} response.Envelope
// @Router /students/{studentId}/courses/batch [post]
func (h *CourseRecordHandler) CreateBatch(c *gin.Context) {
	var req service.BatchCourseRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course record batch"))
		return
	}
	records, err := h.service.CreateBatch(c.Request.Context(), studentIDParam(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, records)
}

// Update godoc
// @Summary Update a course record
// @Tags Courses
// @Accept json
// @Produce json
// @Param studentId path string true "Student ID"
// @Param id path string true "Record ID"
// @Param payload body service.CourseRecordRequest true "Course record"
// @Success 200 {object} response.Envelope
// @Router /students/{studentId}/courses/{id} [put]
func (h *CourseRecordHandler) Update(c *gin.Context) {
	var req service.CourseRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course record payload"))
		return
	}
	record, err := h.service.Update(c.Request.Context(), studentIDParam(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// Delete godoc
// @Summary Delete a course record
// @Tags Courses
// @Param studentId path string true "Student ID"
// @Param id path string true "Record ID"
// @Success 204
// @Router /students/{studentId}/courses/{id} [delete]
func (h *CourseRecordHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), studentIDParam(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteAll godoc
// @Summary Delete every course record of a student
// @Tags Courses
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{studentId}/courses [delete]
func (h *CourseRecordHandler) DeleteAll(c *gin.Context) {
	removed, err := h.service.DeleteAll(c.Request.Context(), studentIDParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"removed": removed})
}
