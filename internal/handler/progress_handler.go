package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sat-tum/kaiyo-api/internal/models"
	"github.com/sat-tum/kaiyo-api/internal/service"
	"github.com/sat-tum/kaiyo-api/pkg/response"
)

type progressService interface {
	Evaluate(ctx context.Context, studentID string, milestone models.MilestoneType) (*models.Progress, error)
	Milestones(ctx context.Context, studentID string) ([]models.RuleSet, error)
	ApplyOverCredit(ctx context.Context, studentID, recordID string, milestone models.MilestoneType) (*models.OverCreditResult, error)
}

type reportService interface {
	Export(ctx context.Context, studentID string, milestone models.MilestoneType, format string) (*service.ReportFile, error)
}

// ProgressHandler exposes credit progress endpoints.
type ProgressHandler struct {
	progress progressService
	reports  reportService
}

// NewProgressHandler constructs a ProgressHandler.
func NewProgressHandler(progress progressService, reports reportService) *ProgressHandler {
	return &ProgressHandler{progress: progress, reports: reports}
}

// Get godoc
// @Summary Evaluate credit progress
// @Description Defaults to the milestone the student's current grade is working toward.
// @Tags Progress
// @Produce json
// @Param studentId path string true "Student ID"
// @Param milestone query string false "Grade2, Grade3, Grade4 or Graduation"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope "No rules for the student's program"
// @Failure 412 {object} response.Envelope "Profile missing"
// @Router /students/{studentId}/progress [get]
func (h *ProgressHandler) Get(c *gin.Context) {
	progress, err := h.progress.Evaluate(c.Request.Context(), studentIDParam(c), milestoneQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress)
}

// Milestones godoc
// @Summary List rule sets for the student's program
// @Tags Progress
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{studentId}/progress/milestones [get]
func (h *ProgressHandler) Milestones(c *gin.Context) {
	sets, err := h.progress.Milestones(c.Request.Context(), studentIDParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sets)
}

// Export godoc
// @Summary Download a progress report
// @Tags Progress
// @Produce text/csv
// @Produce application/pdf
// @Param studentId path string true "Student ID"
// @Param milestone query string false "Milestone"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /students/{studentId}/progress/export [get]
func (h *ProgressHandler) Export(c *gin.Context) {
	file, err := h.reports.Export(c.Request.Context(), studentIDParam(c), milestoneQuery(c), c.DefaultQuery("format", service.ReportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Content)
}

// OverCredit godoc
// @Summary Classify a record as over-credit and store the result
// @Tags Courses
// @Produce json
// @Param studentId path string true "Student ID"
// @Param id path string true "Record ID"
// @Param milestone query string false "Milestone whose caps apply"
// @Success 200 {object} response.Envelope
// @Router /students/{studentId}/courses/{id}/over-credit [post]
func (h *ProgressHandler) OverCredit(c *gin.Context) {
	result, err := h.progress.ApplyOverCredit(c.Request.Context(), studentIDParam(c), c.Param("id"), milestoneQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
