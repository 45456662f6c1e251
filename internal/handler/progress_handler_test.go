package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sat-tum/kaiyo-api/internal/models"
	"github.com/sat-tum/kaiyo-api/internal/service"
	appErrors "github.com/sat-tum/kaiyo-api/pkg/errors"
)

type progressServiceMock struct {
	evalErr       error
	lastMilestone models.MilestoneType
	lastRecord    string
}

func (m *progressServiceMock) Evaluate(ctx context.Context, studentID string, milestone models.MilestoneType) (*models.Progress, error) {
	m.lastMilestone = milestone
	if m.evalErr != nil {
		return nil, m.evalErr
	}
	return &models.Progress{StudentID: studentID, Evaluation: models.Evaluation{Milestone: models.MilestoneGrade2, CountedCredits: 12}}, nil
}

func (m *progressServiceMock) Milestones(ctx context.Context, studentID string) ([]models.RuleSet, error) {
	return []models.RuleSet{{Milestone: models.MilestoneGrade2}}, nil
}

func (m *progressServiceMock) ApplyOverCredit(ctx context.Context, studentID, recordID string, milestone models.MilestoneType) (*models.OverCreditResult, error) {
	m.lastRecord = recordID
	m.lastMilestone = milestone
	return &models.OverCreditResult{RecordID: recordID, IsOverCredit: true, Changed: true}, nil
}

type reportServiceMock struct {
	format string
}

func (m *reportServiceMock) Export(ctx context.Context, studentID string, milestone models.MilestoneType, format string) (*service.ReportFile, error) {
	m.format = format
	return &service.ReportFile{Filename: "progress_s1_Grade2.csv", ContentType: "text/csv; charset=utf-8", Content: []byte("Item,Value\r\n")}, nil
}

func progressRouter(h *ProgressHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/students/:studentId")
	g.GET("/progress", h.Get)
	g.GET("/progress/milestones", h.Milestones)
	g.GET("/progress/export", h.Export)
	g.POST("/courses/:id/over-credit", h.OverCredit)
	return r
}

func TestProgressHandlerGet(t *testing.T) {
	mockSvc := &progressServiceMock{}
	w := doJSON(progressRouter(NewProgressHandler(mockSvc, &reportServiceMock{})), http.MethodGet, "/students/s1/progress?milestone=Grade3", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.MilestoneGrade3, mockSvc.lastMilestone)
	assert.Contains(t, w.Body.String(), `"counted_credits":12`)
}

func TestProgressHandlerRulesNotFound(t *testing.T) {
	mockSvc := &progressServiceMock{evalErr: appErrors.Clone(appErrors.ErrRulesNotFound, "")}
	w := doJSON(progressRouter(NewProgressHandler(mockSvc, &reportServiceMock{})), http.MethodGet, "/students/s1/progress", "")

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "RULES_NOT_FOUND")
	assert.Equal(t, models.MilestoneType(""), mockSvc.lastMilestone)
}

func TestProgressHandlerMilestones(t *testing.T) {
	w := doJSON(progressRouter(NewProgressHandler(&progressServiceMock{}, &reportServiceMock{})), http.MethodGet, "/students/s1/progress/milestones", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Grade2")
}

func TestProgressHandlerExport(t *testing.T) {
	reports := &reportServiceMock{}
	w := doJSON(progressRouter(NewProgressHandler(&progressServiceMock{}, reports)), http.MethodGet, "/students/s1/progress/export", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", reports.format)
	assert.Equal(t, `attachment; filename="progress_s1_Grade2.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "Item,Value\r\n", w.Body.String())
}

func TestProgressHandlerOverCredit(t *testing.T) {
	mockSvc := &progressServiceMock{}
	w := doJSON(progressRouter(NewProgressHandler(mockSvc, &reportServiceMock{})), http.MethodPost, "/students/s1/courses/r7/over-credit?milestone=Graduation", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r7", mockSvc.lastRecord)
	assert.Equal(t, models.MilestoneGraduation, mockSvc.lastMilestone)
	assert.Contains(t, w.Body.String(), `"is_over_credit":true`)
}
