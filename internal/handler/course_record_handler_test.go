package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sat-tum/kaiyo-api/internal/models"
	"github.com/sat-tum/kaiyo-api/internal/service"
	appErrors "github.com/sat-tum/kaiyo-api/pkg/errors"
)

type courseRecordServiceMock struct {
	listResp    []models.CourseRecord
	lastFilter  models.CourseRecordFilter
	createReq   service.CourseRecordRequest
	createErr   error
	batchReq    service.BatchCourseRecordRequest
	updateID    string
	deletedID   string
	removed     int64
	createdFor  string
	createCalls int
}

func (m *courseRecordServiceMock) List(ctx context.Context, filter models.CourseRecordFilter) ([]models.CourseRecord, error) {
	m.lastFilter = filter
	return m.listResp, nil
}

func (m *courseRecordServiceMock) Create(ctx context.Context, studentID string, req service.CourseRecordRequest) (*models.CourseRecord, error) {
	m.createCalls++
	m.createdFor = studentID
	m.createReq = req
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.CourseRecord{ID: "r1", StudentID: studentID, CourseName: req.CourseName, Credits: req.Credits}, nil
}

func (m *courseRecordServiceMock) CreateBatch(ctx context.Context, studentID string, req service.BatchCourseRecordRequest) ([]models.CourseRecord, error) {
	m.batchReq = req
	return make([]models.CourseRecord, len(req.Records)), nil
}

func (m *courseRecordServiceMock) Update(ctx context.Context, studentID, id string, req service.CourseRecordRequest) (*models.CourseRecord, error) {
	m.updateID = id
	return &models.CourseRecord{ID: id}, nil
}

func (m *courseRecordServiceMock) Delete(ctx context.Context, studentID, id string) error {
	m.deletedID = id
	return nil
}

func (m *courseRecordServiceMock) DeleteAll(ctx context.Context, studentID string) (int64, error) {
	return m.removed, nil
}

func courseRouter(h *CourseRecordHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/students/:studentId/courses")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.POST("/batch", h.CreateBatch)
	g.DELETE("", h.DeleteAll)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCourseRecordHandlerList(t *testing.T) {
	mockSvc := &courseRecordServiceMock{listResp: []models.CourseRecord{{ID: "a", Credits: 2}, {ID: "b", Credits: 4}}}
	w := doJSON(courseRouter(NewCourseRecordHandler(mockSvc)), http.MethodGet, "/students/s1/courses?category=X&term=2024-%E5%89%8D%E6%9C%9F", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.CourseRecordFilter{StudentID: "s1", Category: "X", Term: "2024-前期"}, mockSvc.lastFilter)

	var body struct {
		Data []models.CourseRecord `json:"data"`
		Meta map[string]float64    `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)
	assert.Equal(t, float64(6), body.Meta["credits"])
}

func TestCourseRecordHandlerCreate(t *testing.T) {
	mockSvc := &courseRecordServiceMock{}
	w := doJSON(courseRouter(NewCourseRecordHandler(mockSvc)), http.MethodPost, "/students/s1/courses",
		`{"course_name":"基礎数学","credits":2,"difficulty":"E","category":"基礎教育-必修","term":"2024-前期"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "s1", mockSvc.createdFor)
	assert.Equal(t, "基礎数学", mockSvc.createReq.CourseName)
}

func TestCourseRecordHandlerCreateInvalidBody(t *testing.T) {
	mockSvc := &courseRecordServiceMock{}
	w := doJSON(courseRouter(NewCourseRecordHandler(mockSvc)), http.MethodPost, "/students/s1/courses", `{"course_name":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, mockSvc.createCalls)
}

func TestCourseRecordHandlerCreateServiceError(t *testing.T) {
	mockSvc := &courseRecordServiceMock{createErr: appErrors.Clone(appErrors.ErrValidation, "invalid course record payload")}
	w := doJSON(courseRouter(NewCourseRecordHandler(mockSvc)), http.MethodPost, "/students/s1/courses", `{"credits":-1}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), appErrors.ErrValidation.Code)
}

func TestCourseRecordHandlerBatchUpdateDelete(t *testing.T) {
	mockSvc := &courseRecordServiceMock{removed: 3}
	r := courseRouter(NewCourseRecordHandler(mockSvc))

	w := doJSON(r, http.MethodPost, "/students/s1/courses/batch", `{"records":[{"course_name":"A"},{"course_name":"B"}]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, mockSvc.batchReq.Records, 2)

	w = doJSON(r, http.MethodPut, "/students/s1/courses/r9", `{"course_name":"A"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r9", mockSvc.updateID)

	w = doJSON(r, http.MethodDelete, "/students/s1/courses/r9", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "r9", mockSvc.deletedID)

	w = doJSON(r, http.MethodDelete, "/students/s1/courses", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"removed":3`)
}
