package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sat-tum/kaiyo-api/internal/service"
)

type pingerStub struct{ err error }

func (p pingerStub) PingContext(ctx context.Context) error { return p.err }

func readyStatus(h *MetricsHandler) int {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	h.Ready(c)
	return w.Code
}

func TestMetricsHandlerReady(t *testing.T) {
	metrics := service.NewMetricsService()

	assert.Equal(t, http.StatusOK, readyStatus(NewMetricsHandler(metrics, pingerStub{}, 4)))
	assert.Equal(t, http.StatusServiceUnavailable, readyStatus(NewMetricsHandler(metrics, pingerStub{err: errors.New("down")}, 4)))
	assert.Equal(t, http.StatusServiceUnavailable, readyStatus(NewMetricsHandler(metrics, nil, 0)))
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/metrics", nil)

	NewMetricsHandler(service.NewMetricsService(), nil, 1).Prometheus(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
