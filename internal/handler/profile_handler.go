package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sat-tum/kaiyo-api/internal/models"
	"github.com/sat-tum/kaiyo-api/internal/service"
	appErrors "github.com/sat-tum/kaiyo-api/pkg/errors"
	"github.com/sat-tum/kaiyo-api/pkg/response"
)

type profileService interface {
	Get(ctx context.Context, studentID string) (*models.StudentProfile, error)
	Save(ctx context.Context, studentID string, req service.ProfileRequest) (*models.StudentProfile, error)
	Delete(ctx context.Context, studentID string) error
	Terms(ctx context.Context, studentID string) ([]string, error)
}

// ProfileHandler exposes student profile endpoints.
type ProfileHandler struct {
	service profileService
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(service profileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Get godoc
// @Summary Get student profile
// @Tags Profile
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /students/{studentId}/profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.service.Get(c.Request.Context(), studentIDParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

// Save godoc
// @Summary Create or replace student profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param studentId path string true "Student ID"
// @Param payload body service.ProfileRequest true "Profile"
// @Success 200 {object} response.Envelope
// @Router /students/{studentId}/profile [put]
func (h *ProfileHandler) Save(c *gin.Context) {
	var req service.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}
	profile, err := h.service.Save(c.Request.Context(), studentIDParam(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

// Delete godoc
// @Summary Delete student profile
// @Tags Profile
// @Param studentId path string true "Student ID"
// @Success 204
// @Router /students/{studentId}/profile [delete]
func (h *ProfileHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), studentIDParam(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Terms godoc
// @Summary List term labels since enrollment
// @Tags Profile
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{studentId}/terms [get]
func (h *ProfileHandler) Terms(c *gin.Context) {
	terms, err := h.service.Terms(c.Request.Context(), studentIDParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, terms)
}

// Categories godoc
// @Summary List known course categories
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /categories [get]
func Categories(c *gin.Context) {
	response.JSON(c, http.StatusOK, models.DefaultCategories())
}
