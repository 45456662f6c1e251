package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sat-tum/kaiyo-api/internal/models"
)

func studentIDParam(c *gin.Context) string {
	return strings.TrimSpace(c.Param("studentId"))
}

func milestoneQuery(c *gin.Context) models.MilestoneType {
	return models.MilestoneType(strings.TrimSpace(c.Query("milestone")))
}
