// Package server assembles the gin engine from handlers and middleware.
package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/sat-tum/kaiyo-api/internal/handler"
	"github.com/sat-tum/kaiyo-api/internal/middleware"
	"github.com/sat-tum/kaiyo-api/internal/service"
	"github.com/sat-tum/kaiyo-api/pkg/logger"
	corsmiddleware "github.com/sat-tum/kaiyo-api/pkg/middleware/cors"
	reqidmiddleware "github.com/sat-tum/kaiyo-api/pkg/middleware/requestid"
)

// Options carries everything the router needs.
type Options struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool

	Logger  *zap.Logger
	Metrics *service.MetricsService
	Tokens  middleware.TokenValidator

	Courses  *handler.CourseRecordHandler
	Profiles *handler.ProfileHandler
	Progress *handler.ProgressHandler
	Ops      *handler.MetricsHandler
}

// NewRouter builds the HTTP engine.
func NewRouter(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.APIPrefix == "" {
		opts.APIPrefix = "/api/v1"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Metrics))

	r.GET("/health", opts.Ops.Health)
	r.GET("/ready", opts.Ops.Ready)
	r.GET("/metrics", opts.Ops.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(opts.APIPrefix)
	api.GET("/categories", handler.Categories)

	ops := api.Group("/ops", middleware.JWT(opts.Tokens), middleware.RequireAdmin())
	ops.GET("/metrics", opts.Ops.Snapshot)

	student := api.Group("/students/:studentId", middleware.JWT(opts.Tokens), middleware.StudentScope("studentId"))

	student.GET("/profile", opts.Profiles.Get)
	student.PUT("/profile", opts.Profiles.Save)
	student.DELETE("/profile", opts.Profiles.Delete)
	student.GET("/terms", opts.Profiles.Terms)

	courses := student.Group("/courses")
	courses.GET("", opts.Courses.List)
	courses.POST("", opts.Courses.Create)
	courses.DELETE("", opts.Courses.DeleteAll)
	courses.POST("/batch", opts.Courses.CreateBatch)
	courses.PUT("/:id", opts.Courses.Update)
	courses.DELETE("/:id", opts.Courses.Delete)
	courses.POST("/:id/over-credit", opts.Progress.OverCredit)

	progress := student.Group("/progress")
	progress.GET("", opts.Progress.Get)
	progress.GET("/milestones", opts.Progress.Milestones)
	progress.GET("/export", opts.Progress.Export)

	return r
}
