package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/sat-tum/kaiyo-api/api/swagger"
	"github.com/sat-tum/kaiyo-api/internal/evaluator"
	"github.com/sat-tum/kaiyo-api/internal/handler"
	"github.com/sat-tum/kaiyo-api/internal/repository"
	"github.com/sat-tum/kaiyo-api/internal/rules"
	"github.com/sat-tum/kaiyo-api/internal/server"
	"github.com/sat-tum/kaiyo-api/internal/service"
	"github.com/sat-tum/kaiyo-api/pkg/cache"
	"github.com/sat-tum/kaiyo-api/pkg/config"
	"github.com/sat-tum/kaiyo-api/pkg/database"
	"github.com/sat-tum/kaiyo-api/pkg/export"
	"github.com/sat-tum/kaiyo-api/pkg/jobs"
	"github.com/sat-tum/kaiyo-api/pkg/logger"
)

// @title Kaiyo Credit Progress API
// @version 1.0.0
// @description Tracks completed courses and evaluates them against curriculum credit rules.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	ruleSets := repository.NewRuleSetRepository(db)
	table, err := rules.Load(ctx, cfg.Rules.Source, cfg.Rules.File, ruleSets)
	if err != nil {
		logr.Fatal("failed to load curriculum rules", zap.String("source", cfg.Rules.Source), zap.Error(err))
	}
	logr.Info("curriculum rules loaded", zap.String("source", cfg.Rules.Source), zap.Int("rule_sets", table.Len()))

	metrics := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if cfg.Progress.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, progress cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client, "kaiyo", logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Progress.CacheTTL, logr, cacheRepo != nil)

	validate := validator.New()
	records := repository.NewCourseRecordRepository(db)
	profileSvc := service.NewProfileService(repository.NewStudentProfileRepository(db), cacheSvc, validate, logr)
	courseSvc := service.NewCourseRecordService(records, cacheSvc, validate, logr)
	progressSvc := service.NewProgressService(service.ProgressServiceConfig{
		Profiles:  profileSvc,
		Records:   records,
		Rules:     table,
		Evaluator: evaluator.New(evaluator.WithCompositeMarker(cfg.Rules.CompositeMarker)),
		Cache:     cacheSvc,
		Metrics:   metrics,
		CacheTTL:  cfg.Progress.CacheTTL,
		Logger:    logr,
	})
	reportSvc := service.NewReportService(progressSvc, export.NewCSVExporter(), export.NewPDFExporter(), logr)
	tokens := service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer, Expiry: cfg.JWT.Expiration})

	if cacheSvc.Enabled() {
		refresh := jobs.NewQueue("progress-refresh", progressSvc.Warm, jobs.QueueConfig{Workers: 2, MaxRetries: 2, Logger: logr})
		refresh.Start(ctx)
		defer refresh.Stop()
		courseSvc.UseRefresher(refresh)
	}

	router := server.NewRouter(server.Options{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Logger:         logr,
		Metrics:        metrics,
		Tokens:         tokens,
		Courses:        handler.NewCourseRecordHandler(courseSvc),
		Profiles:       handler.NewProfileHandler(profileSvc),
		Progress:       handler.NewProgressHandler(progressSvc, reportSvc),
		Ops:            handler.NewMetricsHandler(metrics, db, table.Len()),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
