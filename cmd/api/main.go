package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/openlearn/lmd-api/api/swagger"
	"github.com/openlearn/lmd-api/internal/handler"
	"github.com/openlearn/lmd-api/internal/middleware"
	"github.com/openlearn/lmd-api/internal/repository"
	"github.com/openlearn/lmd-api/internal/seed"
	"github.com/openlearn/lmd-api/internal/service"
	"github.com/openlearn/lmd-api/pkg/cache"
	"github.com/openlearn/lmd-api/pkg/config"
	"github.com/openlearn/lmd-api/pkg/database"
	"github.com/openlearn/lmd-api/pkg/logger"
	corsmiddleware "github.com/openlearn/lmd-api/pkg/middleware/cors"
	reqidmiddleware "github.com/openlearn/lmd-api/pkg/middleware/requestid"
)

// @title Learning Management Dashboard API
// @version 1.0.0
// @description CRUD API for courses, students, and enrollments
// @BasePath /api
// @schemes http

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

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var (
		courseSvc     *service.CourseService
		studentSvc    *service.StudentService
		enrollmentSvc *service.EnrollmentService
	)

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to database", "error", err)
		}
		defer db.Close() //nolint:errcheck

		courseRepo := repository.NewPostgresCourseRepository(db)
		studentRepo := repository.NewPostgresStudentRepository(db)
		enrollmentRepo := repository.NewPostgresEnrollmentRepository(db)
		courseSvc = service.NewCourseService(courseRepo, enrollmentRepo, validate, logr)
		studentSvc = service.NewStudentService(studentRepo, enrollmentRepo, courseRepo, logr)
		enrollmentSvc = service.NewEnrollmentService(enrollmentRepo, studentRepo, courseRepo, validate, logr)
	default:
		courseRepo := repository.NewMemoryCourseRepository()
		studentRepo := repository.NewMemoryStudentRepository()
		enrollmentRepo := repository.NewMemoryEnrollmentRepository()
		courseSvc = service.NewCourseService(courseRepo, enrollmentRepo, validate, logr)
		studentSvc = service.NewStudentService(studentRepo, enrollmentRepo, courseRepo, logr)
		enrollmentSvc = service.NewEnrollmentService(enrollmentRepo, studentRepo, courseRepo, validate, logr)

		if cfg.Seed.Enabled {
			if err := seed.Load(context.Background(), courseRepo, studentRepo, enrollmentRepo, logr); err != nil {
				logr.Sugar().Fatalw("failed to seed sample data", "error", err)
			}
		}
	}

	if cfg.ReportCache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close() //nolint:errcheck
		enrollmentSvc = enrollmentSvc.WithReportCache(repository.NewRedisReportCache(redisClient), cfg.ReportCache.TTL, metricsSvc)
	}

	courseHandler := handler.NewCourseHandler(courseSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/courses", courseHandler.List)
		api.POST("/courses", courseHandler.Create)
		api.GET("/courses/:id", courseHandler.Get)
		api.PUT("/courses/:id", courseHandler.Update)
		api.DELETE("/courses/:id", courseHandler.Delete)

		api.GET("/enrollments", enrollmentHandler.List)
		api.POST("/enrollments", enrollmentHandler.Create)
		api.GET("/enrollments/report", enrollmentHandler.Report)
		api.GET("/enrollments/report/export", enrollmentHandler.ExportReport)
		api.GET("/enrollments/:id", enrollmentHandler.Get)
		api.PUT("/enrollments/:id/status", enrollmentHandler.UpdateStatus)
		api.DELETE("/enrollments/:id", enrollmentHandler.Delete)

		api.GET("/students", studentHandler.List)
		api.GET("/students/search", studentHandler.Search)
		api.GET("/students/:id", studentHandler.Get)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Store.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
