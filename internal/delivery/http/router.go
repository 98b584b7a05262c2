package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/joen-ao/Transcriptor-app/internal/delivery/http/middleware"
	"github.com/joen-ao/Transcriptor-app/internal/domain"
	"github.com/joen-ao/Transcriptor-app/internal/usecase"
)

// multipartOverhead leaves room for multipart boundaries and form fields
// on top of the media size ceiling.
const multipartOverhead = 1 << 20

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	SubmitUC  *usecase.SubmitJobUsecase
	StatusUC  *usecase.GetJobStatusUsecase
	ResultUC  *usecase.GetJobResultUsecase
	ListUC    *usecase.ListJobsUsecase
	DeleteUC  *usecase.DeleteJobUsecase
	UploadDir string
	Engines   map[string]bool
	Logger    *zap.Logger
}

// NewRouter creates and configures the Gin router with all routes and middleware.
func NewRouter(deps *RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.BodySizeLimit(domain.MaxFileSizeBytes + multipartOverhead))

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		healthHandler := NewHealthHandler(deps.Logger, deps.Engines)
		v1.GET("/health", healthHandler.Health)

		jobHandler := NewJobHandler(
			deps.SubmitUC, deps.StatusUC, deps.ResultUC,
			deps.ListUC, deps.DeleteUC,
			deps.UploadDir, deps.Logger,
		)
		v1.POST("/jobs", jobHandler.Submit)
		v1.GET("/jobs", jobHandler.List)
		v1.GET("/jobs/:id/status", jobHandler.GetStatus)
		v1.GET("/jobs/:id/result", jobHandler.GetResult)
		v1.DELETE("/jobs/:id", jobHandler.Delete)
	}

	return router
}
