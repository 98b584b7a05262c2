package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/joen-ao/Transcriptor-app/internal/config"
	handler "github.com/joen-ao/Transcriptor-app/internal/delivery/http"
	"github.com/joen-ao/Transcriptor-app/internal/engine"
	"github.com/joen-ao/Transcriptor-app/internal/media"
	"github.com/joen-ao/Transcriptor-app/internal/repository"
	"github.com/joen-ao/Transcriptor-app/internal/repository/memory"
	"github.com/joen-ao/Transcriptor-app/internal/repository/postgres"
	"github.com/joen-ao/Transcriptor-app/internal/usecase"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting Transcriptor server")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Prepare the transient upload directory
	if err := os.MkdirAll(cfg.Server.UploadDir, 0o755); err != nil {
		logger.Fatal("Failed to create upload directory", zap.Error(err))
	}

	// Initialize the job store
	ctx := context.Background()
	jobRepo, closeStore, err := newJobRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize job store", zap.Error(err))
	}
	defer closeStore()

	// Initialize the media normalizer and engine chain
	runner := media.NewExecRunner()
	normalizer := media.NewNormalizer(cfg.Media.FFmpegBin, runner, logger)

	primary := engine.NewWhisperPython(cfg.Engines.PythonBin, runner, normalizer, logger)
	secondary := engine.NewWhisperCPP(cfg.Engines.WhisperCPPBin, cfg.Engines.ModelDir, runner, normalizer, logger)
	placeholder := engine.NewPlaceholder()

	engineReadiness := map[string]bool{}
	for _, eng := range []engine.Engine{primary, secondary, placeholder} {
		initCtx, cancel := context.WithTimeout(ctx, cfg.Engines.ReadyCheckTimeout)
		if err := eng.Init(initCtx); err != nil {
			logger.Warn("Engine unavailable, will rely on fallback",
				zap.String("engine", eng.Name()),
				zap.Error(err),
			)
		}
		cancel()
		engineReadiness[eng.Name()] = eng.IsReady()
	}

	chain := engine.NewChain(cfg.Engines.Timeout, logger, primary, secondary, placeholder)

	// Initialize use cases
	processUC := usecase.NewProcessJobUsecase(jobRepo, chain, cfg.Server.UploadDir, cfg.Engines.DefaultLanguage, logger)
	submitUC := usecase.NewSubmitJobUsecase(jobRepo, processUC, logger)
	statusUC := usecase.NewGetJobStatusUsecase(jobRepo, logger)
	resultUC := usecase.NewGetJobResultUsecase(jobRepo, logger)
	listUC := usecase.NewListJobsUsecase(jobRepo, logger)
	deleteUC := usecase.NewDeleteJobUsecase(jobRepo, logger)

	// Initialize router
	router := handler.NewRouter(&handler.RouterDeps{
		SubmitUC:  submitUC,
		StatusUC:  statusUC,
		ResultUC:  resultUC,
		ListUC:    listUC,
		DeleteUC:  deleteUC,
		UploadDir: cfg.Server.UploadDir,
		Engines:   engineReadiness,
		Logger:    logger,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// newJobRepository selects the store driver: postgres for durable server
// deployments, the embedded memory store otherwise.
func newJobRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.JobRepository, func(), error) {
	if cfg.Store.Driver != "postgres" {
		logger.Info("Using embedded in-memory job store")
		return memory.NewJobRepository(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("Connected to PostgreSQL")
	return postgres.NewJobRepository(pool), pool.Close, nil
}
