package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/talentgate/assess-backend/internal/ai"
	"github.com/talentgate/assess-backend/internal/config"
	"github.com/talentgate/assess-backend/internal/database"
	"github.com/talentgate/assess-backend/internal/handler"
	"github.com/talentgate/assess-backend/internal/judge"
	"github.com/talentgate/assess-backend/internal/logger"
	"github.com/talentgate/assess-backend/internal/repository"
	"github.com/talentgate/assess-backend/internal/router"
	"github.com/talentgate/assess-backend/internal/service"
	"github.com/talentgate/assess-backend/internal/validator"
	"github.com/talentgate/assess-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting TalentGate Assessment Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── External Adapters ─────────────────────────────────────────────
	executor := judge.NewClient(cfg.ExecServiceURL, cfg.ExecServiceKey, cfg.ExecServiceTimeout)

	scorer, err := ai.NewGeminiScorer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize AI scorer")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	adminRepo := repository.NewAdminRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	jobRepo := repository.NewJobRepository(pool)
	setRepo := repository.NewSetRepository(pool)
	candidateRepo := repository.NewCandidateRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	answerRepo := repository.NewAnswerRepository(pool)
	violationRepo := repository.NewViolationRepository(pool)
	evaluationRepo := repository.NewEvaluationRepository(pool)
	commRepo := repository.NewCommunicationRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	adminService := service.NewAdminService(adminRepo, roleRepo)
	jobService := service.NewJobService(jobRepo, cfg)
	setService := service.NewSetService(setRepo)
	onboardingService := service.NewOnboardingService(candidateRepo, jobRepo, commRepo, rdb, log)
	candidateService := service.NewCandidateService(candidateRepo, commRepo, violationRepo, sessionRepo)
	sessionService := service.NewSessionService(candidateRepo, sessionRepo, setRepo, attemptRepo, authService, rdb, log, nil)
	judgingService := service.NewJudgingService(candidateRepo, sessionRepo, setRepo, attemptRepo, answerRepo, executor, rdb, log)
	evaluationService := service.NewEvaluationService(candidateRepo, jobRepo, setRepo, answerRepo, evaluationRepo, commRepo, scorer, rdb, log)
	mediaService := service.NewMediaService(cfg)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:           handler.NewAuthHandler(authService, adminService),
		Role:           handler.NewRoleHandler(adminService),
		Onboarding:     handler.NewOnboardingHandler(onboardingService, candidateService),
		Media:          handler.NewMediaHandler(mediaService),
		Session:        handler.NewSessionHandler(sessionService, candidateService),
		Judging:        handler.NewJudgingHandler(judgingService),
		Job:            handler.NewJobHandler(jobService),
		Set:            handler.NewSetHandler(setService),
		CandidateAdmin: handler.NewCandidateAdminHandler(candidateService, sessionService),
		Evaluation:     handler.NewEvaluationHandler(evaluationService, candidateService),
		WS:             handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
		System:         handler.NewSystemHandler(rdb, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	resumeWorker := worker.NewResumeWorker(candidateRepo, jobRepo, commRepo, scorer, rdb, log)
	evaluationWorker := worker.NewEvaluationWorker(evaluationService, rdb, log)
	violationWorker := worker.NewViolationWorker(violationRepo, rdb, log)
	scoreWorker := worker.NewScoreWorker(pool, rdb, log)

	go resumeWorker.Start(workerCtx)
	go evaluationWorker.Start(workerCtx)
	go violationWorker.Start(workerCtx)
	go scoreWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, candidateRepo, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
