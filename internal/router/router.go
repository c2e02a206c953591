package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/talentgate/assess-backend/internal/config"
	"github.com/talentgate/assess-backend/internal/handler"
	"github.com/talentgate/assess-backend/internal/middleware"
	"github.com/talentgate/assess-backend/internal/model"
	"github.com/talentgate/assess-backend/internal/repository"
	"github.com/talentgate/assess-backend/internal/response"
	"github.com/talentgate/assess-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth           *handler.AuthHandler
	Role           *handler.RoleHandler
	Onboarding     *handler.OnboardingHandler
	Media          *handler.MediaHandler
	Session        *handler.SessionHandler
	Judging        *handler.JudgingHandler
	Job            *handler.JobHandler
	Set            *handler.SetHandler
	CandidateAdmin *handler.CandidateAdminHandler
	Evaluation     *handler.EvaluationHandler
	WS             *handler.WSHandler
	System         *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	candidateRepo *repository.CandidateRepository,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Session-Token"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve uploaded files statically with aggressive caching (1 year).
	// Filenames are random UUIDs, so stale caching is impossible.
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for registration and OTP endpoints (30 per minute per IP).
	registerLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public) ────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/admin/login", handlers.Auth.AdminLogin)
		auth.GET("/admin/me", middleware.RequireAdminJWT(authService), handlers.Auth.GetAdminProfile)
	}

	// ─── 2. Candidate Onboarding (Capability URLs) ─────────────────────
	// The random assessment UUID issued at registration is the
	// credential until the session token takes over at start.
	candidateAPI := router.Group("/api/v1/candidate")
	{
		candidateAPI.POST("/register", registerLimiter.Middleware(), handlers.Onboarding.Register)

		assessments := candidateAPI.Group("/assessments/:assessment_id")
		{
			assessments.GET("", handlers.Onboarding.GetAssessment)
			assessments.POST("/otp", registerLimiter.Middleware(), handlers.Onboarding.ResendOTP)
			assessments.POST("/verify-email", handlers.Onboarding.VerifyEmail)
			assessments.POST("/photo", handlers.Onboarding.CapturePhoto)
			assessments.POST("/consent", handlers.Onboarding.AcceptConsent)
			assessments.POST("/resume", handlers.Onboarding.UploadResume)
			assessments.POST("/session/start", handlers.Session.Start)
		}

		uploads := candidateAPI.Group("/uploads")
		{
			uploads.POST("/photo", handlers.Media.UploadPhoto)
			uploads.POST("/resume", handlers.Media.UploadResumeFile)
		}

		// ─── 3. Candidate Session (Session Token) ──────────────────────
		session := candidateAPI.Group("/session")
		session.Use(middleware.RequireSessionToken(authService, candidateRepo))
		{
			session.GET("", handlers.Session.GetState)
			session.POST("/heartbeat", handlers.Session.Heartbeat)
			session.POST("/violations", handlers.Session.ReportViolation)
			session.POST("/complete", handlers.Judging.Complete)
			session.POST("/questions/:question_id/run", handlers.Judging.RunCode)
			session.POST("/questions/:question_id/submit", handlers.Judging.SubmitCode)
			session.PUT("/questions/:question_id/answer", handlers.Judging.SaveAnswer)
		}
	}

	// ─── 4. WebSocket Group (Admin WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAdminWSAuth(authService))
	{
		ws.GET("/admin/jobs/:job_id/proctor",
			middleware.RequirePermission(string(model.PermissionProctorMonitor)),
			handlers.WS.ProctorStream,
		)
	}

	// ─── 5. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Job management
		adminAPI.GET("/jobs",
			middleware.RequirePermission(string(model.PermissionJobsRead)),
			handlers.Job.ListJobs,
		)
		adminAPI.POST("/jobs",
			middleware.RequirePermission(string(model.PermissionJobsWrite)),
			handlers.Job.CreateJob,
		)
		adminAPI.GET("/jobs/:job_id",
			middleware.RequirePermission(string(model.PermissionJobsRead)),
			handlers.Job.GetJob,
		)
		adminAPI.PATCH("/jobs/:job_id/open",
			middleware.RequirePermission(string(model.PermissionJobsWrite)),
			handlers.Job.SetJobOpen,
		)

		// Assessment sets
		adminAPI.GET("/jobs/:job_id/sets",
			middleware.RequirePermission(string(model.PermissionSetsRead)),
			handlers.Set.ListSetsByJob,
		)
		adminAPI.POST("/sets",
			middleware.RequirePermission(string(model.PermissionSetsWrite)),
			handlers.Set.CreateSet,
		)
		adminAPI.GET("/sets/:set_id",
			middleware.RequirePermission(string(model.PermissionSetsRead)),
			handlers.Set.GetSet,
		)
		adminAPI.PATCH("/sets/:set_id/active",
			middleware.RequirePermission(string(model.PermissionSetsWrite)),
			handlers.Set.SetActive,
		)

		// Candidates
		adminAPI.GET("/jobs/:job_id/candidates",
			middleware.RequirePermission(string(model.PermissionCandidatesRead)),
			handlers.CandidateAdmin.ListCandidates,
		)
		adminAPI.GET("/candidates/:assessment_id",
			middleware.RequirePermission(string(model.PermissionCandidatesRead)),
			handlers.CandidateAdmin.GetCandidate,
		)
		adminAPI.GET("/candidates/:assessment_id/communications",
			middleware.RequirePermission(string(model.PermissionCandidatesRead)),
			handlers.CandidateAdmin.GetCommunicationLog,
		)
		adminAPI.GET("/candidates/:assessment_id/violations",
			middleware.RequirePermission(string(model.PermissionCandidatesRead)),
			handlers.CandidateAdmin.GetViolations,
		)

		// Evaluation & decision
		adminAPI.POST("/candidates/:assessment_id/evaluate",
			middleware.RequirePermission(string(model.PermissionCandidatesEvaluate)),
			handlers.Evaluation.TriggerEvaluation,
		)
		adminAPI.GET("/candidates/:assessment_id/evaluation",
			middleware.RequirePermission(string(model.PermissionCandidatesRead)),
			handlers.Evaluation.GetEvaluation,
		)
		adminAPI.POST("/candidates/:assessment_id/decision",
			middleware.RequirePermission(string(model.PermissionCandidatesDecide)),
			handlers.Evaluation.RecordDecision,
		)

		// Admin user management
		adminAPI.GET("/users",
			middleware.RequirePermission(string(model.PermissionAdminsRead)),
			handlers.Auth.ListAdmins,
		)
		adminAPI.POST("/users",
			middleware.RequirePermission(string(model.PermissionAdminsWrite)),
			handlers.Auth.CreateAdmin,
		)

		// Role management
		adminAPI.GET("/roles",
			middleware.RequirePermission(string(model.PermissionRolesRead)),
			handlers.Role.ListRoles,
		)
		adminAPI.POST("/roles",
			middleware.RequirePermission(string(model.PermissionRolesWrite)),
			handlers.Role.CreateRole,
		)
		adminAPI.PUT("/roles/:id",
			middleware.RequirePermission(string(model.PermissionRolesWrite)),
			handlers.Role.UpdateRole,
		)
		adminAPI.DELETE("/roles/:id",
			middleware.RequirePermission(string(model.PermissionRolesWrite)),
			handlers.Role.DeleteRole,
		)

		// System monitoring
		adminAPI.GET("/system/metrics",
			handlers.System.SystemMetricsSSE, // Open to all admins
		)
	}

	return router
}
