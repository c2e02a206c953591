package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/talentgate/assess-backend/internal/model"
	"github.com/talentgate/assess-backend/internal/repository"
	"github.com/talentgate/assess-backend/internal/response"
	"github.com/talentgate/assess-backend/internal/service"
)

const (
	// ContextKeyCandidate is the Gin context key for the authenticated
	// candidate assessment.
	ContextKeyCandidate = "candidate"

	// HeaderSessionToken carries the candidate's opaque session token.
	HeaderSessionToken = "X-Session-Token"

	// sessionTokenRefreshTTL is applied when a token is re-cached after
	// a database fallback lookup.
	sessionTokenRefreshTTL = 24 * time.Hour
)

// RequireSessionToken authenticates a candidate by opaque session token.
// The token resolves through Redis first; a cache miss falls back to the
// database and re-primes the cache, so an evicted key never locks a
// candidate out of a live session.
func RequireSessionToken(authService *service.AuthService, candidateRepo *repository.CandidateRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderSessionToken)
		if token == "" {
			token = c.Query("session_token")
		}
		if token == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		ctx := c.Request.Context()

		assessmentID, err := authService.ResolveSessionToken(ctx, token)
		if err == nil {
			candidate, gerr := candidateRepo.GetByID(ctx, assessmentID)
			if gerr != nil {
				response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionTokenInvalid)
				return
			}
			c.Set(ContextKeyCandidate, candidate)
			c.Next()
			return
		}
		if !errors.Is(err, service.ErrSessionTokenUnknown) {
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}

		// Cache miss: the token may still be valid in the database.
		candidate, err := candidateRepo.GetBySessionToken(ctx, token)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionTokenInvalid)
				return
			}
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}

		if cerr := authService.CacheSessionToken(ctx, token, candidate.ID, sessionTokenRefreshTTL); cerr != nil {
			// Non-fatal: the next request will fall back again.
			_ = c.Error(cerr)
		}

		c.Set(ContextKeyCandidate, candidate)
		c.Next()
	}
}

// GetCandidate retrieves the authenticated candidate from the Gin context.
func GetCandidate(c *gin.Context) *model.CandidateAssessment {
	val, exists := c.Get(ContextKeyCandidate)
	if !exists {
		return nil
	}
	candidate, ok := val.(*model.CandidateAssessment)
	if !ok {
		return nil
	}
	return candidate
}
