package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jadeswanstrom/ioweyou/internal/auditcontext"
	obscontext "github.com/jadeswanstrom/ioweyou/internal/observability/context"
)

const userIDContextKey = "auth_user_id"

// AuthRequired verifies the bearer token and stores the principal's id on
// both the gin context and the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		userID, err := s.authSvc.VerifyToken(c.Request.Context(), strings.TrimSpace(raw))
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(userIDContextKey, userID)
		c.Request = c.Request.WithContext(
			obscontext.WithUserID(c.Request.Context(), userID),
		)
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	value, _ := c.Get(userIDContextKey)
	userID, _ := value.(string)
	return userID
}

// RateLimit rejects callers exceeding the per-IP budget of the given limiter.
func (s *Server) RateLimit(limiter *rateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}

// AuditContext propagates request metadata so audit entries can record who
// called from where.
func (s *Server) AuditContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx = auditcontext.WithRequestID(ctx, c.Writer.Header().Get("X-Request-Id"))
		ctx = auditcontext.WithIPAddress(ctx, c.ClientIP())
		ctx = auditcontext.WithUserAgent(ctx, c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
