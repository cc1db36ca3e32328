package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"doctors_portal/internal/logging"
)

const (
	contextEmailKey     = "auth_email"
	contextRequestIDKey = "request_id"
)

const (
	msgUnauthorized = "unauthorized access"
	msgForbidden    = "forbidden access"
)

// requestLogger tags every request with a uuid and logs method, path, status
// and duration once the handler chain completes.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set(contextRequestIDKey, requestID)

		c.Next()

		s.logger.WithFields(logging.Fields{
			"event":       "http_request",
			"request_id":  requestID,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("handled request")
	}
}

// authenticated rejects requests without a valid bearer token. A missing
// header is 401; a malformed header or an unverifiable token is 403. On
// success the token's email lands in the gin context for downstream checks.
func (s *Server) authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgUnauthorized})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": msgForbidden})
			return
		}

		claims, err := s.deps.Tokens.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": msgForbidden})
			return
		}

		c.Set(contextEmailKey, claims.Email)
		c.Next()
	}
}

// requireAdmin runs after authenticated and rejects non-admin callers. A
// user missing from the directory is treated as non-admin, not as an error.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(contextEmailKey)

		isAdmin, err := s.deps.Directory.IsAdmin(c.Request.Context(), email)
		if err != nil {
			s.logger.WithFields(logging.Fields{
				"event": "admin_check_failed",
				"email": email,
			}).WithError(err).Error("admin lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}

		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": msgForbidden})
			return
		}

		c.Next()
	}
}
