package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mailmind/aigate"
	aierrors "github.com/mailmind/aigate/pkg/errors"
)

// Identity copies the user id injected by the upstream auth proxy into the
// request context. Requests without one are rejected by requireUser in the
// handlers rather than here, so unauthenticated health probes still pass.
func Identity(header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v := c.GetHeader(header); v != "" {
			c.Set(ContextUserIDKey, v)
		}
		c.Next()
	}
}

// RequireAI rejects requests from users with no usable AI credential before
// the handler runs. The 400 envelope carries a machine-readable code and a
// remediation hint so the frontend can route the user to settings instead
// of showing a raw error.
func RequireAI(resolver *aigate.Resolver, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}

		configured, err := resolver.IsConfigured(c.Request.Context(), userID)
		if err != nil {
			logger.Error("ai availability check failed", "user_id", userID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Error checking AI configuration",
				"error":   err.Error(),
			})
			return
		}
		if !configured {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "AI provider not configured",
				"code":    aierrors.CodeNotConfigured,
				"action":  aierrors.DefaultAction,
			})
			return
		}

		c.Next()
	}
}
