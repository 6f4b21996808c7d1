package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stockrakh/stockrakh/internal/services"
)

// userIDKey holds the authenticated username in the gin context.
const userIDKey = "userID"

// SessionVerifier resolves a session token to an identity. It must fail
// closed: any lookup problem reports ok=false.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (services.Identity, bool)
}

// RequireAuth admits only requests carrying a valid session cookie. On
// failure it aborts with 401 {code: "unauthorized"}; on success it stores the
// username under "userID" and calls the next handler.
func RequireAuth(v SessionVerifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			unauthorized(c)
			return
		}
		id, ok := v.Verify(c.Request.Context(), token)
		if !ok {
			unauthorized(c)
			return
		}
		c.Set(userIDKey, id.Username)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": asString(c.Value(requestIDKey)),
		"code":       "unauthorized",
		"message":    "authentication required",
	})
}

// UserID returns the username set by RequireAuth, or "".
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
