package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const SessionContextKey = "session_id"

// SessionCookie is the cookie carrying the shopper's session ID.
const SessionCookie = "cart_session"

// SessionHeader lets non-browser clients pin a session explicitly.
const SessionHeader = "X-Session-ID"

const cookieMaxAge = 30 * 24 * 60 * 60 // 30 days

// SessionMiddleware scopes each request to a shopper session. Shoppers
// are anonymous: the session ID comes from the X-Session-ID header or
// the cart_session cookie, and a fresh UUID is issued when neither is
// present. The ID is the scope for the persisted cart and discount code.
func SessionMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(c.GetHeader(SessionHeader))

		if sessionID == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				sessionID = strings.TrimSpace(cookie)
			}
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
			c.SetCookie(SessionCookie, sessionID, cookieMaxAge, "/", "", false, true)
			logger.Debug("Issued new cart session", zap.String("session_id", sessionID))
		}

		c.Set(SessionContextKey, sessionID)
		c.Next()
	}
}

// GetSessionFromContext retrieves the session ID from the Gin context
func GetSessionFromContext(c *gin.Context) (string, bool) {
	value, exists := c.Get(SessionContextKey)
	if !exists {
		return "", false
	}

	sessionID, ok := value.(string)
	return sessionID, ok && sessionID != ""
}
