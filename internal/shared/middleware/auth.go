package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/response"
	"portfolio-backend/pkg/jwt"
)

const (
	// SessionCookieName holds the signed admin session token.
	SessionCookieName = "admin_session"

	// Context keys set by the session middlewares
	ContextAdminID  = "admin_id"
	ContextUsername = "admin_username"
	ContextRole     = "role"
)

// sessionToken reads the admin session from the cookie, falling back to
// an "Authorization: Bearer <token>" header.
func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func authenticate(c *gin.Context, jwtManager *jwt.Manager) bool {
	token := sessionToken(c)
	if token == "" {
		return false
	}

	claims, err := jwtManager.ValidateSessionToken(token)
	if err != nil {
		return false
	}

	c.Set(ContextAdminID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextRole, claims.Role)
	return true
}

// AuthMiddleware guards the admin JSON API. Missing or invalid sessions get 401.
func AuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, jwtManager) {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// PageAuthMiddleware guards admin HTML pages: anonymous visitors are
// redirected to the login form with a next parameter.
func PageAuthMiddleware(jwtManager *jwt.Manager, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, jwtManager) {
			c.Redirect(http.StatusFound, loginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}
