package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/pkg/jwt"
)

func newAuthRouter(m *jwt.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/admin/ping", AuthMiddleware(m), AdminMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin_id": c.GetInt64(ContextAdminID)})
	})
	r.GET("/admin/", PageAuthMiddleware(m, "/admin/login/"), func(c *gin.Context) {
		c.String(http.StatusOK, "dashboard")
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	m := jwt.NewManager("test-secret", time.Hour)
	token, _, err := m.GenerateSessionToken(7, "owner", RoleAdmin)
	require.NoError(t, err)
	r := newAuthRouter(m)

	t.Run("no session", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"admin_id":7}`, w.Body.String())
	})

	t.Run("session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other, _, err := jwt.NewManager("other", time.Hour).GenerateSessionToken(7, "owner", RoleAdmin)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer "+other)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non admin role", func(t *testing.T) {
		viewer, _, err := m.GenerateSessionToken(8, "viewer", "viewer")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer "+viewer)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestPageAuthMiddleware_RedirectsToLogin(t *testing.T) {
	r := newAuthRouter(jwt.NewManager("test-secret", time.Hour))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login/?next=%2Fadmin%2F", w.Header().Get("Location"))
}
