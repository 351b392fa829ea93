package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domains/admin"
	"portfolio-backend/internal/shared/middleware"
	"portfolio-backend/pkg/jwt"
)

type stubService struct {
	beginErr  error
	verifyErr error
	gotCode   string
	gotID     string
	jwt       *jwt.Manager
}

func (s *stubService) BeginLogin(_ context.Context, req admin.LoginRequest) (*admin.Challenge, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return &admin.Challenge{ID: "challenge-1", UserID: 1, Email: "owner@example.com", ExpiresAt: time.Now().Add(5 * time.Minute)}, nil
}

func (s *stubService) VerifyChallenge(_ context.Context, challengeID, code string) (*admin.Session, error) {
	s.gotID, s.gotCode = challengeID, code
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	token, exp, err := s.jwt.GenerateSessionToken(1, "owner", jwt.RoleAdmin)
	if err != nil {
		return nil, err
	}
	return &admin.Session{Token: token, ExpiresAt: exp, User: &admin.AdminUser{ID: 1, Username: "owner"}}, nil
}

func (s *stubService) CreateAdmin(context.Context, admin.CreateAdminRequest) (*admin.AdminUser, error) {
	return nil, fmt.Errorf("not used")
}

func setup(t *testing.T, svc *stubService) (*gin.Engine, *jwt.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	m := jwt.NewManager("test-secret", time.Hour)
	svc.jwt = m

	tmpl, err := Templates()
	require.NoError(t, err)

	h := NewAuthHandler(svc, m, 15*time.Minute, false)
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.GET(LoginPath, h.LoginPage)
	r.POST(LoginPath, h.Login)
	r.POST("/admin/logout/", h.Logout)
	r.GET(DashboardPath, middleware.PageAuthMiddleware(m, LoginPath), h.Dashboard)
	return r, m
}

func postForm(r *gin.Engine, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginPage(t *testing.T) {
	r, _ := setup(t, &stubService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, LoginPath, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="password"`)
}

func TestLogin_CredentialsStep(t *testing.T) {
	r, _ := setup(t, &stubService{})

	w := postForm(r, LoginPath, url.Values{"username": {"owner"}, "password": {"secret"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="otp"`)
	assert.Contains(t, w.Body.String(), "o****@example.com")

	ch := findCookie(w, ChallengeCookieName)
	require.NotNil(t, ch)
	assert.Equal(t, "challenge-1", ch.Value)
	assert.Nil(t, findCookie(w, middleware.SessionCookieName), "no session before the code is verified")
}

func TestLogin_CredentialErrorsRerenderForm(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{admin.ErrInvalidCredentials, "Invalid username or password."},
		{admin.ErrMissingContactEmail, "No email address is set"},
		{fmt.Errorf("%w: smtp down", admin.ErrNotificationDeliveryFailed), "could not send your login code"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			r, _ := setup(t, &stubService{beginErr: tt.err})

			w := postForm(r, LoginPath, url.Values{"username": {"owner"}, "password": {"secret"}})

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
			assert.Contains(t, w.Body.String(), `name="password"`)
			assert.Nil(t, findCookie(w, ChallengeCookieName))
		})
	}
}

func TestLogin_CodeStep(t *testing.T) {
	svc := &stubService{}
	r, m := setup(t, svc)

	w := postForm(r, LoginPath+"?next="+url.QueryEscape("/admin/"), url.Values{"otp": {"123456"}},
		&http.Cookie{Name: ChallengeCookieName, Value: "challenge-1"})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/", w.Header().Get("Location"))
	assert.Equal(t, "challenge-1", svc.gotID)
	assert.Equal(t, "123456", svc.gotCode)

	session := findCookie(w, middleware.SessionCookieName)
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	_, err := m.ValidateSessionToken(session.Value)
	assert.NoError(t, err)
}

func TestLogin_CodeStepIgnoresOffsiteNext(t *testing.T) {
	r, _ := setup(t, &stubService{})

	w := postForm(r, LoginPath+"?next="+url.QueryEscape("https://evil.example"), url.Values{"otp": {"123456"}},
		&http.Cookie{Name: ChallengeCookieName, Value: "challenge-1"})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, DashboardPath, w.Header().Get("Location"))
}

func TestLogin_CodeStepErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantField string
		wantMsg   string
	}{
		{"bad code", admin.ErrInvalidOrExpiredCode, `name="otp"`, "Invalid or expired code."},
		{"session expired", admin.ErrSessionExpired, `name="password"`, "session expired"},
		{"user gone", admin.ErrUserNotFound, `name="password"`, "User not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := setup(t, &stubService{verifyErr: tt.err})

			w := postForm(r, LoginPath, url.Values{"otp": {"000000"}},
				&http.Cookie{Name: ChallengeCookieName, Value: "challenge-1"})

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantField)
			assert.Contains(t, w.Body.String(), tt.wantMsg)
			assert.Nil(t, findCookie(w, middleware.SessionCookieName))
		})
	}
}

func TestDashboardRequiresSession(t *testing.T) {
	r, m := setup(t, &stubService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, DashboardPath, nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), LoginPath))

	token, _, err := m.GenerateSessionToken(1, "owner", jwt.RoleAdmin)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, DashboardPath, nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome, owner")
}

func TestLogoutClearsSession(t *testing.T) {
	r, _ := setup(t, &stubService{})

	w := postForm(r, "/admin/logout/", url.Values{})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))
	c := findCookie(w, middleware.SessionCookieName)
	require.NotNil(t, c)
	assert.Equal(t, "", c.Value)
}
