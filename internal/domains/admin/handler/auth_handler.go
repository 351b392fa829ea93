package handler

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/domains/admin"
	"portfolio-backend/internal/shared/middleware"
	"portfolio-backend/internal/shared/utils"
	"portfolio-backend/pkg/jwt"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	// ChallengeCookieName carries the pending challenge id between the two steps.
	ChallengeCookieName = "admin_challenge"

	LoginPath     = "/admin/login/"
	DashboardPath = "/admin/"
)

// Templates parses the admin HTML views for gin's renderer.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// AuthHandler serves the admin login pages.
type AuthHandler struct {
	service       admin.Service
	jwtManager    *jwt.Manager
	challengeTTL  time.Duration
	secureCookies bool
}

func NewAuthHandler(service admin.Service, jwtManager *jwt.Manager, challengeTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		service:       service,
		jwtManager:    jwtManager,
		challengeTTL:  challengeTTL,
		secureCookies: secureCookies,
	}
}

// ========================================
// PAGES
// ========================================

// LoginPage handles GET /admin/login/
func (h *AuthHandler) LoginPage(c *gin.Context) {
	next := c.Query("next")

	// already signed in
	if token, err := c.Cookie(middleware.SessionCookieName); err == nil && token != "" {
		if _, err := h.jwtManager.ValidateSessionToken(token); err == nil {
			c.Redirect(http.StatusFound, redirectTarget(next))
			return
		}
	}

	h.renderLogin(c, http.StatusOK, "", "", next)
}

// Login handles POST /admin/login/. The presence of the otp field selects step two.
func (h *AuthHandler) Login(c *gin.Context) {
	next := c.Query("next")
	if next == "" {
		next = c.PostForm("next")
	}

	if _, hasOTP := c.GetPostForm("otp"); hasOTP {
		h.verifyCode(c, next)
		return
	}
	h.checkCredentials(c, next)
}

// Logout handles POST /admin/logout/
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, middleware.SessionCookieName, "", -1)
	h.setCookie(c, ChallengeCookieName, "", -1)
	c.Redirect(http.StatusFound, LoginPath)
}

// Dashboard handles GET /admin/ (behind PageAuthMiddleware).
func (h *AuthHandler) Dashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Title":    "Dashboard",
		"Username": c.GetString(middleware.ContextUsername),
	})
}

// ========================================
// STEPS
// ========================================

func (h *AuthHandler) checkCredentials(c *gin.Context, next string) {
	var req admin.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, http.StatusBadRequest, "Please enter your username and password.", "", next)
		return
	}

	challenge, err := h.service.BeginLogin(c.Request.Context(), req)
	if err != nil {
		h.handleLoginError(c, err, req.Username, next)
		return
	}

	h.setCookie(c, ChallengeCookieName, challenge.ID, int(h.challengeTTL.Seconds()))
	h.renderChallenge(c, http.StatusOK, "", challenge.MaskedEmail(), next)
}

func (h *AuthHandler) verifyCode(c *gin.Context, next string) {
	challengeID, _ := c.Cookie(ChallengeCookieName)
	code := c.PostForm("otp")

	session, err := h.service.VerifyChallenge(c.Request.Context(), challengeID, code)
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrInvalidOrExpiredCode):
			h.renderChallenge(c, http.StatusOK, "Invalid or expired code.", "your email address", next)
		case errors.Is(err, admin.ErrSessionExpired):
			h.setCookie(c, ChallengeCookieName, "", -1)
			h.renderLogin(c, http.StatusOK, "Your login session expired. Please sign in again.", "", next)
		case errors.Is(err, admin.ErrUserNotFound):
			h.setCookie(c, ChallengeCookieName, "", -1)
			h.renderLogin(c, http.StatusOK, "User not found. Please sign in again.", "", next)
		default:
			log.Error().Err(err).Msg("admin code verification failed")
			h.renderLogin(c, http.StatusOK, "Something went wrong. Please sign in again.", "", next)
		}
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	h.setCookie(c, middleware.SessionCookieName, session.Token, maxAge)
	h.setCookie(c, ChallengeCookieName, "", -1)
	c.Redirect(http.StatusFound, redirectTarget(next))
}

func (h *AuthHandler) handleLoginError(c *gin.Context, err error, username, next string) {
	var msg string
	switch {
	case errors.Is(err, admin.ErrInvalidCredentials):
		msg = "Invalid username or password."
	case errors.Is(err, admin.ErrMissingContactEmail):
		msg = "No email address is set for this account. Contact the site owner."
	case errors.Is(err, admin.ErrNotificationDeliveryFailed):
		msg = "We could not send your login code. Please try again."
	default:
		log.Error().Err(err).Msg("admin login failed")
		msg = "Something went wrong. Please try again."
	}
	h.renderLogin(c, http.StatusOK, msg, username, next)
}

// ========================================
// HELPERS
// ========================================

func (h *AuthHandler) renderLogin(c *gin.Context, status int, errMsg, username, next string) {
	c.HTML(status, "login.html", gin.H{
		"Title":    "Sign in",
		"Error":    errMsg,
		"Username": username,
		"Next":     safeNext(next),
	})
}

func (h *AuthHandler) renderChallenge(c *gin.Context, status int, errMsg, maskedEmail, next string) {
	c.HTML(status, "challenge.html", gin.H{
		"Title":        "Verify",
		"Error":        errMsg,
		"MaskedEmail":  maskedEmail,
		"ValidMinutes": int(admin.OTPValidity / time.Minute),
		"Next":         safeNext(next),
	})
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.secureCookies, true)
}

func safeNext(next string) string {
	if utils.IsSafeRedirect(next) {
		return next
	}
	return ""
}

func redirectTarget(next string) string {
	if utils.IsSafeRedirect(next) {
		return next
	}
	return DashboardPath
}
