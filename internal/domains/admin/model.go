package admin

import (
	"strings"
	"time"
)

// OTPValidity is how long an issued code stays valid.
const OTPValidity = 5 * time.Minute

// AdminUser is a staff account allowed into the admin panel.
type AdminUser struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	IsStaff      bool       `json:"is_staff"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CanLogIn reports whether the account may use the admin panel.
func (u *AdminUser) CanLogIn() bool {
	return u.IsActive && u.IsStaff
}

// OneTimeCode is the single outstanding code of an admin.
// Code holds the SHA-256 hex digest; "" means consumed.
type OneTimeCode struct {
	UserID   int64
	Code     string
	IssuedAt time.Time
}

// IsValidAt reports whether the code is unconsumed and inside its window at now.
func (o *OneTimeCode) IsValidAt(now time.Time) bool {
	return o.Code != "" && now.Sub(o.IssuedAt) < OTPValidity
}

// PendingChallenge links a login challenge id to the admin who passed step one.
type PendingChallenge struct {
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Challenge is returned after a successful first step.
type Challenge struct {
	ID        string
	UserID    int64
	Email     string
	ExpiresAt time.Time
}

// MaskedEmail hides most of the local part: "owner@example.com" → "o****@example.com".
func (c *Challenge) MaskedEmail() string {
	return MaskEmail(c.Email)
}

// Session is an authenticated admin session.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *AdminUser
}

func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return email
	}
	local := []rune(email[:at])
	return string(local[0]) + strings.Repeat("*", len(local)-1) + email[at:]
}
