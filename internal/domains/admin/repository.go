package admin

import (
	"context"
	"time"
)

// Repository is the data access contract for admin users and their codes.
type Repository interface {
	// ========================================
	// ADMIN USERS
	// ========================================

	// Create inserts a user. Returns ErrUsernameTaken on duplicate username.
	Create(ctx context.Context, u *AdminUser) error

	// FindByID returns ErrUserNotFound when missing.
	FindByID(ctx context.Context, id int64) (*AdminUser, error)

	// FindByUsername returns ErrUserNotFound when missing.
	FindByUsername(ctx context.Context, username string) (*AdminUser, error)

	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error

	// ========================================
	// ONE-TIME CODES
	// ========================================

	// UpsertOTP replaces the user's code, invalidating any earlier one.
	UpsertOTP(ctx context.Context, userID int64, codeHash string, issuedAt time.Time) error

	// GetOTP returns ErrOTPNotFound when the user never received a code.
	GetOTP(ctx context.Context, userID int64) (*OneTimeCode, error)

	// ConsumeOTP blanks the code only if it still equals codeHash.
	// Returns false when another request consumed or replaced it first.
	ConsumeOTP(ctx context.Context, userID int64, codeHash string) (bool, error)

	// ClearExpiredOTPs blanks codes issued before the cutoff.
	ClearExpiredOTPs(ctx context.Context, issuedBefore time.Time) (int64, error)
}

// ChallengeStore keeps pending challenges between the two login steps.
type ChallengeStore interface {
	Save(ctx context.Context, id string, p PendingChallenge, ttl time.Duration) error

	// Get returns nil, nil when the challenge is unknown or expired.
	Get(ctx context.Context, id string) (*PendingChallenge, error)

	Delete(ctx context.Context, id string) error
}
