package admin

import "context"

// Service is the OTP-gated admin authentication flow.
type Service interface {
	// BeginLogin checks credentials, issues and emails a fresh code and
	// opens a pending challenge.
	BeginLogin(ctx context.Context, req LoginRequest) (*Challenge, error)

	// VerifyChallenge checks the code for a pending challenge and opens a session.
	VerifyChallenge(ctx context.Context, challengeID, code string) (*Session, error)

	// CreateAdmin provisions a staff account (CLI only).
	CreateAdmin(ctx context.Context, req CreateAdminRequest) (*AdminUser, error)
}
