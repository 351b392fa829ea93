package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"portfolio-backend/internal/domains/admin"
	"portfolio-backend/internal/infrastructure/email"
	"portfolio-backend/pkg/jwt"
	"portfolio-backend/pkg/metrics"
	"portfolio-backend/pkg/otp"
)

const bcryptCost = 12

// authService implements admin.Service
type authService struct {
	repo         admin.Repository
	challenges   admin.ChallengeStore
	notifier     email.Notifier
	jwtManager   *jwt.Manager
	challengeTTL time.Duration

	now          func() time.Time
	generateCode func() (string, error)
}

// Option customises the service, mainly for tests.
type Option func(*authService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *authService) { s.now = now }
}

// WithCodeGenerator replaces the random code generator.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *authService) { s.generateCode = gen }
}

// NewAuthService wires the OTP login flow.
func NewAuthService(
	repo admin.Repository,
	challenges admin.ChallengeStore,
	notifier email.Notifier,
	jwtManager *jwt.Manager,
	challengeTTL time.Duration,
	opts ...Option,
) admin.Service {
	s := &authService{
		repo:         repo,
		challenges:   challenges,
		notifier:     notifier,
		jwtManager:   jwtManager,
		challengeTTL: challengeTTL,
		now:          time.Now,
		generateCode: func() (string, error) { return otp.Generate(otp.DefaultLength) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// burnPasswordCheck spends the same bcrypt work for unknown usernames.
func burnPasswordCheck(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// ========================================
// STEP 1: CREDENTIALS
// ========================================

func (s *authService) BeginLogin(ctx context.Context, req admin.LoginRequest) (*admin.Challenge, error) {
	if err := req.Validate(); err != nil {
		return nil, admin.ErrInvalidCredentials
	}

	// 1. AUTHENTICATE
	u, err := s.repo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, admin.ErrUserNotFound) {
		burnPasswordCheck(req.Password)
		return nil, admin.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, admin.ErrInvalidCredentials
	}
	if !u.CanLogIn() {
		return nil, admin.ErrInvalidCredentials
	}
	if strings.TrimSpace(u.Email) == "" {
		return nil, admin.ErrMissingContactEmail
	}

	// 2. ISSUE CODE (overwrites any earlier code)
	code, err := s.generateCode()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}
	issuedAt := s.now()
	if err := s.repo.UpsertOTP(ctx, u.ID, otp.Hash(code), issuedAt); err != nil {
		return nil, err
	}

	// 3. DELIVER (synchronously, single attempt)
	data := email.AdminOTPData{
		Username:     u.Username,
		Code:         code,
		ValidMinutes: int(admin.OTPValidity / time.Minute),
	}
	if err := s.notifier.Send(ctx, email.KindAdminOTP, []string{u.Email}, data); err != nil {
		metrics.AdminOTPTotal.WithLabelValues("delivery_failed").Inc()
		log.Error().Err(err).Int64("admin_id", u.ID).Msg("admin otp delivery failed")
		return nil, fmt.Errorf("%w: %w", admin.ErrNotificationDeliveryFailed, err)
	}

	// 4. OPEN PENDING CHALLENGE
	challengeID := uuid.NewString()
	pending := admin.PendingChallenge{UserID: u.ID, CreatedAt: issuedAt}
	if err := s.challenges.Save(ctx, challengeID, pending, s.challengeTTL); err != nil {
		return nil, fmt.Errorf("save challenge: %w", err)
	}

	metrics.AdminOTPTotal.WithLabelValues("issued").Inc()
	log.Info().Int64("admin_id", u.ID).Msg("admin otp issued")

	return &admin.Challenge{
		ID:        challengeID,
		UserID:    u.ID,
		Email:     u.Email,
		ExpiresAt: issuedAt.Add(admin.OTPValidity),
	}, nil
}

// ========================================
// STEP 2: ONE-TIME CODE
// ========================================

func (s *authService) VerifyChallenge(ctx context.Context, challengeID, code string) (*admin.Session, error) {
	if challengeID == "" {
		metrics.AdminOTPTotal.WithLabelValues("expired_session").Inc()
		return nil, admin.ErrSessionExpired
	}

	pending, err := s.challenges.Get(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("load challenge: %w", err)
	}
	if pending == nil {
		metrics.AdminOTPTotal.WithLabelValues("expired_session").Inc()
		return nil, admin.ErrSessionExpired
	}

	u, err := s.repo.FindByID(ctx, pending.UserID)
	if err != nil {
		return nil, err
	}
	if !u.CanLogIn() {
		return nil, admin.ErrUserNotFound
	}

	stored, err := s.repo.GetOTP(ctx, u.ID)
	if errors.Is(err, admin.ErrOTPNotFound) {
		metrics.AdminOTPTotal.WithLabelValues("rejected").Inc()
		return nil, admin.ErrInvalidOrExpiredCode
	}
	if err != nil {
		return nil, err
	}

	if !stored.IsValidAt(s.now()) || otp.Verify(stored.Code, code) != nil {
		metrics.AdminOTPTotal.WithLabelValues("rejected").Inc()
		return nil, admin.ErrInvalidOrExpiredCode
	}

	// Single use: only one concurrent verification can blank the code.
	consumed, err := s.repo.ConsumeOTP(ctx, u.ID, stored.Code)
	if err != nil {
		return nil, err
	}
	if !consumed {
		metrics.AdminOTPTotal.WithLabelValues("rejected").Inc()
		return nil, admin.ErrInvalidOrExpiredCode
	}

	if err := s.challenges.Delete(ctx, challengeID); err != nil {
		log.Warn().Err(err).Msg("failed to delete pending challenge")
	}

	loginAt := s.now()
	if err := s.repo.UpdateLastLogin(ctx, u.ID, loginAt); err != nil {
		log.Warn().Err(err).Int64("admin_id", u.ID).Msg("failed to update last login")
	}
	u.LastLoginAt = &loginAt

	token, expiresAt, err := s.jwtManager.GenerateSessionToken(u.ID, u.Username, jwt.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	metrics.AdminOTPTotal.WithLabelValues("verified").Inc()
	log.Info().Int64("admin_id", u.ID).Msg("admin signed in")

	return &admin.Session{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

// ========================================
// PROVISIONING
// ========================================

func (s *authService) CreateAdmin(ctx context.Context, req admin.CreateAdminRequest) (*admin.AdminUser, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &admin.AdminUser{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsStaff:      true,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
