package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"portfolio-backend/internal/domains/admin"
	"portfolio-backend/internal/infrastructure/database"
)

type postgresRepository struct {
	db database.Querier
}

// NewPostgresRepository returns the admin.Repository backed by PostgreSQL.
func NewPostgresRepository(db database.Querier) admin.Repository {
	return &postgresRepository{db: db}
}

const adminUserColumns = `id, username, email, password_hash, is_staff, is_active, last_login_at, created_at, updated_at`

func scanAdminUser(row pgx.Row) (*admin.AdminUser, error) {
	var u admin.AdminUser
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.IsStaff,
		&u.IsActive,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ========================================
// ADMIN USERS
// ========================================

func (r *postgresRepository) Create(ctx context.Context, u *admin.AdminUser) error {
	query := `
		INSERT INTO admin_users (username, email, password_hash, is_staff, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.IsStaff,
		u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "admin_users_username_key") {
			return admin.ErrUsernameTaken
		}
		return fmt.Errorf("insert admin user: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*admin.AdminUser, error) {
	query := `SELECT ` + adminUserColumns + ` FROM admin_users WHERE id = $1`

	u, err := scanAdminUser(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, admin.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by id: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*admin.AdminUser, error) {
	query := `SELECT ` + adminUserColumns + ` FROM admin_users WHERE username = $1`

	u, err := scanAdminUser(r.db.QueryRow(ctx, query, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, admin.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by username: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE admin_users SET last_login_at = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return admin.ErrUserNotFound
	}
	return nil
}

// ========================================
// ONE-TIME CODES
// ========================================

func (r *postgresRepository) UpsertOTP(ctx context.Context, userID int64, codeHash string, issuedAt time.Time) error {
	query := `
		INSERT INTO admin_otps (user_id, code, issued_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET code = EXCLUDED.code, issued_at = EXCLUDED.issued_at
	`

	if _, err := r.db.Exec(ctx, query, userID, codeHash, issuedAt); err != nil {
		return fmt.Errorf("upsert otp: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetOTP(ctx context.Context, userID int64) (*admin.OneTimeCode, error) {
	query := `SELECT user_id, code, issued_at FROM admin_otps WHERE user_id = $1`

	var o admin.OneTimeCode
	err := r.db.QueryRow(ctx, query, userID).Scan(&o.UserID, &o.Code, &o.IssuedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, admin.ErrOTPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get otp: %w", err)
	}
	return &o, nil
}

func (r *postgresRepository) ConsumeOTP(ctx context.Context, userID int64, codeHash string) (bool, error) {
	query := `UPDATE admin_otps SET code = '' WHERE user_id = $1 AND code = $2 AND code <> ''`

	tag, err := r.db.Exec(ctx, query, userID, codeHash)
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) ClearExpiredOTPs(ctx context.Context, issuedBefore time.Time) (int64, error) {
	query := `UPDATE admin_otps SET code = '' WHERE code <> '' AND issued_at < $1`

	tag, err := r.db.Exec(ctx, query, issuedBefore)
	if err != nil {
		return 0, fmt.Errorf("clear expired otps: %w", err)
	}
	return tag.RowsAffected(), nil
}
