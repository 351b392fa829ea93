package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domains/admin"
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, admin.Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresRepository(mock)
}

func TestCreate_DuplicateUsername(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`INSERT INTO admin_users`).
		WithArgs("owner", "o@example.com", "hash", true, true).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "admin_users_username_key"})

	err := repo.Create(context.Background(), &admin.AdminUser{
		Username: "owner", Email: "o@example.com", PasswordHash: "hash", IsStaff: true, IsActive: true,
	})

	assert.ErrorIs(t, err, admin.ErrUsernameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUsername(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now().UTC()

	cols := []string{"id", "username", "email", "password_hash", "is_staff", "is_active", "last_login_at", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT .+ FROM admin_users WHERE username = \$1`).
		WithArgs("owner").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(7), "owner", "o@example.com", "hash", true, true, &now, now, now))

	u, err := repo.FindByUsername(context.Background(), "owner")
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.True(t, u.CanLogIn())

	mock.ExpectQuery(`SELECT .+ FROM admin_users WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, admin.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOTP_NotIssued(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`SELECT user_id, code, issued_at FROM admin_otps`).
		WithArgs(int64(1)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetOTP(context.Background(), 1)
	assert.ErrorIs(t, err, admin.ErrOTPNotFound)
}

func TestUpsertOTP(t *testing.T) {
	mock, repo := newMock(t)
	issued := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO admin_otps .+ ON CONFLICT \(user_id\) DO UPDATE`).
		WithArgs(int64(3), "digest", issued).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.UpsertOTP(context.Background(), 3, "digest", issued))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeOTP(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectExec(`UPDATE admin_otps SET code = ''`).
		WithArgs(int64(3), "digest").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE admin_otps SET code = ''`).
		WithArgs(int64(3), "digest").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.ConsumeOTP(context.Background(), 3, "digest")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ConsumeOTP(context.Background(), 3, "digest")
	require.NoError(t, err)
	assert.False(t, ok, "second consumer loses")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearExpiredOTPs(t *testing.T) {
	mock, repo := newMock(t)
	cutoff := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE admin_otps SET code = '' WHERE code <> '' AND issued_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("UPDATE", 4))

	n, err := repo.ClearExpiredOTPs(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
