package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"portfolio-backend/internal/domains/admin"
	"portfolio-backend/internal/infrastructure/email"
	"portfolio-backend/pkg/jwt"
)

// ========================================
// FAKES
// ========================================

type fakeRepo struct {
	mu     sync.Mutex
	users  map[int64]*admin.AdminUser
	otps   map[int64]*admin.OneTimeCode
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[int64]*admin.AdminUser{}, otps: map[int64]*admin.OneTimeCode{}}
}

func (r *fakeRepo) Create(_ context.Context, u *admin.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return admin.ErrUsernameTaken
		}
	}
	r.nextID++
	u.ID = r.nextID
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*admin.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, admin.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) FindByUsername(_ context.Context, username string) (*admin.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, admin.ErrUserNotFound
}

func (r *fakeRepo) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.LastLoginAt = &at
		return nil
	}
	return admin.ErrUserNotFound
}

func (r *fakeRepo) UpsertOTP(_ context.Context, userID int64, codeHash string, issuedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.otps[userID] = &admin.OneTimeCode{UserID: userID, Code: codeHash, IssuedAt: issuedAt}
	return nil
}

func (r *fakeRepo) GetOTP(_ context.Context, userID int64) (*admin.OneTimeCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.otps[userID]
	if !ok {
		return nil, admin.ErrOTPNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeRepo) ConsumeOTP(_ context.Context, userID int64, codeHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.otps[userID]
	if !ok || o.Code == "" || o.Code != codeHash {
		return false, nil
	}
	o.Code = ""
	return true, nil
}

func (r *fakeRepo) ClearExpiredOTPs(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, o := range r.otps {
		if o.Code != "" && o.IssuedAt.Before(before) {
			o.Code = ""
			n++
		}
	}
	return n, nil
}

type fakeChallenges struct {
	mu    sync.Mutex
	items map[string]admin.PendingChallenge
}

func newFakeChallenges() *fakeChallenges {
	return &fakeChallenges{items: map[string]admin.PendingChallenge{}}
}

func (f *fakeChallenges) Save(_ context.Context, id string, p admin.PendingChallenge, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[id] = p
	return nil
}

func (f *fakeChallenges) Get(_ context.Context, id string) (*admin.PendingChallenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeChallenges) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

type sentEmail struct {
	kind email.TemplateKind
	to   []string
	data any
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, kind email.TemplateKind, to []string, data any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEmail{kind: kind, to: to, data: data})
	return n.err
}

// ========================================
// FIXTURE
// ========================================

type fixture struct {
	repo       *fakeRepo
	challenges *fakeChallenges
	notifier   *fakeNotifier
	jwt        *jwt.Manager
	now        time.Time
	codes      []string
	svc        admin.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:       newFakeRepo(),
		challenges: newFakeChallenges(),
		notifier:   &fakeNotifier{},
		jwt:        jwt.NewManager("test-secret", time.Hour),
		now:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	seq := 0
	f.svc = NewAuthService(f.repo, f.challenges, f.notifier, f.jwt, 15*time.Minute,
		WithClock(func() time.Time { return f.now }),
		WithCodeGenerator(func() (string, error) {
			seq++
			code := fmt.Sprintf("%06d", 100000+seq)
			f.codes = append(f.codes, code)
			return code, nil
		}),
	)
	return f
}

func (f *fixture) addAdmin(t *testing.T, username, mail, password string, mutate ...func(*admin.AdminUser)) *admin.AdminUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &admin.AdminUser{Username: username, Email: mail, PasswordHash: string(hash), IsStaff: true, IsActive: true}
	for _, m := range mutate {
		m(u)
	}
	require.NoError(t, f.repo.Create(context.Background(), u))
	return u
}

func login(username, password string) admin.LoginRequest {
	return admin.LoginRequest{Username: username, Password: password}
}

// ========================================
// BEGIN LOGIN
// ========================================

func TestBeginLogin_IssuesCodeAndChallenge(t *testing.T) {
	f := newFixture(t)
	u := f.addAdmin(t, "owner", "owner@example.com", "correct horse")

	ch, err := f.svc.BeginLogin(context.Background(), login("owner", "correct horse"))
	require.NoError(t, err)

	assert.NotEmpty(t, ch.ID)
	assert.Equal(t, u.ID, ch.UserID)
	assert.Equal(t, f.now.Add(admin.OTPValidity), ch.ExpiresAt)

	require.Len(t, f.notifier.sent, 1)
	sent := f.notifier.sent[0]
	assert.Equal(t, email.KindAdminOTP, sent.kind)
	assert.Equal(t, []string{"owner@example.com"}, sent.to)
	data := sent.data.(email.AdminOTPData)
	assert.Equal(t, f.codes[0], data.Code)
	assert.Equal(t, 5, data.ValidMinutes)

	stored, err := f.repo.GetOTP(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, f.codes[0], stored.Code, "code must be stored hashed")
	assert.Equal(t, f.now, stored.IssuedAt)

	pending, _ := f.challenges.Get(context.Background(), ch.ID)
	require.NotNil(t, pending)
	assert.Equal(t, u.ID, pending.UserID)
}

func TestBeginLogin_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*admin.AdminUser)
		mail     string
		password string
		username string
		wantErr  error
	}{
		{name: "wrong password", mail: "o@example.com", password: "nope", username: "owner", wantErr: admin.ErrInvalidCredentials},
		{name: "unknown user", mail: "o@example.com", password: "pw-123456", username: "ghost", wantErr: admin.ErrInvalidCredentials},
		{name: "not staff", mail: "o@example.com", password: "pw-123456", username: "owner", mutate: func(u *admin.AdminUser) { u.IsStaff = false }, wantErr: admin.ErrInvalidCredentials},
		{name: "inactive", mail: "o@example.com", password: "pw-123456", username: "owner", mutate: func(u *admin.AdminUser) { u.IsActive = false }, wantErr: admin.ErrInvalidCredentials},
		{name: "no email", mail: "", password: "pw-123456", username: "owner", wantErr: admin.ErrMissingContactEmail},
		{name: "empty username", mail: "o@example.com", password: "pw-123456", username: "", wantErr: admin.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			var mutators []func(*admin.AdminUser)
			if tt.mutate != nil {
				mutators = append(mutators, tt.mutate)
			}
			f.addAdmin(t, "owner", tt.mail, "pw-123456", mutators...)

			ch, err := f.svc.BeginLogin(context.Background(), login(tt.username, tt.password))

			assert.Nil(t, ch)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.notifier.sent)
			assert.Empty(t, f.challenges.items)
		})
	}
}

func TestBeginLogin_DeliveryFailureOpensNoChallenge(t *testing.T) {
	f := newFixture(t)
	f.addAdmin(t, "owner", "owner@example.com", "pw-123456")
	f.notifier.err = email.ErrSend{Provider: "smtp", Err: errors.New("connection refused")}

	ch, err := f.svc.BeginLogin(context.Background(), login("owner", "pw-123456"))

	assert.Nil(t, ch)
	assert.ErrorIs(t, err, admin.ErrNotificationDeliveryFailed)
	assert.Len(t, f.notifier.sent, 1, "single attempt, no retry")
	assert.Empty(t, f.challenges.items)
}

// ========================================
// VERIFY CHALLENGE
// ========================================

func TestVerifyChallenge_Success(t *testing.T) {
	f := newFixture(t)
	u := f.addAdmin(t, "owner", "owner@example.com", "pw-123456")

	ch, err := f.svc.BeginLogin(context.Background(), login("owner", "pw-123456"))
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Minute)
	sess, err := f.svc.VerifyChallenge(context.Background(), ch.ID, f.codes[0])
	require.NoError(t, err)

	claims, err := f.jwt.ValidateSessionToken(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, jwt.RoleAdmin, claims.Role)

	stored, _ := f.repo.GetOTP(context.Background(), u.ID)
	assert.Equal(t, "", stored.Code, "code is blanked after use")

	pending, _ := f.challenges.Get(context.Background(), ch.ID)
	assert.Nil(t, pending, "pending challenge is removed")

	_, err = f.svc.VerifyChallenge(context.Background(), ch.ID, f.codes[0])
	assert.ErrorIs(t, err, admin.ErrSessionExpired, "challenge cannot be replayed")
}

func TestVerifyChallenge_WrongCode(t *testing.T) {
	f := newFixture(t)
	f.addAdmin(t, "owner", "owner@example.com", "pw-123456")
	ch, err := f.svc.BeginLogin(context.Background(), login("owner", "pw-123456"))
	require.NoError(t, err)

	_, err = f.svc.VerifyChallenge(context.Background(), ch.ID, "000000")
	assert.ErrorIs(t, err, admin.ErrInvalidOrExpiredCode)

	// a wrong guess leaves the challenge usable
	_, err = f.svc.VerifyChallenge(context.Background(), ch.ID, f.codes[0])
	assert.NoError(t, err)
}

func TestVerifyChallenge_ValidityWindow(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr error
	}{
		{"just inside", 4*time.Minute + 59*time.Second, nil},
		{"exactly five minutes", 5 * time.Minute, admin.ErrInvalidOrExpiredCode},
		{"long expired", time.Hour, admin.ErrInvalidOrExpiredCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.addAdmin(t, "owner", "owner@example.com", "pw-123456")
			ch, err := f.svc.BeginLogin(context.Background(), login("owner", "pw-123456"))
			require.NoError(t, err)

			f.now = f.now.Add(tt.elapsed)
			_, err = f.svc.VerifyChallenge(context.Background(), ch.ID, f.codes[0])
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestVerifyChallenge_OnlyLatestCodeIsValid(t *testing.T) {
	f := newFixture(t)
	f.addAdmin(t, "owner", "owner@example.com", "pw-123456")

	first, err := f.svc.BeginLogin(context.Background(), login("owner", "pw-123456"))
	require.NoError(t, err)
	second, err := f.svc.BeginLogin(context.Background(), login("owner", "pw-123456"))
	require.NoError(t, err)

	_, err = f.svc.VerifyChallenge(context.Background(), first.ID, f.codes[0])
	assert.ErrorIs(t, err, admin.ErrInvalidOrExpiredCode)
	_, err = f.svc.VerifyChallenge(context.Background(), second.ID, f.codes[0])
	assert.ErrorIs(t, err, admin.ErrInvalidOrExpiredCode)

	_, err = f.svc.VerifyChallenge(context.Background(), second.ID, f.codes[1])
	assert.NoError(t, err)
}

func TestVerifyChallenge_MissingSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.VerifyChallenge(context.Background(), "", "123456")
	assert.ErrorIs(t, err, admin.ErrSessionExpired)

	_, err = f.svc.VerifyChallenge(context.Background(), "does-not-exist", "123456")
	assert.ErrorIs(t, err, admin.ErrSessionExpired)
}

func TestVerifyChallenge_UserRemoved(t *testing.T) {
	f := newFixture(t)
	u := f.addAdmin(t, "owner", "owner@example.com", "pw-123456")
	ch, err := f.svc.BeginLogin(context.Background(), login("owner", "pw-123456"))
	require.NoError(t, err)

	delete(f.repo.users, u.ID)

	_, err = f.svc.VerifyChallenge(context.Background(), ch.ID, f.codes[0])
	assert.ErrorIs(t, err, admin.ErrUserNotFound)
}

func TestVerifyChallenge_ConcurrentUseSucceedsOnce(t *testing.T) {
	f := newFixture(t)
	f.addAdmin(t, "owner", "owner@example.com", "pw-123456")
	ch, err := f.svc.BeginLogin(context.Background(), login("owner", "pw-123456"))
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.VerifyChallenge(context.Background(), ch.ID, f.codes[0]); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

// ========================================
// CREATE ADMIN
// ========================================

func TestCreateAdmin(t *testing.T) {
	f := newFixture(t)

	u, err := f.svc.CreateAdmin(context.Background(), admin.CreateAdminRequest{
		Username: " owner ",
		Email:    "Owner@Example.com",
		Password: "long-enough-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "owner", u.Username)
	assert.Equal(t, "owner@example.com", u.Email)
	assert.True(t, u.CanLogIn())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("long-enough-password")))

	_, err = f.svc.CreateAdmin(context.Background(), admin.CreateAdminRequest{
		Username: "owner", Email: "other@example.com", Password: "long-enough-password",
	})
	assert.ErrorIs(t, err, admin.ErrUsernameTaken)

	_, err = f.svc.CreateAdmin(context.Background(), admin.CreateAdminRequest{Username: "x", Email: "bad", Password: "short"})
	assert.Error(t, err)
}
