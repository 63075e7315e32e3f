package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/config"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/middleware"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		AppName:        "auth-service",
		JWTSecret:      []byte("0123456789abcdef0123456789abcdef"),
		JWTAlgorithm:   "HS256",
		JWTIssuer:      "auth-service",
		AccessTokenTTL: 15 * time.Minute,
		RefreshGrace:   24 * time.Hour,
	}
}

type authFixture struct {
	cfg      *config.Config
	users    *fakeUserRepo
	tokens   *fakeTokenRepo
	verifier *middleware.Verifier
	jwt      *jwtService
	svc      AuthService
}

func newAuthFixture(t *testing.T, users ...*models.User) *authFixture {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	cfg := testConfig()
	f := &authFixture{
		cfg:      cfg,
		users:    newFakeUserRepo(users...),
		tokens:   newFakeTokenRepo(),
		verifier: middleware.NewVerifier(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.JWTIssuer, logger),
		jwt:      NewJWTService(cfg).(*jwtService),
	}
	f.svc = NewAuthService(f.users, NewTokenService(f.tokens, logger), f.jwt, f.verifier, cfg.RefreshGrace, logger)
	return f
}

func TestLogin(t *testing.T) {
	user := newTestUser(t, "ada@example.com", "correct-horse", models.RoleUser, models.RoleAdmin)
	f := newAuthFixture(t, user)

	res, err := f.svc.Login(context.Background(), "Ada@Example.com ", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), res.ExpiresAt, 5*time.Second)

	identity, err := f.verifier.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), identity.UserID)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.Equal(t, []models.Role{models.RoleUser, models.RoleAdmin}, identity.Roles)
}

func TestLogin_Failures(t *testing.T) {
	user := newTestUser(t, "ada@example.com", "correct-horse")
	f := newAuthFixture(t, user)

	_, err := f.svc.Login(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	user := newTestUser(t, "ada@example.com", "pw", models.RoleUser)
	f := newAuthFixture(t, user)

	f.jwt.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := f.jwt.GenerateAccessToken(user)
	require.NoError(t, err)
	f.jwt.now = time.Now

	// Roles changed since the old token was issued; the new token reflects them.
	f.users.users[user.ID].Roles = []models.Role{models.RoleManager}

	res, err := f.svc.Refresh(context.Background(), expired)
	require.NoError(t, err)
	identity, err := f.verifier.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleManager}, identity.Roles)
}

func TestRefresh_Rejections(t *testing.T) {
	user := newTestUser(t, "ada@example.com", "pw")
	ghost := &models.User{ID: uuid.New(), Email: "ghost@example.com"}
	f := newAuthFixture(t, user)

	f.jwt.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	stale, _, err := f.jwt.GenerateAccessToken(user)
	require.NoError(t, err)
	f.jwt.now = time.Now

	orphan, _, err := f.jwt.GenerateAccessToken(ghost)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"beyond grace": stale,
		"deleted user": orphan,
		"garbage":      "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Refresh(context.Background(), token)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestLogout_RevokesResetTokens(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, "ada@example.com", "pw")
	f := newAuthFixture(t, user)
	logger, _ := logtest.NewNullLogger()
	_, err := NewTokenService(f.tokens, logger).GeneratePasswordResetToken(ctx, user.ID, "")
	require.NoError(t, err)

	revoked, err := f.svc.Logout(ctx, &models.Identity{UserID: user.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), revoked)
	assert.Empty(t, f.tokens.all())

	revoked, err = f.svc.Logout(ctx, &models.Identity{UserID: "external-subject"})
	assert.NoError(t, err)
	assert.Zero(t, revoked)
}
