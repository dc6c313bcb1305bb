package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/repos"
	"github.com/culturallm/culturallm-backend/internal/requestdata"
	"github.com/culturallm/culturallm-backend/internal/types"
)

func newAuthService(t *testing.T, gdb *gorm.DB) AuthService {
	t.Helper()
	log := logger.NewNop()
	return NewAuthService(gdb, log,
		repos.NewUserRepo(gdb, log),
		repos.NewUserTokenRepo(gdb, log),
		"test-secret", time.Hour, 24*time.Hour)
}

func registerTestUser(t *testing.T, as AuthService, username string) *types.User {
	t.Helper()
	user := &types.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "correct-horse",
		Nation:   "IT",
	}
	require.NoError(t, as.RegisterUser(context.Background(), user))
	return user
}

func TestRegisterUser_HashesPassword(t *testing.T) {
	gdb := newTestDB(t)
	as := newAuthService(t, gdb)
	user := registerTestUser(t, as, "alice")

	assert.NotEqual(t, "correct-horse", user.Password)

	var stored types.User
	require.NoError(t, gdb.First(&stored, "username = ?", "alice").Error)
	assert.NotEqual(t, "correct-horse", stored.Password)
}

func TestRegisterUser_DuplicateUsername(t *testing.T) {
	gdb := newTestDB(t)
	as := newAuthService(t, gdb)
	registerTestUser(t, as, "alice")

	dup := &types.User{Username: "alice", Email: "other@example.com", Password: "correct-horse"}
	err := as.RegisterUser(context.Background(), dup)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoginUser_WrongPassword(t *testing.T) {
	gdb := newTestDB(t)
	as := newAuthService(t, gdb)
	registerTestUser(t, as, "alice")

	_, _, err := as.LoginUser(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginUser_UnknownUser(t *testing.T) {
	gdb := newTestDB(t)
	as := newAuthService(t, gdb)

	_, _, err := as.LoginUser(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginAndTokenRoundTrip(t *testing.T) {
	gdb := newTestDB(t)
	as := newAuthService(t, gdb)
	user := registerTestUser(t, as, "alice")

	pair, loggedIn, err := as.LoginUser(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotNil(t, loggedIn.LastLogin)

	ctx, err := as.SetContextFromToken(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	rd := requestdata.GetRequestData(ctx)
	require.NotNil(t, rd)
	assert.Equal(t, user.ID, rd.UserID)
	assert.Equal(t, "alice", rd.Username)
}

func TestSetContextFromToken_GarbageToken(t *testing.T) {
	gdb := newTestDB(t)
	as := newAuthService(t, gdb)

	_, err := as.SetContextFromToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshUser_RotatesToken(t *testing.T) {
	gdb := newTestDB(t)
	as := newAuthService(t, gdb)
	registerTestUser(t, as, "alice")

	pair, _, err := as.LoginUser(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)

	fresh, err := as.RefreshUser(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, fresh.RefreshToken)

	// The old refresh token is dead after rotation.
	_, err = as.RefreshUser(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogoutUser_InvalidatesRefreshToken(t *testing.T) {
	gdb := newTestDB(t)
	as := newAuthService(t, gdb)
	registerTestUser(t, as, "alice")

	pair, _, err := as.LoginUser(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)
	ctx, err := as.SetContextFromToken(context.Background(), pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, as.LogoutUser(ctx))

	_, err = as.RefreshUser(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
