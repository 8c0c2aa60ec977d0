package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shopquery-be/internal/dto"
	"shopquery-be/internal/pkg/token"
	"shopquery-be/internal/repository/specification"
	"shopquery-be/internal/repository/unitofwork"
)

func newAuthFixture(t *testing.T) (IAuthService, unitofwork.RepositoryFactory, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	tokens := token.NewService("test-secret", 30*time.Minute)
	svc := NewAuthService(factory, tokens, nopMailer{}, &capturePublisher{}, nopLogger{})
	return svc, factory, db
}

func registerVerified(t *testing.T, svc IAuthService, factory unitofwork.RepositoryFactory) (email, password string) {
	t.Helper()
	ctx := context.Background()
	email = "jane@example.com"
	password = "super-secret-pw"

	res, err := svc.Register(ctx, &dto.RegisterRequest{
		Username:  "jane",
		Email:     email,
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  password,
	})
	require.NoError(t, err)

	// Pull the OTP straight from the store; the mailer is a stub.
	uow := factory.NewUnitOfWork(ctx)
	otp, err := uow.UserRepository().FindEmailVerificationToken(ctx,
		specification.ByUserID{UserID: res.Id},
	)
	require.NoError(t, err)
	require.NotNil(t, otp)

	require.NoError(t, svc.VerifyEmail(ctx, &dto.VerifyEmailRequest{
		Email: email,
		Token: otp.Token,
	}))
	return email, password
}

func TestRegisterLoginFlow(t *testing.T) {
	svc, factory, _ := newAuthFixture(t)
	ctx := context.Background()
	email, password := registerVerified(t, svc, factory)

	pair, err := svc.Login(ctx, &dto.LoginRequest{Email: email, Password: password}, "10.0.0.1", "go-test")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "jane", pair.User.Username)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: email, Password: "wrong"}, "10.0.0.1", "go-test")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: password}, "10.0.0.1", "go-test")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Username:  "john",
		Email:     "john@example.com",
		FirstName: "John",
		LastName:  "Doe",
		Password:  "super-secret-pw",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "john@example.com", Password: "super-secret-pw"}, "", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshRotationConsumesOldValue(t *testing.T) {
	svc, factory, _ := newAuthFixture(t)
	ctx := context.Background()
	email, password := registerVerified(t, svc, factory)

	pair, err := svc.Login(ctx, &dto.LoginRequest{Email: email, Password: password}, "10.0.0.1", "go-test")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken, "10.0.0.2", "go-test")
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The consumed value is dead; only the rotated one works.
	_, err = svc.Refresh(ctx, pair.RefreshToken, "10.0.0.2", "go-test")
	assert.ErrorIs(t, err, ErrExpiredOrRevoked)

	again, err := svc.Refresh(ctx, rotated.RefreshToken, "10.0.0.2", "go-test")
	require.NoError(t, err)
	assert.NotEqual(t, rotated.RefreshToken, again.RefreshToken)
}

func TestRefreshRejectsUnknownValue(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "never-issued", "", "")
	assert.ErrorIs(t, err, ErrExpiredOrRevoked)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, factory, _ := newAuthFixture(t)
	ctx := context.Background()
	email, password := registerVerified(t, svc, factory)

	pair, err := svc.Login(ctx, &dto.LoginRequest{Email: email, Password: password}, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	_, err = svc.Refresh(ctx, pair.RefreshToken, "", "")
	assert.ErrorIs(t, err, ErrExpiredOrRevoked)

	// Revoking an already-revoked session is not an error.
	assert.NoError(t, svc.Logout(ctx, pair.RefreshToken))
}

func TestLogoutIgnoresExpiredSession(t *testing.T) {
	svc, factory, db := newAuthFixture(t)
	ctx := context.Background()
	email, password := registerVerified(t, svc, factory)

	pair, err := svc.Login(ctx, &dto.LoginRequest{Email: email, Password: password}, "", "")
	require.NoError(t, err)

	hash := token.HashRefreshValue(pair.RefreshToken)
	require.NoError(t, db.Table("user_sessions").
		Where("token_hash = ?", hash).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	// An expired session is no longer active; logout has nothing to revoke
	// and must not tombstone the row.
	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	uow := factory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().FindOne(ctx,
		specification.ByTokenHash{TokenHash: hash},
	)
	require.NoError(t, err)
	assert.NotNil(t, session)
}

func TestSlideExtendsSessions(t *testing.T) {
	svc, factory, _ := newAuthFixture(t)
	ctx := context.Background()
	email, password := registerVerified(t, svc, factory)

	pair, err := svc.Login(ctx, &dto.LoginRequest{Email: email, Password: password}, "", "")
	require.NoError(t, err)

	uow := factory.NewUnitOfWork(ctx)
	before, err := uow.SessionRepository().FindOne(ctx,
		specification.ByTokenHash{TokenHash: token.HashRefreshValue(pair.RefreshToken)},
	)
	require.NoError(t, err)
	require.NotNil(t, before)

	time.Sleep(5 * time.Millisecond)
	svc.Slide(ctx, pair.User.Id)

	after, err := uow.SessionRepository().FindOne(ctx,
		specification.ByTokenHash{TokenHash: token.HashRefreshValue(pair.RefreshToken)},
	)
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.True(t, after.ExpiresAt.After(before.ExpiresAt))
}

func TestListSessions(t *testing.T) {
	svc, factory, _ := newAuthFixture(t)
	ctx := context.Background()
	email, password := registerVerified(t, svc, factory)

	first, err := svc.Login(ctx, &dto.LoginRequest{Email: email, Password: password}, "10.0.0.1", "laptop")
	require.NoError(t, err)
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: email, Password: password}, "10.0.0.2", "phone")
	require.NoError(t, err)

	sessions, err := svc.ListSessions(ctx, first.User.Id)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	require.NoError(t, svc.Logout(ctx, first.RefreshToken))

	sessions, err = svc.ListSessions(ctx, first.User.Id)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
	assert.Equal(t, "phone", sessions[0].UserAgent)
}
