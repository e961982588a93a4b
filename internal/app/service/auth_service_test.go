package service

import (
	"context"
	"testing"

	"alumnet/internal/common"
	"alumnet/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*AuthService, *SessionService, *repository.MemUserRepository) {
	t.Helper()
	userRepo := repository.NewMemUserRepository()
	sessionRepo := repository.NewMemSessionRepository()
	sessionService := NewSessionService(sessionRepo, userRepo, testTTL, testRotateWindow)
	return NewAuthService(userRepo, sessionService), sessionService, userRepo
}

func TestSignup_Validation(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  SignupRequest
	}{
		{"malformed email", SignupRequest{Email: "not-an-email", Password: "longenough", Name: "a"}},
		{"password too short", SignupRequest{Email: "a@example.com", Password: "short", Name: "a"}},
		{"password too long", SignupRequest{Email: "a@example.com", Password: string(make([]byte, 65)), Name: "a"}},
		{"missing name", SignupRequest{Email: "a@example.com", Password: "longenough", Name: ""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tc.req)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "a@example.com", Password: "longenough", Name: "first"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupRequest{Email: "a@example.com", Password: "longenough", Name: "second"})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestSignup_DoesNotStorePlaintext(t *testing.T) {
	svc, _, userRepo := newAuthFixture(t)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, SignupRequest{Email: "a@example.com", Password: "longenough", Name: "a"})
	require.NoError(t, err)

	user, err := userRepo.FindByID(ctx, resp.UserID)
	require.NoError(t, err)
	assert.NotEqual(t, "longenough", user.PasswordHash)
	assert.Contains(t, user.PasswordHash, "$argon2id$")
}

func TestSignupSignin_RoundTrip(t *testing.T) {
	svc, sessionService, _ := newAuthFixture(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, SignupRequest{Email: "a@example.com", Password: "longenough", Name: "a"})
	require.NoError(t, err)

	signin, err := svc.Signin(ctx, SigninRequest{Email: "a@example.com", Password: "longenough"}, ClientMeta{})
	require.NoError(t, err)
	assert.Equal(t, created.UserID, signin.UserID)
	assert.NotEmpty(t, signin.Token)
	assert.False(t, signin.Onboarded)

	// The issued token authorizes subsequent requests.
	auth, err := sessionService.Validate(ctx, signin.Token, ClientMeta{})
	require.NoError(t, err)
	assert.Equal(t, created.UserID, auth.User.ID)
}

func TestSignin_UniformErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "a@example.com", Password: "longenough", Name: "a"})
	require.NoError(t, err)

	_, wrongPassword := svc.Signin(ctx, SigninRequest{Email: "a@example.com", Password: "wrongpassword"}, ClientMeta{})
	_, unknownEmail := svc.Signin(ctx, SigninRequest{Email: "nobody@example.com", Password: "longenough"}, ClientMeta{})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.ErrorIs(t, wrongPassword, common.ErrUnauthorized)
	assert.ErrorIs(t, unknownEmail, common.ErrUnauthorized)
	// Identical message, so callers cannot enumerate accounts.
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestSignout_InvalidatesSession(t *testing.T) {
	svc, sessionService, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "a@example.com", Password: "longenough", Name: "a"})
	require.NoError(t, err)

	signin, err := svc.Signin(ctx, SigninRequest{Email: "a@example.com", Password: "longenough"}, ClientMeta{})
	require.NoError(t, err)

	require.NoError(t, svc.Signout(ctx, signin.Token))

	_, err = sessionService.Validate(ctx, signin.Token, ClientMeta{})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestSignin_MultipleConcurrentSessions(t *testing.T) {
	svc, sessionService, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "a@example.com", Password: "longenough", Name: "a"})
	require.NoError(t, err)

	first, err := svc.Signin(ctx, SigninRequest{Email: "a@example.com", Password: "longenough"}, ClientMeta{})
	require.NoError(t, err)
	second, err := svc.Signin(ctx, SigninRequest{Email: "a@example.com", Password: "longenough"}, ClientMeta{})
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	// Both sessions are independently live.
	_, err = sessionService.Validate(ctx, first.Token, ClientMeta{})
	assert.NoError(t, err)
	_, err = sessionService.Validate(ctx, second.Token, ClientMeta{})
	assert.NoError(t, err)
}
