package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"alumnet/internal/common"
	"alumnet/internal/common/security"
	"alumnet/internal/domain/model"
	"alumnet/internal/domain/repository"
)

const (
	passwordMinLen = 8
	passwordMaxLen = 64
)

// errInvalidCredentials is shared by the unknown-email and wrong-password
// paths so the two are indistinguishable to a caller probing for accounts.
var errInvalidCredentials = fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)

// dummyHash keeps sign-in timing uniform when the email is unknown.
const dummyHash = "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$L9tOIZ8dSdLgN1KXkEePRiM/0m6tlKkZZT3y7kcIXbM"

type AuthService struct {
	userRepo       repository.UserRepository
	sessionService *SessionService
}

func NewAuthService(userRepo repository.UserRepository, sessionService *SessionService) *AuthService {
	return &AuthService{userRepo: userRepo, sessionService: sessionService}
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type SignupResponse struct {
	UserID int64 `json:"userId"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SigninResponse struct {
	UserID    int64  `json:"userId"`
	Token     string `json:"token"`
	Onboarded bool   `json:"onboarded"`

	session *model.Session
}

// Session returns the session issued by a successful sign-in.
func (r *SigninResponse) Session() *model.Session {
	return r.session
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("invalid email address: %w", common.ErrValidation)
	}
	if len(req.Password) < passwordMinLen || len(req.Password) > passwordMaxLen {
		return nil, fmt.Errorf("password must be between %d and %d characters: %w",
			passwordMinLen, passwordMaxLen, common.ErrValidation)
	}
	if req.Name == "" {
		return nil, fmt.Errorf("name is required: %w", common.ErrValidation)
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hashed,
		Name:         req.Name,
		Role:         model.RoleRegular,
	}

	// The unique constraint on email is the duplicate check; the repo surfaces
	// a violation as ErrConflict.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &SignupResponse{UserID: user.ID}, nil
}

func (s *AuthService) Signin(ctx context.Context, req SigninRequest, meta ClientMeta) (*SigninResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Burn a hash comparison so the unknown-email path takes as long
			// as the wrong-password path.
			security.CheckPassword(req.Password, dummyHash)
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	ok, err := security.CheckPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, errInvalidCredentials
	}

	session, err := s.sessionService.Issue(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}

	return &SigninResponse{
		UserID:    user.ID,
		Token:     session.Token,
		Onboarded: user.Onboarded,
		session:   session,
	}, nil
}

// Signout invalidates the presented session token.
func (s *AuthService) Signout(ctx context.Context, token string) error {
	return s.sessionService.Invalidate(ctx, token)
}
