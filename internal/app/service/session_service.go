package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alumnet/internal/common"
	"alumnet/internal/common/security"
	"alumnet/internal/domain/model"
	"alumnet/internal/domain/repository"
)

// Auth is the resolved identity of a validated request.
type Auth struct {
	User    *model.User
	Session *model.Session
	// Rotated signals that Session replaces the token the client presented and
	// the response cookie must be rewritten.
	Rotated bool
}

// ClientMeta is recorded on issued sessions for audit.
type ClientMeta struct {
	IPAddr    string
	UserAgent string
}

// SessionService owns the session lifecycle: issuance, validation, proactive
// rotation near expiry, and invalidation.
type SessionService struct {
	sessionRepo  repository.SessionRepository
	userRepo     repository.UserRepository
	ttl          time.Duration
	rotateWindow time.Duration
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	ttl time.Duration,
	rotateWindow time.Duration,
) *SessionService {
	return &SessionService{
		sessionRepo:  sessionRepo,
		userRepo:     userRepo,
		ttl:          ttl,
		rotateWindow: rotateWindow,
	}
}

// Issue creates a fresh session for the user.
func (s *SessionService) Issue(ctx context.Context, userID int64, meta ClientMeta) (*model.Session, error) {
	token, err := security.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now()
	session := &model.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if meta.IPAddr != "" {
		session.IPAddr = &meta.IPAddr
	}
	if meta.UserAgent != "" {
		session.UserAgent = &meta.UserAgent
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// Validate resolves a presented token to an identity or ErrUnauthorized.
// A session inside the final rotation window of its validity is replaced by a
// freshly issued token; the old token is retired atomically with the insert.
func (s *SessionService) Validate(ctx context.Context, token string, meta ClientMeta) (*Auth, error) {
	if token == "" {
		return nil, common.ErrUnauthorized
	}

	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	if session.Invalidated {
		// Idempotently re-assert invalidation.
		if err := s.sessionRepo.Invalidate(ctx, token); err != nil {
			return nil, fmt.Errorf("failed to invalidate session: %w", err)
		}
		return nil, common.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up session owner: %w", err)
	}

	now := time.Now()
	if !session.Live(now) {
		if err := s.sessionRepo.Invalidate(ctx, token); err != nil {
			return nil, fmt.Errorf("failed to invalidate session: %w", err)
		}
		return nil, common.ErrUnauthorized
	}

	if session.NearExpiry(now, s.rotateWindow) {
		replacement, err := s.rotate(ctx, session, meta, now)
		if err != nil {
			return nil, err
		}
		return &Auth{User: user, Session: replacement, Rotated: true}, nil
	}

	return &Auth{User: user, Session: session}, nil
}

func (s *SessionService) rotate(ctx context.Context, old *model.Session, meta ClientMeta, now time.Time) (*model.Session, error) {
	token, err := security.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate replacement token: %w", err)
	}

	replacement := &model.Session{
		Token:     token,
		UserID:    old.UserID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if meta.IPAddr != "" {
		replacement.IPAddr = &meta.IPAddr
	}
	if meta.UserAgent != "" {
		replacement.UserAgent = &meta.UserAgent
	}

	if err := s.sessionRepo.Rotate(ctx, old.Token, replacement); err != nil {
		return nil, fmt.Errorf("failed to rotate session: %w", err)
	}
	return replacement, nil
}

// Invalidate retires the session identified by token (sign-out).
func (s *SessionService) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return common.ErrBadRequest
	}
	if err := s.sessionRepo.Invalidate(ctx, token); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}
	return nil
}
