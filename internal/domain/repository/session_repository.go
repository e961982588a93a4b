package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"alumnet/internal/common"
	"alumnet/internal/domain/model"
)

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	FindByToken(ctx context.Context, token string) (*model.Session, error)
	Invalidate(ctx context.Context, token string) error
	Rotate(ctx context.Context, oldToken string, replacement *model.Session) error
	MarkExpiredInvalidated(ctx context.Context, now time.Time) (int64, error)
	DeleteInvalidatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type pgSessionRepository struct {
	db *sql.DB
}

func NewPgSessionRepository(db *sql.DB) SessionRepository {
	return &pgSessionRepository{db: db}
}

const insertSessionQuery = `INSERT INTO sessions (token, user_id, ip_addr, user_agent, created_at, expires_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

func (r *pgSessionRepository) Create(ctx context.Context, s *model.Session) error {
	_, err := r.db.ExecContext(ctx, insertSessionQuery,
		s.Token, s.UserID, s.IPAddr, s.UserAgent, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("pgSessionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	query := `SELECT token, user_id, ip_addr, user_agent, created_at, expires_at, invalidated
	          FROM sessions WHERE token = $1`
	s := &model.Session{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&s.Token, &s.UserID, &s.IPAddr, &s.UserAgent, &s.CreatedAt, &s.ExpiresAt, &s.Invalidated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSessionRepository.FindByToken: %w", err)
	}
	return s, nil
}

func (r *pgSessionRepository) Invalidate(ctx context.Context, token string) error {
	query := `UPDATE sessions SET invalidated = TRUE WHERE token = $1`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("pgSessionRepository.Invalidate: %w", err)
	}
	return nil
}

// Rotate inserts the replacement session and retires the old token in a single
// transaction, so no instant exists at which both tokens authorize.
func (r *pgSessionRepository) Rotate(ctx context.Context, oldToken string, replacement *model.Session) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgSessionRepository.Rotate: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertSessionQuery,
		replacement.Token, replacement.UserID, replacement.IPAddr, replacement.UserAgent,
		replacement.CreatedAt, replacement.ExpiresAt); err != nil {
		return fmt.Errorf("pgSessionRepository.Rotate: insert: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET invalidated = TRUE WHERE token = $1`, oldToken); err != nil {
		return fmt.Errorf("pgSessionRepository.Rotate: retire: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgSessionRepository.Rotate: commit: %w", err)
	}
	return nil
}

// MarkExpiredInvalidated flags every live session whose validity window has
// passed. Returns the number of rows flagged.
func (r *pgSessionRepository) MarkExpiredInvalidated(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE sessions SET invalidated = TRUE WHERE invalidated = FALSE AND expires_at <= $1`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("pgSessionRepository.MarkExpiredInvalidated: %w", err)
	}
	return res.RowsAffected()
}

// DeleteInvalidatedBefore removes invalidated rows that expired before cutoff.
func (r *pgSessionRepository) DeleteInvalidatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE invalidated = TRUE AND expires_at < $1`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pgSessionRepository.DeleteInvalidatedBefore: %w", err)
	}
	return res.RowsAffected()
}
