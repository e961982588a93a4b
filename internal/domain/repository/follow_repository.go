package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"alumnet/internal/common"
	"alumnet/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type FollowRepository interface {
	Create(ctx context.Context, follow *model.Follow) error
	Delete(ctx context.Context, followerID, followingID int64) error
	ListFollowing(ctx context.Context, userID int64) ([]model.Profile, error)
	ListFollowers(ctx context.Context, userID int64) ([]model.Profile, error)
}

type pgFollowRepository struct {
	db *sql.DB
}

func NewPgFollowRepository(db *sql.DB) FollowRepository {
	return &pgFollowRepository{db: db}
}

// Create inserts the edge. The unique constraint on (follower_id, following_id)
// is the single source of truth for duplicates; a conflicting insert surfaces
// as ErrConflict rather than being pre-checked with a read.
func (r *pgFollowRepository) Create(ctx context.Context, f *model.Follow) error {
	query := `INSERT INTO follows (follower_id, following_id)
	          VALUES ($1, $2)
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, f.FollowerID, f.FollowingID).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique constraint violation
				return fmt.Errorf("already following this user: %w", common.ErrConflict)
			}
			if pgErr.Code == "23503" { // Foreign key violation
				return fmt.Errorf("user not found: %w", common.ErrNotFound)
			}
		}
		return fmt.Errorf("pgFollowRepository.Create: %w", err)
	}
	return nil
}

// Delete removes the edge if present; deleting an absent edge is not an error.
func (r *pgFollowRepository) Delete(ctx context.Context, followerID, followingID int64) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`
	if _, err := r.db.ExecContext(ctx, query, followerID, followingID); err != nil {
		return fmt.Errorf("pgFollowRepository.Delete: %w", err)
	}
	return nil
}

func (r *pgFollowRepository) ListFollowing(ctx context.Context, userID int64) ([]model.Profile, error) {
	query := `SELECT u.id, u.name, u.bio, m.resource_url
	          FROM follows f
	          JOIN users u ON f.following_id = u.id
	          LEFT JOIN media m ON u.pic = m.id
	          WHERE f.follower_id = $1
	          ORDER BY f.created_at DESC`
	return r.listProfiles(ctx, query, userID)
}

func (r *pgFollowRepository) ListFollowers(ctx context.Context, userID int64) ([]model.Profile, error) {
	query := `SELECT u.id, u.name, u.bio, m.resource_url
	          FROM follows f
	          JOIN users u ON f.follower_id = u.id
	          LEFT JOIN media m ON u.pic = m.id
	          WHERE f.following_id = $1
	          ORDER BY f.created_at DESC`
	return r.listProfiles(ctx, query, userID)
}

func (r *pgFollowRepository) listProfiles(ctx context.Context, query string, userID int64) ([]model.Profile, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgFollowRepository.listProfiles: %w", err)
	}
	defer rows.Close()

	profiles := []model.Profile{}
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Bio, &p.PicURL); err != nil {
			return nil, fmt.Errorf("pgFollowRepository.listProfiles: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
