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

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id int64) (*model.Post, error)
	Delete(ctx context.Context, id int64) error
	ListFeed(ctx context.Context, typeFilter *model.PostType, limit, offset int) ([]model.Post, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error)
}

type pgPostRepository struct {
	db *sql.DB
}

func NewPgPostRepository(db *sql.DB) PostRepository {
	return &pgPostRepository{db: db}
}

func (r *pgPostRepository) Create(ctx context.Context, p *model.Post) error {
	query := `INSERT INTO posts (user_id, body, media_id, type)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, p.UserID, p.Body, p.MediaID, p.Type).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // Foreign key violation
			return fmt.Errorf("referenced media not found: %w", common.ErrNotFound)
		}
		return fmt.Errorf("pgPostRepository.Create: %w", err)
	}
	return nil
}

func (r *pgPostRepository) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	query := `SELECT id, user_id, body, media_id, type, created_at FROM posts WHERE id = $1`
	p := &model.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Body, &p.MediaID, &p.Type, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPostRepository.FindByID: %w", err)
	}
	return p, nil
}

func (r *pgPostRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("pgPostRepository.Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgPostRepository.Delete: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

const feedSelect = `
	SELECT p.id, p.user_id, p.body, p.media_id, p.type, p.created_at,
	       u.name, pm.resource_url, mm.resource_url
	FROM posts p
	JOIN users u ON p.user_id = u.id
	LEFT JOIN media pm ON u.pic = pm.id
	LEFT JOIN media mm ON p.media_id = mm.id`

func (r *pgPostRepository) ListFeed(ctx context.Context, typeFilter *model.PostType, limit, offset int) ([]model.Post, error) {
	var rows *sql.Rows
	var err error

	if typeFilter != nil {
		query := feedSelect + ` WHERE p.type = $1 ORDER BY p.created_at DESC LIMIT $2 OFFSET $3`
		rows, err = r.db.QueryContext(ctx, query, *typeFilter, limit, offset)
	} else {
		query := feedSelect + ` ORDER BY p.created_at DESC LIMIT $1 OFFSET $2`
		rows, err = r.db.QueryContext(ctx, query, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("pgPostRepository.ListFeed: %w", err)
	}
	defer rows.Close()

	return scanFeedRows(rows)
}

func (r *pgPostRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error) {
	query := feedSelect + ` WHERE p.user_id = $1 ORDER BY p.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pgPostRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	return scanFeedRows(rows)
}

func scanFeedRows(rows *sql.Rows) ([]model.Post, error) {
	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Body, &p.MediaID, &p.Type, &p.CreatedAt,
			&p.AuthorName, &p.AuthorPic, &p.MediaURL,
		); err != nil {
			return nil, fmt.Errorf("scanFeedRows: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
