package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"alumnet/internal/common"
	"alumnet/internal/domain/model"
)

type MediaRepository interface {
	Create(ctx context.Context, media *model.Media) error
	FindByID(ctx context.Context, id int64) (*model.Media, error)
}

type pgMediaRepository struct {
	db *sql.DB
}

func NewPgMediaRepository(db *sql.DB) MediaRepository {
	return &pgMediaRepository{db: db}
}

func (r *pgMediaRepository) Create(ctx context.Context, m *model.Media) error {
	query := `INSERT INTO media (object_key, resource_url)
	          VALUES ($1, $2)
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, m.ObjectKey, m.ResourceURL).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgMediaRepository.Create: %w", err)
	}
	return nil
}

func (r *pgMediaRepository) FindByID(ctx context.Context, id int64) (*model.Media, error) {
	query := `SELECT id, object_key, resource_url, created_at FROM media WHERE id = $1`
	m := &model.Media{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.ObjectKey, &m.ResourceURL, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgMediaRepository.FindByID: %w", err)
	}
	return m, nil
}
