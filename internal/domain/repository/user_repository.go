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

// ProfileUpdate carries the fields a user may change about themselves.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name      *string
	Bio       *string
	Contact   *string
	PicID     *int64
	Onboarded *bool
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) (*model.User, error)
	GetProfile(ctx context.Context, id int64) (*model.Profile, error)
	ListRandomProfiles(ctx context.Context, viewerID *int64, limit int) ([]model.Profile, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, email, password_hash, name, bio, contact, pic, role, onboarded, created_at, updated_at`

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Bio, &user.Contact,
		&user.PicID, &user.Role, &user.Onboarded, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (email, password_hash, name, bio, contact, role)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, onboarded, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Name, user.Bio, user.Contact, user.Role,
	).Scan(&user.ID, &user.Onboarded, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("user with given email or name already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pgUserRepository.FindByEmail: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pgUserRepository.FindByID: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) (*model.User, error) {
	query := `UPDATE users SET
	            name = COALESCE($1, name),
	            bio = COALESCE($2, bio),
	            contact = COALESCE($3, contact),
	            pic = COALESCE($4, pic),
	            onboarded = COALESCE($5, onboarded),
	            updated_at = CURRENT_TIMESTAMP
	          WHERE id = $6
	          RETURNING ` + userColumns
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, upd.Name, upd.Bio, upd.Contact, upd.PicID, upd.Onboarded, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Bio, &user.Contact,
		&user.PicID, &user.Role, &user.Onboarded, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("name already taken: %w", common.ErrConflict)
		}
		return nil, fmt.Errorf("pgUserRepository.UpdateProfile: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) GetProfile(ctx context.Context, id int64) (*model.Profile, error) {
	query := `SELECT u.id, u.name, u.bio, u.contact, m.resource_url
	          FROM users u
	          LEFT JOIN media m ON u.pic = m.id
	          WHERE u.id = $1`
	profile := &model.Profile{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&profile.ID, &profile.Name, &profile.Bio, &profile.Contact, &profile.PicURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.GetProfile: %w", err)
	}
	return profile, nil
}

// ListRandomProfiles returns up to limit random public profiles. When viewerID
// is set, the viewer and everyone they already follow are excluded.
func (r *pgUserRepository) ListRandomProfiles(ctx context.Context, viewerID *int64, limit int) ([]model.Profile, error) {
	var rows *sql.Rows
	var err error

	if viewerID != nil {
		query := `SELECT u.id, u.name, u.bio, m.resource_url
		          FROM users u
		          LEFT JOIN media m ON u.pic = m.id
		          WHERE u.id <> $1
		            AND u.id NOT IN (SELECT following_id FROM follows WHERE follower_id = $1)
		          ORDER BY RANDOM()
		          LIMIT $2`
		rows, err = r.db.QueryContext(ctx, query, *viewerID, limit)
	} else {
		query := `SELECT u.id, u.name, u.bio, m.resource_url
		          FROM users u
		          LEFT JOIN media m ON u.pic = m.id
		          ORDER BY RANDOM()
		          LIMIT $1`
		rows, err = r.db.QueryContext(ctx, query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.ListRandomProfiles: %w", err)
	}
	defer rows.Close()

	profiles := []model.Profile{}
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Bio, &p.PicURL); err != nil {
			return nil, fmt.Errorf("pgUserRepository.ListRandomProfiles: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
