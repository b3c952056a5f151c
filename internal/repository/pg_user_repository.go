package repository

import (
	"context"
	"errors"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgUserRepository は UserRepository の PostgreSQL 実装
type PgUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgUserRepository は PgUserRepository を生成する
func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ UserRepository = (*PgUserRepository)(nil)

const userSelectCols = `id, email, first_name, last_name, profile_image_url, created_at, updated_at`

func scanUser(scan func(...any) error) (*model.User, error) {
	var u model.User
	if err := scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImageURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertUser inserts the user or refreshes the profile of an existing id,
// and populates the timestamps from the RETURNING clause.
func (r *PgUserRepository) UpsertUser(ctx context.Context, user *model.User) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, first_name, last_name, profile_image_url)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
		   email = EXCLUDED.email,
		   first_name = COALESCE(EXCLUDED.first_name, users.first_name),
		   last_name = COALESCE(EXCLUDED.last_name, users.last_name),
		   profile_image_url = COALESCE(EXCLUDED.profile_image_url, users.profile_image_url),
		   updated_at = NOW()
		 RETURNING created_at, updated_at`,
		user.ID, user.Email, user.FirstName, user.LastName, user.ProfileImageURL,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

// FindUserByID は ID でユーザーを取得する（存在しない場合は nil）
func (r *PgUserRepository) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userSelectCols+` FROM users WHERE id = $1`, id).Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}
