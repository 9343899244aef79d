package repository

import (
	"context"
	"errors"

	"livestream_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, `
		SELECT id, email, display_name, role, COALESCE(avatar_url, ''), created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.AvatarURL, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// DisplayTx fetches the display fields used to denormalize event payloads,
// inside the operation's transaction.
func (r *UserRepository) DisplayTx(ctx context.Context, tx pgx.Tx, id int64) (name, avatar string, err error) {
	err = tx.QueryRow(ctx, `
		SELECT display_name, COALESCE(avatar_url, '')
		FROM users
		WHERE id = $1
	`, id).Scan(&name, &avatar)
	if errors.Is(err, pgx.ErrNoRows) {
		err = ErrNotFound
	}
	return name, avatar, err
}
