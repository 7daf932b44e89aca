package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/jmoiron/sqlx"
)

type userDB struct {
	ID         int64     `db:"id"`
	ExternalID string    `db:"external_id"`
	Email      string    `db:"email"`
	Role       string    `db:"role"`
	CreatedAt  time.Time `db:"created_at"`
}

func (u *userDB) toEntity() *entity.User {
	return &entity.User{
		ID:         u.ID,
		ExternalID: u.ExternalID,
		Email:      u.Email,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
	}
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*entity.User, error) {
	const op = "adapter.repository.postgres.UserRepository.GetByExternalID"
	const query = `SELECT id, external_id, email, role, created_at FROM users WHERE external_id = $1`

	var row userDB

	if err := r.db.GetContext(ctx, &row, query, externalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from users table: %w", op, err)
	}

	return row.toEntity(), nil
}
