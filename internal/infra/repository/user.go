package repository

import (
	"context"

	"staybook/internal/domain/user"
	"staybook/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository is the read-only view into the user directory.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	const query = `SELECT id, role FROM users WHERE id = $1`

	var (
		userID uuid.UUID
		role   string
	)
	if err := db(ctx, r.pool).QueryRow(ctx, query, id).Scan(&userID, &role); err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user", err)
	}

	u, err := user.NewUser(userID, user.Role(role))
	if err != nil {
		return nil, infra.WrapRepoErr("stored user has invalid role", err)
	}
	return u, nil
}
