package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

const userColumns = "id, name, email, password_hash, created_at, updated_at"

const createUserQuery = `
	INSERT INTO users (id, name, email, password_hash)
	VALUES ($1, $2, lower($3), $4)
	RETURNING ` + userColumns

const getUserByEmailQuery = `
	SELECT ` + userColumns + `
	FROM users WHERE lower(email) = lower($1)`

const getUserByIDQuery = `
	SELECT ` + userColumns + `
	FROM users WHERE id = $1`

// Repository stores users in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func (r *Repository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, createUserQuery,
		params.ID, params.Name, params.Email, params.PasswordHash,
	))
	if isUniqueViolation(err) {
		return User{}, ErrDuplicateEmail
	}
	return user, err
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, getUserByEmailQuery, email))
}

func (r *Repository) GetUserByID(ctx context.Context, userID uuid.UUID) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, getUserByIDQuery, userID))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
