package credentials

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the users table if it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	stmt := `
	CREATE TABLE IF NOT EXISTS users (
		username      TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

	_, err := s.pool.Exec(ctx, stmt)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, username string) (*User, error) {
	stmt := `
	SELECT username, password_hash
	FROM users
	WHERE username = $1`

	var user User
	err := s.pool.QueryRow(ctx, stmt, username).Scan(&user.Username, &user.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStore) Create(ctx context.Context, user User) error {
	stmt := `
	INSERT INTO users (username, password_hash)
	VALUES ($1, $2)
	ON CONFLICT (username) DO NOTHING`

	result, err := s.pool.Exec(ctx, stmt, user.Username, user.PasswordHash)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUsernameTaken
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
