package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	authdomain "github.com/nmoiseev/org-admin-backend/internal/auth/domain"
	"github.com/nmoiseev/org-admin-backend/internal/common/db"
)

var ErrDuplicateToken = errors.New("refresh token already exists")

type RefreshTokenRepository interface {
	Save(ctx context.Context, token authdomain.RefreshToken) error
	// Find reports absence through the bool, never through the error; a
	// non-nil error always means the store itself failed.
	Find(ctx context.Context, token string) (authdomain.RefreshToken, bool, error)
	// Delete is idempotent: deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type PgRefreshTokenRepository struct {
	pool *pgxpool.Pool
}

func NewPgRefreshTokenRepository(pool *pgxpool.Pool) *PgRefreshTokenRepository {
	return &PgRefreshTokenRepository{pool: pool}
}

func (r *PgRefreshTokenRepository) Save(ctx context.Context, token authdomain.RefreshToken) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO refresh_tokens (user_id, token, expires_at, created_at)
		 VALUES ($1, $2, $3, $4)`,
		token.UserID,
		token.Token,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateToken
		}
	}
	return db.HandleExecError(err, "save refresh token", start)
}

func (r *PgRefreshTokenRepository) Find(ctx context.Context, token string) (authdomain.RefreshToken, bool, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT user_id, token, expires_at, created_at
		 FROM refresh_tokens
		 WHERE token = $1`,
		token,
	)

	var stored authdomain.RefreshToken
	err := row.Scan(&stored.UserID, &stored.Token, &stored.ExpiresAt, &stored.CreatedAt)
	if err := db.HandleQueryError(err, errNotFound, "find refresh token", start); err != nil {
		if errors.Is(err, errNotFound) {
			return authdomain.RefreshToken{}, false, nil
		}
		return authdomain.RefreshToken{}, false, err
	}
	return stored, true, nil
}

func (r *PgRefreshTokenRepository) Delete(ctx context.Context, token string) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`DELETE FROM refresh_tokens WHERE token = $1`,
		token,
	)
	return db.HandleExecError(err, "delete refresh token", start)
}

func (r *PgRefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	start := time.Now()
	res, err := r.pool.Exec(
		ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < NOW()`,
	)
	if err != nil {
		return 0, db.HandleExecError(err, "delete expired refresh tokens", start)
	}
	db.MeasureQueryDuration("delete expired refresh tokens", start)
	return res.RowsAffected(), nil
}

var errNotFound = errors.New("refresh token not found")
