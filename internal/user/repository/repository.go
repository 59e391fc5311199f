package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/nmoiseev/org-admin-backend/internal/common/db"
	"github.com/nmoiseev/org-admin-backend/internal/user/domain"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id domain.UserID) (domain.User, error)
	ListByCompany(ctx context.Context, companyID int64) ([]domain.User, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Deactivated accounts are invisible to every lookup so a disabled user can
// neither log in nor refresh.
func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, email, password_hash, role, company_id, active, created_at
		 FROM users
		 WHERE email = $1 AND active`,
		email,
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.CompanyID, &user.Active, &user.CreatedAt)
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user by email", start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, email, password_hash, role, company_id, active, created_at
		 FROM users
		 WHERE id = $1 AND active`,
		int64(id),
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.CompanyID, &user.Active, &user.CreatedAt)
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user by id", start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) ListByCompany(ctx context.Context, companyID int64) ([]domain.User, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, email, password_hash, role, company_id, active, created_at
		 FROM users
		 WHERE company_id = $1 AND active
		 ORDER BY id`,
		companyID,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "list users by company", start)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.CompanyID, &user.Active, &user.CreatedAt); err != nil {
			return nil, db.HandleQueryError(err, nil, "list users by company", start)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, nil, "list users by company", start)
	}

	db.MeasureQueryDuration("list users by company", start)
	return users, nil
}
