package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voyago/travelbook/services/identity/internal/domain"
)

// UserRepository is the only writer of the users table; every credential
// flow goes through the identity service and lands here.
type UserRepository interface {
	Create(ctx context.Context, req *domain.RegisterRequest, passwordHash string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByResetToken(ctx context.Context, resetToken string) (*domain.User, error)
	SetResetToken(ctx context.Context, userID int64, resetToken, actor string) error
	// UpdatePassword rewrites the hash for the change-password flow.
	UpdatePassword(ctx context.Context, userID int64, passwordHash, actor string) error
	// ResetPassword rewrites the hash and clears the reset token in one
	// statement, which is what makes the token single-use.
	ResetPassword(ctx context.Context, userID int64, passwordHash, actor string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userCols = `id, name, email, password_hash, role, contact_number, reset_token, created_at, updated_at, created_by, updated_by`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.ContactNumber,
		&u.ResetToken, &u.CreatedAt, &u.UpdatedAt, &u.CreatedBy, &u.UpdatedBy,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, req *domain.RegisterRequest, passwordHash string) (*domain.User, error) {
	const q = `
		INSERT INTO users (name, email, password_hash, role, contact_number, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanUser(r.pool.QueryRow(ctx, q, req.Name, req.Email, passwordHash, req.Role, req.ContactNumber, req.Email))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE email = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanUser(r.pool.QueryRow(ctx, q, email))
}

func (r *userRepository) FindByResetToken(ctx context.Context, resetToken string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE reset_token = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanUser(r.pool.QueryRow(ctx, q, resetToken))
}

func (r *userRepository) SetResetToken(ctx context.Context, userID int64, resetToken, actor string) error {
	const q = `UPDATE users SET reset_token = $2, updated_at = now(), updated_by = $3 WHERE id = $1`
	return r.exec(ctx, q, userID, resetToken, actor)
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash, actor string) error {
	const q = `UPDATE users SET password_hash = $2, updated_at = now(), updated_by = $3 WHERE id = $1`
	return r.exec(ctx, q, userID, passwordHash, actor)
}

func (r *userRepository) ResetPassword(ctx context.Context, userID int64, passwordHash, actor string) error {
	const q = `UPDATE users SET password_hash = $2, reset_token = NULL, updated_at = now(), updated_by = $3 WHERE id = $1`
	return r.exec(ctx, q, userID, passwordHash, actor)
}

func (r *userRepository) exec(ctx context.Context, q string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
