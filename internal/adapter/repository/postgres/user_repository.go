package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shortify/shortify/internal/entity"
)

type userDB struct {
	ID             int64     `db:"id"`
	Username       string    `db:"username"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	APIKey         *string   `db:"api_key"`
	IsActive       bool      `db:"is_active"`
	IsSuperuser    bool      `db:"is_superuser"`
	TOTPSecret     *string   `db:"totp_secret"`
	CreatedAt      time.Time `db:"created_at"`
}

func (u *userDB) toEntity() *entity.User {
	return &entity.User{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		APIKey:         u.APIKey,
		IsActive:       u.IsActive,
		IsSuperuser:    u.IsSuperuser,
		TOTPSecret:     u.TOTPSecret,
		CreatedAt:      u.CreatedAt,
	}
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Save(ctx context.Context, user *entity.User) (*entity.User, error) {
	const op = "adapter.repository.postgres.UserRepository.Save"
	const query = `INSERT INTO users(username, email, hashed_password, api_key, is_active, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *`

	var rec userDB

	err := r.db.GetContext(ctx, &rec, query,
		user.Username, user.Email, user.HashedPassword, user.APIKey, user.IsActive, user.IsSuperuser)
	if err != nil {
		if _, ok := uniqueViolationConstraint(err); ok {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrUserExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into users table: %w", op, err)
	}

	return rec.toEntity(), nil
}

func (r *UserRepository) RetrieveByID(ctx context.Context, id int64) (*entity.User, error) {
	const op = "adapter.repository.postgres.UserRepository.RetrieveByID"
	const query = `SELECT * FROM users WHERE id = $1`

	var rec userDB

	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from users table: %w", op, err)
	}

	return rec.toEntity(), nil
}

// RetrieveByUsername looks a user up case-insensitively.
func (r *UserRepository) RetrieveByUsername(ctx context.Context, username string) (*entity.User, error) {
	const op = "adapter.repository.postgres.UserRepository.RetrieveByUsername"
	const query = `SELECT * FROM users WHERE lower(username) = lower($1)`

	var rec userDB

	if err := r.db.GetContext(ctx, &rec, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from users table: %w", op, err)
	}

	return rec.toEntity(), nil
}

func (r *UserRepository) RetrieveByAPIKey(ctx context.Context, apiKey string) (*entity.User, error) {
	const op = "adapter.repository.postgres.UserRepository.RetrieveByAPIKey"
	const query = `SELECT * FROM users WHERE api_key = $1`

	var rec userDB

	if err := r.db.GetContext(ctx, &rec, query, apiKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from users table: %w", op, err)
	}

	return rec.toEntity(), nil
}

func (r *UserRepository) SetTOTPSecret(ctx context.Context, id int64, secret string) error {
	const op = "adapter.repository.postgres.UserRepository.SetTOTPSecret"
	const query = `UPDATE users SET totp_secret = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, secret, id)
	if err != nil {
		return fmt.Errorf("%s: failed to update users table: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrUserNotFound)
	}

	return nil
}

func (r *UserRepository) SetAPIKey(ctx context.Context, id int64, apiKey string) error {
	const op = "adapter.repository.postgres.UserRepository.SetAPIKey"
	const query = `UPDATE users SET api_key = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, apiKey, id)
	if err != nil {
		return fmt.Errorf("%s: failed to update users table: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrUserNotFound)
	}

	return nil
}

func (r *UserRepository) List(ctx context.Context, params entity.ListParams) (*entity.UserPage, error) {
	const op = "adapter.repository.postgres.UserRepository.List"

	where := ""
	args := []any{}

	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		where = `WHERE username ILIKE $1 OR email ILIKE $1`
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT count(*) FROM users %s`, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to count rows in users table: %w", op, err)
	}

	args = append(args, params.PerPage)
	limitArg := len(args)
	args = append(args, params.Offset())
	offsetArg := len(args)

	query := fmt.Sprintf(`SELECT * FROM users %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, limitArg, offsetArg)

	var recs []userDB
	if err := r.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to select rows from users table: %w", op, err)
	}

	items := make([]*entity.User, len(recs))
	for i := range recs {
		items[i] = recs[i].toEntity()
	}

	return &entity.UserPage{
		Items:   items,
		Total:   total,
		Page:    params.Page,
		PerPage: params.PerPage,
	}, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	const op = "adapter.repository.postgres.UserRepository.Delete"
	const query = `DELETE FROM users WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: failed to delete from users table: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrUserNotFound)
	}

	return nil
}
