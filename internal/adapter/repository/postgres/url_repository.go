package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shortify/shortify/internal/entity"
)

type urlDB struct {
	ID          int64      `db:"id"`
	Ident       string     `db:"ident"`
	ExternalID  *string    `db:"external_id"`
	Origin      string     `db:"origin"`
	Views       int64      `db:"views"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
	ExpiresAt   *time.Time `db:"expires_at"`
	LastVisitAt *time.Time `db:"last_visit_at"`
	UserID      *int64     `db:"user_id"`
}

func (u *urlDB) toEntity() *entity.ShortURL {
	return &entity.ShortURL{
		ID:          u.ID,
		Ident:       u.Ident,
		ExternalID:  u.ExternalID,
		Origin:      u.Origin,
		Views:       u.Views,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		ExpiresAt:   u.ExpiresAt,
		LastVisitAt: u.LastVisitAt,
		UserID:      u.UserID,
	}
}

type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{db: db}
}

func (r *URLRepository) Save(ctx context.Context, url *entity.ShortURL) (*entity.ShortURL, error) {
	const op = "adapter.repository.postgres.URLRepository.Save"
	const query = `INSERT INTO urls(ident, external_id, origin, expires_at, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`

	var rec urlDB

	err := r.db.GetContext(ctx, &rec, query, url.Ident, url.ExternalID, url.Origin, url.ExpiresAt, url.UserID)
	if err != nil {
		if constraint, ok := uniqueViolationConstraint(err); ok {
			switch constraint {
			case urlsExternalIDConstraint:
				return nil, fmt.Errorf("%s: %w", op, entity.ErrExternalIDExists)
			default:
				return nil, fmt.Errorf("%s: %w", op, entity.ErrIdentExists)
			}
		}

		return nil, fmt.Errorf("%s: failed to insert into urls table: %w", op, err)
	}

	return rec.toEntity(), nil
}

func (r *URLRepository) RetrieveByIdent(ctx context.Context, ident string) (*entity.ShortURL, error) {
	const op = "adapter.repository.postgres.URLRepository.RetrieveByIdent"
	const query = `SELECT * FROM urls WHERE ident = $1`

	var rec urlDB

	if err := r.db.GetContext(ctx, &rec, query, ident); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return rec.toEntity(), nil
}

func (r *URLRepository) RetrieveByExternalID(ctx context.Context, externalID string) (*entity.ShortURL, error) {
	const op = "adapter.repository.postgres.URLRepository.RetrieveByExternalID"
	const query = `SELECT * FROM urls WHERE external_id = $1`

	var rec urlDB

	if err := r.db.GetContext(ctx, &rec, query, externalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return rec.toEntity(), nil
}

// ResolveLive returns a record only while it has not expired. The predicate
// runs server-side so resolution stays consistent under concurrent reaping.
func (r *URLRepository) ResolveLive(ctx context.Context, ident string) (*entity.ShortURL, error) {
	const op = "adapter.repository.postgres.URLRepository.ResolveLive"
	const query = `SELECT * FROM urls
		WHERE ident = $1 AND (expires_at IS NULL OR expires_at > now())`

	var rec urlDB

	if err := r.db.GetContext(ctx, &rec, query, ident); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return rec.toEntity(), nil
}

// RecordVisit bumps the view counter in place. The increment happens inside
// the database, so concurrent visits never lose updates.
func (r *URLRepository) RecordVisit(ctx context.Context, id int64) error {
	const op = "adapter.repository.postgres.URLRepository.RecordVisit"
	const query = `UPDATE urls
		SET views = views + 1, last_visit_at = now()
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: failed to update urls table: %w", op, err)
	}

	return nil
}

// buildUpdateSet renders the SET clause for a partial update. Only columns
// named here can ever be touched; argument placeholders start at $1.
func buildUpdateSet(upd entity.ShortURLUpdate) (string, []any) {
	sets := []string{"updated_at = now()"}
	args := []any{}

	if upd.Origin != nil {
		args = append(args, *upd.Origin)
		sets = append(sets, fmt.Sprintf("origin = $%d", len(args)))
	}

	if upd.ExternalID != nil {
		if *upd.ExternalID == "" {
			sets = append(sets, "external_id = NULL")
		} else {
			args = append(args, *upd.ExternalID)
			sets = append(sets, fmt.Sprintf("external_id = $%d", len(args)))
		}
	}

	switch {
	case upd.ClearExpiry:
		sets = append(sets, "expires_at = NULL")
	case upd.ExpiresAt != nil:
		args = append(args, *upd.ExpiresAt)
		sets = append(sets, fmt.Sprintf("expires_at = $%d", len(args)))
	}

	return strings.Join(sets, ", "), args
}

func (r *URLRepository) updateBy(ctx context.Context, op, column, key string, upd entity.ShortURLUpdate) (*entity.ShortURL, error) {
	set, args := buildUpdateSet(upd)
	args = append(args, key)
	query := fmt.Sprintf(`UPDATE urls SET %s WHERE %s = $%d RETURNING *`, set, column, len(args))

	var rec urlDB

	if err := r.db.GetContext(ctx, &rec, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}
		if constraint, ok := uniqueViolationConstraint(err); ok && constraint == urlsExternalIDConstraint {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrExternalIDExists)
		}

		return nil, fmt.Errorf("%s: failed to update urls table: %w", op, err)
	}

	return rec.toEntity(), nil
}

func (r *URLRepository) UpdateByIdent(ctx context.Context, ident string, upd entity.ShortURLUpdate) (*entity.ShortURL, error) {
	const op = "adapter.repository.postgres.URLRepository.UpdateByIdent"
	return r.updateBy(ctx, op, "ident", ident, upd)
}

func (r *URLRepository) UpdateByExternalID(ctx context.Context, externalID string, upd entity.ShortURLUpdate) (*entity.ShortURL, error) {
	const op = "adapter.repository.postgres.URLRepository.UpdateByExternalID"
	return r.updateBy(ctx, op, "external_id", externalID, upd)
}

func (r *URLRepository) deleteBy(ctx context.Context, op, column, key string) error {
	query := fmt.Sprintf(`DELETE FROM urls WHERE %s = $1`, column)

	res, err := r.db.ExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("%s: failed to delete from urls table: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	return nil
}

func (r *URLRepository) DeleteByIdent(ctx context.Context, ident string) error {
	const op = "adapter.repository.postgres.URLRepository.DeleteByIdent"
	return r.deleteBy(ctx, op, "ident", ident)
}

func (r *URLRepository) DeleteByExternalID(ctx context.Context, externalID string) error {
	const op = "adapter.repository.postgres.URLRepository.DeleteByExternalID"
	return r.deleteBy(ctx, op, "external_id", externalID)
}

func (r *URLRepository) DeleteBatch(ctx context.Context, ids []int64) (int64, error) {
	const op = "adapter.repository.postgres.URLRepository.DeleteBatch"

	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`DELETE FROM urls WHERE id IN (?)`, ids)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to delete from urls table: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to count deleted rows: %w", op, err)
	}

	return n, nil
}

// sortColumns is the allow-list of sortable columns. ListParams.Normalize
// already restricts the field, but the repository never interpolates
// anything outside this map either.
var sortColumns = map[string]string{
	entity.SortByCreatedAt: "created_at",
	entity.SortByExpiresAt: "expires_at",
	entity.SortByViews:     "views",
}

func (r *URLRepository) List(ctx context.Context, params entity.ListParams) (*entity.URLPage, error) {
	const op = "adapter.repository.postgres.URLRepository.List"

	where := ""
	args := []any{}

	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		where = `WHERE ident ILIKE $1 OR external_id ILIKE $1 OR origin ILIKE $1`
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT count(*) FROM urls %s`, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to count rows in urls table: %w", op, err)
	}

	column, ok := sortColumns[params.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if params.Order == entity.OrderAsc {
		direction = "ASC"
	}

	args = append(args, params.PerPage)
	limitArg := len(args)
	args = append(args, params.Offset())
	offsetArg := len(args)

	query := fmt.Sprintf(`SELECT * FROM urls %s ORDER BY %s %s NULLS LAST LIMIT $%d OFFSET $%d`,
		where, column, direction, limitArg, offsetArg)

	var recs []urlDB
	if err := r.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to select rows from urls table: %w", op, err)
	}

	items := make([]*entity.ShortURL, len(recs))
	for i := range recs {
		items[i] = recs[i].toEntity()
	}

	return &entity.URLPage{
		Items:   items,
		Total:   total,
		Page:    params.Page,
		PerPage: params.PerPage,
	}, nil
}

// DeleteExpired removes records past their expiry timestamp. Used by the
// TTL reaper; resolution never depends on it having run.
func (r *URLRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const op = "adapter.repository.postgres.URLRepository.DeleteExpired"
	const query = `DELETE FROM urls WHERE expires_at IS NOT NULL AND expires_at <= now()`

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to delete from urls table: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to count deleted rows: %w", op, err)
	}

	return n, nil
}
