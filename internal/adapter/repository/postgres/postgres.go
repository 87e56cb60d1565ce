// Package postgres implements the repositories over PostgreSQL using sqlx
// with the pgx stdlib driver. Uniqueness is enforced by database constraints;
// violations are mapped onto entity sentinel errors by constraint name.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationErrCode = "23505"

// Constraint names from the migrations. Conflict mapping depends on them.
const (
	urlsIdentConstraint      = "urls_ident_key"
	urlsExternalIDConstraint = "urls_external_id_key"
	usersUsernameConstraint  = "users_username_key"
	usersEmailConstraint     = "users_email_key"
	usersAPIKeyConstraint    = "users_api_key_key"
)

func uniqueViolationConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolationErrCode {
		return pgErr.ConstraintName, true
	}
	return "", false
}
