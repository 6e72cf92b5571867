package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openmedex/ftsmeta/internal/errs"
)

// PostgreSQL SQLSTATE class prefixes.
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgClassConnection = "08" // connection exceptions
	pgClassAuth       = "28" // invalid authorization
	pgClassPrivilege  = "42501"
	pgQueryCanceled   = "57014"
)

// mapError translates pgx / pgconn native errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	// Context cancellation / deadline exceeded
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	// No rows
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	// Postgres server-side error (SQLSTATE codes)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return errs.Wrap(
			classifySQLState(pgErr.Code),
			fmt.Sprintf("%s: %s", msg, pgErr.Message),
			err,
		)
	}

	// Fallthrough: connection-level errors (TLS, network, auth)
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

// classifySQLState maps SQLSTATE codes to error kinds.
func classifySQLState(code string) errs.ErrKind {
	if code == pgClassPrivilege {
		return errs.ErrKindPermissionDenied
	}
	if code == pgQueryCanceled {
		return errs.ErrKindTimeout
	}
	if len(code) >= 2 {
		switch code[:2] {
		case pgClassConnection:
			return errs.ErrKindConnectionFailed
		case pgClassAuth:
			return errs.ErrKindPermissionDenied
		}
	}
	return errs.ErrKindQueryFailed
}
