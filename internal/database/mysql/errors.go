package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/openmedex/ftsmeta/internal/errs"
)

// MySQL error numbers.
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	errAccessDenied    = 1045
	errDBAccessDenied  = 1044
	errTableaccessDeny = 1142
	errUnknownDatabase = 1049
	errTooManyConns    = 1040
	errServerShutdown  = 1053
	errLockWaitTimeout = 1205
	errBadFieldError   = 1054
	errParseError      = 1064
	errNoSuchTable     = 1146
	errTableExists     = 1050
)

// mapError translates go-sql-driver/mysql errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return errs.Wrap(
			classifyMySQLCode(mysqlErr.Number),
			fmt.Sprintf("%s: %s", msg, mysqlErr.Message),
			err,
		)
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

// classifyMySQLCode maps MySQL error numbers to error kinds.
func classifyMySQLCode(code uint16) errs.ErrKind {
	switch code {
	case errAccessDenied, errDBAccessDenied, errTableaccessDeny:
		return errs.ErrKindPermissionDenied
	case errUnknownDatabase, errTooManyConns, errServerShutdown:
		return errs.ErrKindConnectionFailed
	case errLockWaitTimeout:
		return errs.ErrKindTimeout
	case errBadFieldError, errParseError, errNoSuchTable, errTableExists:
		return errs.ErrKindQueryFailed
	default:
		return errs.ErrKindQueryFailed
	}
}
