package dbutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net"
	"strings"

	"github.com/Aidin1998/minitask/common/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE codes that are the caller's fault
const (
	NotNullViolationCode      = "23502"
	StringDataTruncationCode  = "22001"
	InvalidTextRepresentation = "22P02"
)

// WrapError tags a gorm/pgx/database/sql error with an error kind.
func WrapError(err error) error {
	var (
		pgErr      *pgconn.PgError
		connectErr *pgconn.ConnectError
		netErr     net.Error
	)

	switch {
	case err == nil:
		return nil
	case isTagged(err):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.NotFound.Wrap(err)
	case errors.As(err, &pgErr):
		return wrapPgError(pgErr, err)
	case errors.As(err, &connectErr),
		errors.As(err, &netErr),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return errors.Unavailable.Explain("database unreachable").Wrap(err)
	}

	return errors.Internal.Wrap(err)
}

func wrapPgError(pgErr *pgconn.PgError, err error) error {
	switch {
	case pgErr.Code == NotNullViolationCode:
		return errors.Invalid.Explain("%s is required", columnOrValue(pgErr)).Wrap(err)
	case pgErr.Code == StringDataTruncationCode:
		return errors.Invalid.Explain("value too long").Wrap(err)
	case pgErr.Code == InvalidTextRepresentation:
		return errors.Invalid.Explain("malformed value").Wrap(err)
	case strings.HasPrefix(pgErr.Code, "08"),
		pgErr.Code == "57P01", pgErr.Code == "57P02", pgErr.Code == "57P03":
		return errors.Unavailable.Explain("database unreachable").Wrap(err)
	}
	return errors.Internal.Wrap(err)
}

func columnOrValue(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	return "value"
}

func isTagged(err error) bool {
	var e *errors.Error
	return errors.As(err, &e)
}
