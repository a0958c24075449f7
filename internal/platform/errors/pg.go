package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE values the session store reacts to
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgTextRepresentation  = "22P02"
	pgSerialization       = "40001"
	pgDeadlock            = "40P01"
	pgLockNotAvailable    = "55P03"
	pgReadOnly            = "25006"
	pgCannotConnectNow    = "57P03"
)

var pgCodes = map[string]ErrorCode{
	pgUniqueViolation:     ErrorCodeDuplicateKey,
	pgForeignKeyViolation: ErrorCodeNotFound,
	pgNotNullViolation:    ErrorCodeValidation,
	pgCheckViolation:      ErrorCodeValidation,
	pgTextRepresentation:  ErrorCodeInvalidArgument,
	pgReadOnly:            ErrorCodeUnavailable,
	pgCannotConnectNow:    ErrorCodeUnavailable,
}

// PgError returns the driver error at the root of err
func PgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// DBErrorCode maps a driver error; ok is false when err is not from postgres
// A foreign key miss on trials means the session row is gone, hence NotFound
func DBErrorCode(err error) (ErrorCode, bool) {
	e, ok := PgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	if c, ok := pgCodes[e.Code]; ok {
		return c, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err with the mapped code, nil stays nil
// The column name is attached as the field when postgres reports one
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	out := Wrap(err, code, msg)
	if e, ok := PgError(err); ok && strings.TrimSpace(e.ColumnName) != "" {
		out = WithField(out, e.ColumnName)
	}
	return out
}

// Retryable reports transient contention worth another attempt
// Context cancellation never is
func Retryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if e, ok := PgError(err); ok {
		switch e.Code {
		case pgSerialization, pgDeadlock, pgLockNotAvailable:
			return true
		}
		return false
	}
	s := strings.ToLower(Root(err).Error())
	for _, frag := range []string{
		"commit unexpectedly resulted in rollback",
		"deadlock detected",
		"could not serialize access",
		"terminating connection due to administrator command",
	} {
		if strings.Contains(s, frag) {
			return true
		}
	}
	return false
}
