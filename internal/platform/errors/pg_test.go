package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("nil should stay nil")
	}
	cases := []struct {
		sqlstate string
		want     ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey},
		{"23503", ErrorCodeNotFound},
		{"23502", ErrorCodeValidation},
		{"22P02", ErrorCodeInvalidArgument},
		{"57P03", ErrorCodeUnavailable},
		{"42P01", ErrorCodeDB},
	}
	for _, c := range cases {
		err := FromPostgres(fmt.Errorf("exec: %w", &pgconn.PgError{Code: c.sqlstate}), "insert trial")
		if CodeOf(err) != c.want {
			t.Fatalf("%s: code %d want %d", c.sqlstate, CodeOf(err), c.want)
		}
	}

	err := FromPostgres(&pgconn.PgError{Code: "23502", ColumnName: "response"}, "insert trial 3")
	if e, _ := As(err); e.Field() != "response" || e.Error() == "" {
		t.Fatalf("field not attached: %+v", e)
	}
	if CodeOf(FromPostgres(stderrs.New("conn reset"), "x")) != ErrorCodeDB {
		t.Fatalf("foreign errors map to DB")
	}
	if pe, ok := PgError(fmt.Errorf("tx: %w", &pgconn.PgError{Code: "23505"})); !ok || pe.Code != "23505" {
		t.Fatalf("PgError should unwrap the driver error")
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, false},
		{fmt.Errorf("q: %w", context.DeadlineExceeded), false},
		{&pgconn.PgError{Code: "40001"}, true},
		{&pgconn.PgError{Code: "40P01"}, true},
		{&pgconn.PgError{Code: "23505"}, false},
		{stderrs.New("commit unexpectedly resulted in rollback"), true},
		{stderrs.New("syntax error"), false},
	}
	for _, c := range cases {
		if got := Retryable(c.err); got != c.want {
			t.Fatalf("Retryable(%v) = %v want %v", c.err, got, c.want)
		}
	}
}
