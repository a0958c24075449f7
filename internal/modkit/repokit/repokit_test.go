package repokit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type fakeQ struct {
	execs []string
	args  [][]any
	err   error
}

func (f *fakeQ) Exec(_ context.Context, sql string, args ...any) (CommandTag, error) {
	f.execs = append(f.execs, sql)
	f.args = append(f.args, args)
	return pgconn.NewCommandTag("SELECT 1"), f.err
}
func (f *fakeQ) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }
func (f *fakeQ) QueryRow(context.Context, string, ...any) Row       { return nil }

type fakeTx struct {
	fakeQ
	txs int
}

func (f *fakeTx) Tx(_ context.Context, fn func(Queryer) error) error {
	f.txs++
	return fn(&f.fakeQ)
}

func TestWithBeginHooks(t *testing.T) {
	inner := &fakeTx{}
	var order []string
	tx := WithBeginHooks(inner,
		func(context.Context, Queryer) error { order = append(order, "h1"); return nil },
		StatementTimeout(1500*time.Millisecond),
	)
	err := WithTx(context.Background(), tx, func(q Queryer) error {
		order = append(order, "fn")
		return nil
	})
	if err != nil || inner.txs != 1 {
		t.Fatalf("tx err=%v calls=%d", err, inner.txs)
	}
	if strings.Join(order, ",") != "h1,fn" {
		t.Fatalf("order %v", order)
	}
	if len(inner.execs) != 1 || inner.args[0][0] != "1500ms" {
		t.Fatalf("timeout hook %v %v", inner.execs, inner.args)
	}

	boom := errors.New("boom")
	failing := WithBeginHooks(&fakeTx{}, func(context.Context, Queryer) error { return boom })
	called := false
	if err := failing.Tx(context.Background(), func(Queryer) error { called = true; return nil }); !errors.Is(err, boom) || called {
		t.Fatalf("hook error should abort: %v called=%v", err, called)
	}

	if _, err := tx.Exec(context.Background(), "select 1"); err != nil {
		t.Fatalf("delegated exec %v", err)
	}
}

type repo struct{ q Queryer }

func TestBinder(t *testing.T) {
	b := BindFunc[repo](func(q Queryer) repo { return repo{q: q} })
	q := &fakeQ{}
	if got := b.Bind(q); got.q != q {
		t.Fatalf("bound to wrong queryer")
	}
}
