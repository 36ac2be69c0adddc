package accounts_repo

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/domain"
)

// ---- fake sql driver ----
//
// Records every exec with its bound arguments and answers with a configurable
// rows-affected count. Enough to exercise Update without a database.

type fakeDriver struct {
	conn *fakeConn
}

func (d *fakeDriver) Open(name string) (driver.Conn, error) {
	return d.conn, nil
}

type fakeConn struct {
	execArgs [][]driver.NamedValue
	rows     int64
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("not implemented")
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) {
	return nil, errors.New("not implemented")
}

func (c *fakeConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	copied := make([]driver.NamedValue, len(args))
	copy(copied, args)
	c.execArgs = append(c.execArgs, copied)
	return driver.RowsAffected(c.rows), nil
}

func newFakeDB(t *testing.T, conn *fakeConn) *sql.DB {
	t.Helper()
	name := "accounts_repo_fake_" + t.Name()
	sql.Register(name, &fakeDriver{conn: conn})
	db, err := sql.Open(name, "")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func updatableAccount() *domain.Account {
	account := domain.NewAccount(domain.NewUser("Ivan", "ivan@example.com"))
	account.WithState(decimal.NewFromInt(900), decimal.NewFromInt(-100), decimal.Zero)
	account.UpdatedAt = time.Now().Add(-time.Hour)
	return account
}

func TestUpdateRefreshesUpdatedAt(t *testing.T) {
	conn := &fakeConn{rows: 1}
	repo := NewAccountRepository(newFakeDB(t, conn))

	account := updatableAccount()
	stale := account.UpdatedAt

	if err := repo.Update(context.Background(), account); err != nil {
		t.Fatal(err)
	}

	if !account.UpdatedAt.After(stale) {
		t.Fatalf("UpdatedAt should be refreshed in memory, still %s", account.UpdatedAt)
	}
	if len(conn.execArgs) != 1 {
		t.Fatalf("want exactly one exec, got %d", len(conn.execArgs))
	}
	args := conn.execArgs[0]
	if len(args) != 5 {
		t.Fatalf("want 5 bound arguments, got %d", len(args))
	}
	boundAt, ok := args[3].Value.(time.Time)
	if !ok {
		t.Fatalf("updated_at argument should be a time.Time, got %T", args[3].Value)
	}
	// the row and the aggregate must carry the same timestamp
	if !boundAt.Equal(account.UpdatedAt) {
		t.Fatalf("bound updated_at=%s differs from aggregate's %s", boundAt, account.UpdatedAt)
	}
}

func TestUpdateUnknownAccount(t *testing.T) {
	conn := &fakeConn{rows: 0}
	repo := NewAccountRepository(newFakeDB(t, conn))

	err := repo.Update(context.Background(), updatableAccount())
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
}
