package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A minimal driver so WithTx can be exercised against real database/sql
// transaction plumbing. Every transaction it hands out reports into the
// shared counters.
type txCounters struct {
	committed  atomic.Int32
	rolledBack atomic.Int32
}

func (c *txCounters) reset() {
	c.committed.Store(0)
	c.rolledBack.Store(0)
}

var fakeTxCounts = &txCounters{}

type fakeDriver struct{}

func (d *fakeDriver) Open(string) (driver.Conn, error) { return &fakeConn{}, nil }

type fakeConn struct{}

func (c *fakeConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (c *fakeConn) Close() error                        { return nil }
func (c *fakeConn) Begin() (driver.Tx, error)           { return &fakeTx{}, nil }

type fakeTx struct{}

func (t *fakeTx) Commit() error {
	fakeTxCounts.committed.Add(1)
	return nil
}

func (t *fakeTx) Rollback() error {
	fakeTxCounts.rolledBack.Add(1)
	return nil
}

func init() {
	sql.Register("faketx", &fakeDriver{})
}

func newFakeDB(t *testing.T) *DB {
	t.Helper()
	fakeTxCounts.reset()
	raw, err := sql.Open("faketx", "")
	require.NoError(t, err)
	db := sqlx.NewDb(raw, "faketx")
	t.Cleanup(func() { _ = db.Close() })
	return &DB{db}
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits when the function succeeds", func(t *testing.T) {
		db := newFakeDB(t)

		var got *sqlx.Tx
		err := db.WithTx(ctx, func(tx *sqlx.Tx) error {
			got = tx
			return nil
		})

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Equal(t, int32(1), fakeTxCounts.committed.Load())
		assert.Equal(t, int32(0), fakeTxCounts.rolledBack.Load())
	})

	t.Run("rolls back when the function fails", func(t *testing.T) {
		db := newFakeDB(t)
		boom := errors.New("portal insert failed")

		err := db.WithTx(ctx, func(tx *sqlx.Tx) error {
			return boom
		})

		require.ErrorIs(t, err, boom)
		assert.Equal(t, int32(0), fakeTxCounts.committed.Load())
		assert.Equal(t, int32(1), fakeTxCounts.rolledBack.Load())
	})

	t.Run("rolls back and re-raises a panic", func(t *testing.T) {
		db := newFakeDB(t)

		require.PanicsWithValue(t, "seed blew up", func() {
			_ = db.WithTx(ctx, func(tx *sqlx.Tx) error {
				panic("seed blew up")
			})
		})

		assert.Equal(t, int32(0), fakeTxCounts.committed.Load())
		assert.Equal(t, int32(1), fakeTxCounts.rolledBack.Load())
	})
}
