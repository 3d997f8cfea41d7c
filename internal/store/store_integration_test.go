package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/venbruno/coffee-shop/internal/models"
	"github.com/venbruno/coffee-shop/internal/schema"
)

// openTestStore connects to SEED_TEST_DSN, which must point at a scratch
// database; the shop tables in it are truncated.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("SEED_TEST_DSN")
	if dsn == "" {
		t.Skip("SEED_TEST_DSN not set")
	}
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)

	s := &Store{conn: conn, log: zap.NewNop()}
	t.Cleanup(func() { s.Close(context.Background()) })

	require.NoError(t, s.CreateTables(ctx, schema.Tables()))
	require.NoError(t, s.Truncate(ctx, schema.Names(schema.Tables())))
	return s
}

type column struct {
	Table    string
	Name     string
	Type     string
	Nullable string
}

func describe(t *testing.T, s *Store) []column {
	t.Helper()
	rows, err := s.conn.Query(context.Background(), `
		SELECT table_name::text, column_name::text, data_type::text, is_nullable::text
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name::text = ANY($1)
		ORDER BY table_name, ordinal_position`, schema.Names(schema.Tables()))
	require.NoError(t, err)
	cols, err := pgx.CollectRows(rows, pgx.RowToStructByPos[column])
	require.NoError(t, err)
	return cols
}

func TestCreateTables_Idempotent(t *testing.T) {
	s := openTestStore(t)
	before := describe(t, s)
	require.NotEmpty(t, before)

	require.NoError(t, s.CreateTables(context.Background(), schema.Tables()))
	assert.Equal(t, before, describe(t, s))
}

func TestInsertRows_ReturnsNewIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	rows := [][]any{
		models.Refund{CreatedAt: now, Reason: models.RefundReasons[0]}.Values(),
		models.Refund{CreatedAt: now, Reason: models.RefundReasons[1]}.Values(),
		models.Refund{CreatedAt: now, Reason: models.RefundReasons[2]}.Values(),
	}
	ids, err := s.InsertRows(ctx, schema.Refunds, models.RefundColumns, rows, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids)

	ids, err = s.InsertRows(ctx, schema.Refunds, models.RefundColumns, rows[:1], 2)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, ids)

	counts, err := s.RowCounts(ctx, []string{schema.Refunds})
	require.NoError(t, err)
	assert.Equal(t, int64(4), counts[schema.Refunds])
}

func TestInsertRows_UniqueEmailRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	dup := models.Customer{CreatedAt: now, FirstName: "Ana", LastName: "Silva", Email: "ana.silva@gmail.com"}
	_, err := s.InsertRows(ctx, schema.Customers, models.CustomerColumns, [][]any{dup.Values(), dup.Values()}, 10)
	require.Error(t, err)

	counts, err := s.RowCounts(ctx, []string{schema.Customers})
	require.NoError(t, err)
	assert.Zero(t, counts[schema.Customers])
}

func TestNextOrderID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	next, err := s.NextOrderID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}
