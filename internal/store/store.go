package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/venbruno/coffee-shop/internal/config"
	"github.com/venbruno/coffee-shop/internal/schema"
)

// Store writes the shop tables over a single PostgreSQL connection.
// It is not safe for concurrent use.
type Store struct {
	conn *pgx.Conn
	log  *zap.Logger
}

// Connect opens the connection, retrying transient failures.
func Connect(ctx context.Context, cfg *config.DBConfig, log *zap.Logger) (*Store, error) {
	conn, err := connectWithRetry(ctx, cfg.GetDSN(), cfg.Retries, log)
	if err != nil {
		return nil, fmt.Errorf("connect to %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}
	return &Store{conn: conn, log: log}, nil
}

// Close releases the connection.
func (s *Store) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

// CreateTables runs every template's DDL in one transaction.
func (s *Store) CreateTables(ctx context.Context, tables []schema.TableTemplate) error {
	return pgx.BeginFunc(ctx, s.conn, func(tx pgx.Tx) error {
		for _, tmpl := range tables {
			for _, stmt := range schema.GenerateDDL(tmpl) {
				if _, err := tx.Exec(ctx, stmt); err != nil {
					return fmt.Errorf("execute DDL for %s: %w", tmpl.Name, err)
				}
			}
		}
		return nil
	})
}

// Truncate empties tables and restarts their id sequences.
func (s *Store) Truncate(ctx context.Context, tables []string) error {
	if len(tables) == 0 {
		return nil
	}
	quoted := make([]string, len(tables))
	for i, t := range tables {
		quoted[i] = schema.PgIdentifier(t)
	}
	_, err := s.conn.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", ")))
	if err != nil {
		return fmt.Errorf("truncate %s: %w", strings.Join(tables, ", "), err)
	}
	return nil
}

// InsertRows copies rows into table in chunks of batchSize inside one
// transaction and returns the ids the rows received, in ascending order.
// The id column must come from a sequence and there must be no other writer.
func (s *Store) InsertRows(ctx context.Context, table string, columns []string, rows [][]any, batchSize int) ([]int, error) {
	if batchSize < 1 {
		batchSize = len(rows)
	}

	var ids []int
	err := pgx.BeginFunc(ctx, s.conn, func(tx pgx.Tx) error {
		var maxBefore int
		err := tx.QueryRow(ctx, fmt.Sprintf("SELECT COALESCE(MAX(id), 0) FROM %s", schema.PgIdentifier(table))).Scan(&maxBefore)
		if err != nil {
			return fmt.Errorf("read max id of %s: %w", table, err)
		}

		for start := 0; start < len(rows); start += batchSize {
			end := min(start+batchSize, len(rows))
			n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows[start:end]))
			if err != nil {
				return fmt.Errorf("copy into %s (offset=%d, batch=%d): %w", table, start, end-start, err)
			}
			s.log.Debug("Copied batch", zap.String("table", table), zap.Int64("rows", n), zap.Int("offset", start))
		}

		ids, err = queryIDs(ctx, tx, fmt.Sprintf("SELECT id FROM %s WHERE id > $1 ORDER BY id", schema.PgIdentifier(table)), maxBefore)
		if err != nil {
			return fmt.Errorf("read inserted ids of %s: %w", table, err)
		}
		if len(ids) != len(rows) {
			return fmt.Errorf("inserted %d rows into %s but found %d new ids", len(rows), table, len(ids))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// NextOrderID returns the first unused order id.
func (s *Store) NextOrderID(ctx context.Context) (int, error) {
	var next int
	err := s.conn.QueryRow(ctx, fmt.Sprintf("SELECT COALESCE(MAX(order_id), 0) + 1 FROM %s", schema.PgIdentifier(schema.OrderLineItems))).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("read next order id: %w", err)
	}
	return next, nil
}

// RowCounts returns exact row counts for tables.
func (s *Store) RowCounts(ctx context.Context, tables []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(tables))
	for _, table := range tables {
		var n int64
		if err := s.conn.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", schema.PgIdentifier(table))).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func queryIDs(ctx context.Context, tx pgx.Tx, query string, args ...any) ([]int, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int])
}
