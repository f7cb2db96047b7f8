package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/feed"
)

// Store wraps read-only access to controller feed tables.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// ECColumns and PHColumns are the columns read for each feed.
var (
	ECColumns = []string{feed.ColTimestamp, feed.ColRuntime1, feed.ColRuntime2, feed.ColRuntime3, feed.ColEC}
	PHColumns = []string{feed.ColTimestamp, feed.ColRuntime4, feed.ColPH}
)

// feedSQL selects every column as text so rows go through the same parser
// as file exports.
func feedSQL(table string, columns []string) string {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = pgx.Identifier{c}.Sanitize() + "::text"
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM " + pgx.Identifier(strings.Split(table, ".")).Sanitize()
}

// FetchFeed reads the given columns of a feed table as a raw table. NULL
// values become empty strings.
func (s *Store) FetchFeed(ctx context.Context, table string, columns []string) (feed.Table, error) {
	rows, err := s.pool.Query(ctx, feedSQL(table, columns))
	if err != nil {
		return feed.Table{}, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	out := feed.Table{Name: table, Header: append([]string(nil), columns...)}
	values := make([]*string, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return feed.Table{}, fmt.Errorf("scan %s: %w", table, err)
		}
		record := make([]string, len(columns))
		for i, v := range values {
			if v != nil {
				record[i] = *v
			}
		}
		out.Rows = append(out.Rows, record)
	}
	return out, rows.Err()
}

// TableSource is a feed.Source backed by a Postgres table.
type TableSource struct {
	Store   *Store
	Table   string
	Columns []string
}

// Name returns the table name.
func (t TableSource) Name() string {
	return t.Table
}

// Load reads the table.
func (t TableSource) Load(ctx context.Context) (feed.Table, error) {
	return t.Store.FetchFeed(ctx, t.Table, t.Columns)
}
