package sink

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// fetchPage bounds a single id-fetch round trip.
const fetchPage = 50_000

// Postgres streams batches with binary COPY over a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
	psql sq.StatementBuilderType
}

func NewPostgres(ctx context.Context, dsn string, maxConns int32) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Postgres{
		pool: pool,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}, nil
}

func (s *Postgres) Close() { s.pool.Close() }

// BulkLoad sends all rows in one COPY; the server applies it atomically.
func (s *Postgres) BulkLoad(ctx context.Context, table string, columns []string, rows [][]any) error {
	n, err := s.pool.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return err
	}
	if n != int64(len(rows)) {
		return fmt.Errorf("copied %d of %d rows", n, len(rows))
	}
	return nil
}

// FetchIDs pages through the primary keys with a keyset cursor.
func (s *Postgres) FetchIDs(ctx context.Context, table string) ([]int64, error) {
	query := fmt.Sprintf("SELECT id FROM %s WHERE id > $1 ORDER BY id LIMIT $2", pgx.Identifier{table}.Sanitize())

	var (
		ids  []int64
		last int64
	)
	for {
		rows, err := s.pool.Query(ctx, query, last, fetchPage)
		if err != nil {
			return nil, err
		}
		page, err := pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			return nil, err
		}
		ids = append(ids, page...)
		if len(page) < fetchPage {
			return ids, nil
		}
		last = page[len(page)-1]
	}
}

// InsertReturning issues one multi-row INSERT ... RETURNING id. PostgreSQL
// returns the ids in VALUES order for a plain insert.
func (s *Postgres) InsertReturning(ctx context.Context, table string, columns []string, rows [][]any) ([]int64, error) {
	b := s.psql.Insert(pgx.Identifier{table}.Sanitize()).Columns(columns...).Suffix("RETURNING id")
	for _, r := range rows {
		b = b.Values(r...)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	res, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(res, pgx.RowTo[int64])
}
