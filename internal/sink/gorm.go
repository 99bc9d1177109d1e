// Package sink holds the storage back ends a run writes through: a pgx COPY
// sink for PostgreSQL and a gorm sink for MySQL, SQLite and tests.
package sink

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// maxParams keeps one statement under SQLite's default bind-variable limit.
const maxParams = 30_000

// Gorm writes through multi-row INSERT statements inside one transaction
// per batch, so a failed batch leaves nothing behind.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) BulkLoad(ctx context.Context, table string, columns []string, rows [][]any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, chunk := range chunkRows(rows, len(columns)) {
			query, args, err := s.insert(table, columns, chunk).ToSql()
			if err != nil {
				return err
			}
			if err := tx.Exec(query, args...).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Gorm) FetchIDs(ctx context.Context, table string) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).Table(table).Order("id").Pluck("id", &ids).Error
	return ids, err
}

// InsertReturning uses RETURNING where the dialect has it and falls back to
// LAST_INSERT_ID on MySQL, which hands out consecutive ids to a multi-row insert.
func (s *Gorm) InsertReturning(ctx context.Context, table string, columns []string, rows [][]any) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, chunk := range chunkRows(rows, len(columns)) {
			var (
				got []int64
				err error
			)
			if tx.Dialector.Name() == "mysql" {
				got, err = s.insertLastID(tx, table, columns, chunk)
			} else {
				got, err = s.insertReturning(tx, table, columns, chunk)
			}
			if err != nil {
				return err
			}
			ids = append(ids, got...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Gorm) insertReturning(tx *gorm.DB, table string, columns []string, rows [][]any) ([]int64, error) {
	query, args, err := s.insert(table, columns, rows).Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, err
	}

	res, err := tx.Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer res.Close()

	ids := make([]int64, 0, len(rows))
	for res.Next() {
		var id int64
		if err := res.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, res.Err()
}

func (s *Gorm) insertLastID(tx *gorm.DB, table string, columns []string, rows [][]any) ([]int64, error) {
	query, args, err := s.insert(table, columns, rows).ToSql()
	if err != nil {
		return nil, err
	}

	res := tx.Exec(query, args...)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected != int64(len(rows)) {
		return nil, fmt.Errorf("inserted %d of %d rows", res.RowsAffected, len(rows))
	}

	var first int64
	if err := tx.Raw("SELECT LAST_INSERT_ID()").Scan(&first).Error; err != nil {
		return nil, err
	}

	ids := make([]int64, len(rows))
	for i := range ids {
		ids[i] = first + int64(i)
	}
	return ids, nil
}

func (s *Gorm) insert(table string, columns []string, rows [][]any) sq.InsertBuilder {
	b := sq.Insert(s.db.Statement.Quote(table)).Columns(columns...)
	for _, r := range rows {
		b = b.Values(r...)
	}
	return b
}

func chunkRows(rows [][]any, width int) [][][]any {
	size := maxParams / max(width, 1)
	if size < 1 {
		size = 1
	}

	chunks := make([][][]any, 0, len(rows)/size+1)
	for lo := 0; lo < len(rows); lo += size {
		chunks = append(chunks, rows[lo:min(lo+size, len(rows))])
	}
	return chunks
}
