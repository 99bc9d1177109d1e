package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Map converts driver/infra errors into a SinkError for the given operation.
// Keeps the sinks free of per-driver error handling.
func Map(op, table string, err error) error {
	if err == nil {
		return nil
	}

	var se *SinkError
	if errors.As(err, &se) {
		return err
	}

	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		err = fmt.Errorf("postgres %s (%s): %w", pgErr.Code, pgErr.Message, err)

	case errors.Is(err, gorm.ErrRecordNotFound):
		err = fmt.Errorf("record not found: %w", err)

	case errors.Is(err, context.DeadlineExceeded):
		err = fmt.Errorf("timed out: %w", err)

	case errors.Is(err, context.Canceled):
		err = fmt.Errorf("canceled: %w", err)
	}

	return &SinkError{Op: op, Table: table, Err: err}
}
