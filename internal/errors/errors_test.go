package errors_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perr "github.com/Tysek64/DrugiTinder/internal/errors"
)

func TestMapWrapsIntoSinkError(t *testing.T) {
	err := perr.Map("bulk-load", "swipe", context.Canceled)

	var se *perr.SinkError
	require.True(t, perr.As(err, &se))
	assert.Equal(t, "bulk-load", se.Op)
	assert.Equal(t, "swipe", se.Table)
	assert.True(t, perr.Is(err, context.Canceled))
}

func TestMapKeepsPostgresCode(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}
	err := perr.Map("bulk-load", "ban", pgErr)

	assert.Contains(t, err.Error(), "23503")
	var target *pgconn.PgError
	assert.True(t, perr.As(err, &target))
}

func TestMapNilAndAlreadyMapped(t *testing.T) {
	assert.NoError(t, perr.Map("id-fetch", "user", nil))

	first := perr.Map("id-fetch", "user", fmt.Errorf("boom"))
	second := perr.Map("bulk-load", "other", first)
	assert.Same(t, first, second)
}

func TestStageErrorUnwraps(t *testing.T) {
	cause := &perr.DependencyUnavailableError{Stage: "ban", Pool: "report"}
	err := &perr.StageError{Stage: "ban", Completed: 0, Err: cause}

	var dep *perr.DependencyUnavailableError
	require.True(t, perr.As(err, &dep))
	assert.Equal(t, "report", dep.Pool)
	assert.Contains(t, err.Error(), "stage ban failed after 0 rows")
}
