package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t.Run("applies schema", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, Migrate(context.Background(), db))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps failures", func(t *testing.T) {
		mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))

		err := Migrate(context.Background(), db)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "apply schema")
	})
}

func TestOpenPostgres_RequiresDSN(t *testing.T) {
	_, err := OpenPostgres("")
	require.Error(t, err)
}
