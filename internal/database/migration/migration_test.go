package migration

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEnsureMigrated(t *testing.T) {
	ctx := context.Background()

	t.Run("schema exists skips steps", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		core, logs := observer.New(zap.InfoLevel)
		mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err = EnsureMigrated(ctx, db, zap.New(core), "db.local")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Equal(t, 1, logs.FilterMessage("db_migration_skip").Len())
	})

	t.Run("missing schema runs every step", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		core, logs := observer.New(zap.InfoLevel)
		mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		for _, step := range steps {
			mock.ExpectExec(regexp.QuoteMeta(step.SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
		}

		err = EnsureMigrated(ctx, db, zap.New(core), "db.local")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Equal(t, len(steps), logs.FilterMessage("db_migration_step").Len())
		assert.Equal(t, 1, logs.FilterMessage("db_migration_success").Len())
	})

	t.Run("sentinel query error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).WillReturnError(errors.New("conn refused"))

		err = EnsureMigrated(ctx, db, zap.NewNop(), "db.local")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to check sentinel table: conn refused")
	})

	t.Run("step error stops the run", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		core, logs := observer.New(zap.InfoLevel)
		mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(regexp.QuoteMeta(steps[0].SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(steps[1].SQL)).WillReturnError(errors.New("permission denied"))

		err = EnsureMigrated(ctx, db, zap.New(core), "db.local")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "migration step create_table_stories failed")
		assert.NoError(t, mock.ExpectationsWereMet())

		failed := logs.FilterMessage("db_migration_failed").All()
		require.Len(t, failed, 1)
		assert.Equal(t, "create_table_stories", failed[0].ContextMap()["migration_step"])
	})
}
