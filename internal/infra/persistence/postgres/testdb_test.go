package postgres

import (
	"log/slog"
	"testing"

	"shopcart/config"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)

	db = configureSession(db, slog.New(slog.DiscardHandler), &config.Config{})
	require.NoError(t, AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
