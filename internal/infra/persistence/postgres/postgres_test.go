package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	deliverycontext "shopcart/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestPoolWaitReport(t *testing.T) {
	prev := sql.DBStats{WaitCount: 3, WaitDuration: 10 * time.Millisecond}

	_, _, ok := poolWaitReport(prev, prev)
	assert.False(t, ok)

	attrs, level, ok := poolWaitReport(prev, sql.DBStats{WaitCount: 5, WaitDuration: 20 * time.Millisecond})
	assert.True(t, ok)
	assert.Equal(t, slog.LevelDebug, level)
	assert.NotEmpty(t, attrs)

	_, level, ok = poolWaitReport(prev, sql.DBStats{WaitCount: 4, WaitDuration: 100 * time.Millisecond})
	assert.True(t, ok)
	assert.Equal(t, slog.LevelWarn, level)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN(":memory:"))
	assert.Equal(t, "cart.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("cart.db"))
	assert.Equal(t, "cart.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("cart.db?mode=rwc"))
}

func TestGormSlogLogger_TagsCaller(t *testing.T) {
	var buf bytes.Buffer
	l := &gormSlogLogger{
		logger: slog.New(slog.NewJSONHandler(&buf, nil)),
		level:  logger.Warn,
	}

	l.Error(context.Background(), "anonymous %d", 1)
	assert.Contains(t, buf.String(), "anonymous 1")
	assert.NotContains(t, buf.String(), "user_id")

	buf.Reset()
	userID := uuid.New()
	l.Error(deliverycontext.WithUserID(context.Background(), userID), "caller %d", 2)
	assert.Contains(t, buf.String(), "caller 2")
	assert.Contains(t, buf.String(), `"user_id":"`+userID.String()+`"`)
}
