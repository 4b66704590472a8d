package database

import (
	"context"
	"testing"
	"time"

	"github.com/bluelog/core/internal/config"
	"github.com/bluelog/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Connect(config.Default(config.EnvTesting), zap.NewNop(), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestConnectMigratesAllTables(t *testing.T) {
	db := openTestDB(t)
	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestResetDropsRows(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.CategoryModel{Name: models.DefaultCategoryName}).Error)

	require.NoError(t, Reset(db))

	var count int64
	require.NoError(t, db.Model(&models.CategoryModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDuplicateNameTranslatesError(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.CategoryModel{Name: "Go"}).Error)
	err := db.Create(&models.CategoryModel{Name: "Go"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestLoggerReportsSlowQueries(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewLogger(zap.New(core), time.Millisecond).LogMode(logger.Silent)

	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) { return "SELECT 1", 1 }, nil)
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 2", 1 }, nil)

	entries := logs.FilterMessage("Slow query").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
}
