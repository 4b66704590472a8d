// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"testing"

	"github.com/bluelog/core/internal/config"
	"github.com/bluelog/core/internal/database"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Open returns a migrated in-memory sqlite database closed at test cleanup.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := config.Default(config.EnvTesting)
	db, err := database.Connect(cfg, zap.NewNop(), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
