// Package sqlitetest opens throwaway SQLite databases carrying the production schema.
package sqlitetest

import (
	"path/filepath"
	"testing"
	"time"

	"eatery/internal/infra/persistence/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a migrated database in a temporary directory. It is closed on test cleanup.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "eatery.db") +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(model.All()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}
