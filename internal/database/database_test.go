package database

import (
	"context"
	"fmt"
	"testing"

	"corkboard/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestConfigurePool(t *testing.T) {
	db := openSQLite(t)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestBuildDSN_DefaultsSSLMode(t *testing.T) {
	dsn := buildDSN("db", "5432", "u", "p", "corkboard", "")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.Contains(t, dsn, "dbname=corkboard")
}

func TestApplySchema_AutoCreatesTables(t *testing.T) {
	db := openSQLite(t)
	cfg := &config.Config{Env: "test", DBSchemaMode: config.SchemaModeAuto}

	require.NoError(t, ApplySchema(context.Background(), db, cfg))
	for _, table := range []string{"users", "boards", "posts"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestApplySchema_NoneLeavesDatabaseAlone(t *testing.T) {
	db := openSQLite(t)
	cfg := &config.Config{Env: "test", DBSchemaMode: config.SchemaModeNone}

	require.NoError(t, ApplySchema(context.Background(), db, cfg))
	assert.False(t, db.Migrator().HasTable("users"))
}

func TestApplySchema_RejectsUnknownMode(t *testing.T) {
	db := openSQLite(t)
	err := ApplySchema(context.Background(), db, &config.Config{DBSchemaMode: "hybrid"})
	assert.Error(t, err)
}

func TestPersistentModels_ReferencedTablesFirst(t *testing.T) {
	names := make([]string, 0)
	for _, m := range PersistentModels() {
		names = append(names, fmt.Sprintf("%T", m))
	}
	assert.Equal(t, []string{"*models.User", "*models.Board", "*models.Post"}, names)
}
