package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/recordsdesk/triage/internal/shared/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func TestGooseStrategy_UpAndDown(t *testing.T) {
	gdb := openSQLite(t)
	s, err := NewGooseStrategy("sqlite", logger.NewNopLogger())
	require.NoError(t, err)

	require.NoError(t, s.Migrate(gdb))
	version, err := s.GetVersion(gdb)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
	for _, table := range []string{"assignments", "staff_profiles", "escalation_events", "sla_configs", "audit_entries", "notification_intents"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}

	require.NoError(t, s.Migrate(gdb), "re-running is a no-op")

	assert.True(t, gdb.Migrator().HasColumn("escalation_events", "resolution_notes"))

	require.NoError(t, s.MigrateDown(gdb, 1))
	version, err = s.GetVersion(gdb)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.False(t, gdb.Migrator().HasColumn("escalation_events", "resolution_notes"))

	require.NoError(t, s.MigrateDown(gdb, 1))
	version, err = s.GetVersion(gdb)
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, gdb.Migrator().HasTable("assignments"))
}

func TestNewManager(t *testing.T) {
	m, err := NewManager("sqlite", true, logger.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, "gorm_auto_migrate", m.GetStrategy().GetName())

	gdb := openSQLite(t)
	require.NoError(t, m.Migrate(gdb))
	assert.True(t, gdb.Migrator().HasTable("assignments"))

	_, err = NewManager("oracle", false, logger.NewNopLogger())
	assert.Error(t, err)
}
