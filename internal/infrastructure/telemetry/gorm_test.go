package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type broth struct {
	ID   uint
	Name string
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&broth{}))
	return db
}

func TestInstrumentGorm_LogsSlowQueries(t *testing.T) {
	db := openDB(t)
	core, logs := observer.New(zapcore.WarnLevel)
	require.NoError(t, InstrumentGorm(db, "ramen", time.Nanosecond, zap.New(core)))

	require.NoError(t, db.Create(&broth{Name: "shoyu"}).Error)
	var got broth
	require.NoError(t, db.First(&got).Error)
	assert.Equal(t, "shoyu", got.Name)

	slow := logs.FilterMessage("Slow query").All()
	require.NotEmpty(t, slow)
	assert.Equal(t, "broths", slow[0].ContextMap()["table"])
}

func TestInstrumentGorm_FastQueriesAreQuiet(t *testing.T) {
	db := openDB(t)
	core, logs := observer.New(zapcore.WarnLevel)
	require.NoError(t, InstrumentGorm(db, "ramen", time.Hour, zap.New(core)))

	require.NoError(t, db.Create(&broth{Name: "miso"}).Error)
	assert.Zero(t, logs.Len())
}
