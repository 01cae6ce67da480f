package postgres

import (
	"testing"

	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Disable logs during tests
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Integration{},
		&models.CrmRecord{},
		&models.Segment{},
		&models.SegmentMember{},
		&models.EnrichmentJob{},
	)
	require.NoError(t, err)

	return db
}
