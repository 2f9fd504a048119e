package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quorum/internal/database"
	"quorum/internal/models"
)

func TestSeeder_Seed(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	s := NewSeeder(db)
	require.NoError(t, s.Seed(Options{NumUsers: 10, NumThreads: 20, Clean: true}))

	var userCount, threadCount, communityCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Thread{}).Count(&threadCount).Error)
	require.NoError(t, db.Model(&models.Community{}).Count(&communityCount).Error)
	assert.EqualValues(t, 10, userCount)
	assert.EqualValues(t, 20, threadCount)
	assert.EqualValues(t, len(communityNames), communityCount)

	// No (user, target) pair may hold more than one vote.
	var dupes int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM (
		SELECT user_id FROM votes
		GROUP BY user_id, target_type, target_id
		HAVING COUNT(*) > 1
	) d`).Scan(&dupes).Error)
	assert.Zero(t, dupes)

	// Seeding again with Clean resets instead of conflicting.
	require.NoError(t, s.Seed(Options{NumUsers: 5, NumThreads: 5, Clean: true}))
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.EqualValues(t, 5, userCount)
}
