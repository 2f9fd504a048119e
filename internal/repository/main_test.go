package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quorum/internal/database"
	"quorum/internal/models"
)

// setupTestDB opens a fresh in-memory database per test with the full
// schema migrated. A single connection keeps concurrent tests serialized
// at the pool instead of tripping sqlite's table locks.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCommunity(t *testing.T, db *gorm.DB, name, slug string) *models.Community {
	t.Helper()
	community := &models.Community{Name: name, Slug: slug, CreatedBy: 1}
	require.NoError(t, db.Create(community).Error)
	return community
}

func seedThread(t *testing.T, db *gorm.DB, userID, communityID uint, title string) *models.Thread {
	t.Helper()
	thread := &models.Thread{UserID: userID, CommunityID: communityID, Title: title, Content: "body"}
	require.NoError(t, db.Create(thread).Error)
	return thread
}

func seedComment(t *testing.T, db *gorm.DB, userID, threadID uint, parentID *uint, content string) *models.Comment {
	t.Helper()
	comment := &models.Comment{UserID: userID, ThreadID: threadID, ParentID: parentID, Content: content}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
