package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quorum/internal/config"
	"quorum/internal/database"
	"quorum/internal/middleware"
	"quorum/internal/models"
)

const testJWTSecret = "test-secret-key-for-handler-tests"

func testConfig() *config.Config {
	return &config.Config{
		Env:                  "test",
		Port:                 "8460",
		JWTSecret:            testJWTSecret,
		DBDriver:             "sqlite",
		RateLimitWindowMS:    60000,
		RateLimitMaxRequests: 1000,
	}
}

// newTestServer wires a full server against a fresh in-memory database
// with Redis disabled.
func newTestServer(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	return newTestServerWithConfig(t, testConfig())
}

func newTestServerWithConfig(t *testing.T, cfg *config.Config) (*fiber.App, *gorm.DB) {
	t.Helper()
	middleware.InitMiddleware(cfg)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)
	return app, db
}

func bearerToken(t *testing.T, userID uint) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, auth string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, dest))
}

func seedTestUser(t *testing.T, db *gorm.DB, username string, admin bool) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", IsAdmin: admin}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTestCommunity(t *testing.T, db *gorm.DB, name, slug string) *models.Community {
	t.Helper()
	community := &models.Community{Name: name, Slug: slug, CreatedBy: 1}
	require.NoError(t, db.Create(community).Error)
	return community
}

func seedTestThread(t *testing.T, db *gorm.DB, userID, communityID uint, title string) *models.Thread {
	t.Helper()
	thread := &models.Thread{UserID: userID, CommunityID: communityID, Title: title, Content: "body"}
	require.NoError(t, db.Create(thread).Error)
	return thread
}
