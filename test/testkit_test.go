package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"ripple/internal/config"
	"ripple/internal/database"
	"ripple/internal/models"
	"ripple/internal/seed"
	"ripple/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "e2e-test-secret"

var dbSerial atomic.Int64

// testEnv bundles a running in-memory stack for one test.
type testEnv struct {
	app     *fiber.App
	db      *gorm.DB
	factory *seed.Factory
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	// Named shared-cache DSN so every pooled connection sees the same
	// in-memory database.
	dsn := fmt.Sprintf("file:e2e_%d?mode=memory&cache=shared", dbSerial.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret: testJWTSecret,
		Port:      "0",
		Env:       "test",
	}

	srv, err := server.NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	return &testEnv{
		app:     app,
		db:      db,
		factory: seed.NewFactory(db, seed.Options{SkipBcrypt: true, RandomSeed: 1}),
	}
}

// createUser persists a user with a fixed username.
func (e *testEnv) createUser(t *testing.T, username string, staff bool) *models.User {
	t.Helper()
	user, err := e.factory.CreateUser(func(u *models.User) {
		u.Username = username
		u.Email = username + "@example.com"
		u.IsStaff = staff
	})
	require.NoError(t, err)
	return user
}

// tokenFor mints a signed JWT the auth middleware accepts.
func tokenFor(t *testing.T, userID uint) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

// do performs a request against the app, optionally authenticated, with an
// optional JSON body.
func (e *testEnv) do(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decode reads the response body as JSON into out and closes it.
func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
