package handlers

import (
	"net/http/httptest"
	"testing"

	"thywilluche/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestGetGameRejectsMalformedID(t *testing.T) {
	db, mock := newMockDB(t)
	database.SetDB(db)

	app := fiber.New()
	app.Get("/api/games/:id", GetGame)

	// Path segments that are not plain positive integers must 404 without
	// ever reaching the storage layer as query fragments
	paths := []string{
		"/api/games/(id=1)or(true)",
		"/api/games/1or1",
		"/api/games/abc",
		"/api/games/-1",
		"/api/games/0",
	}
	for _, path := range paths {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode, path)
	}

	require.NoError(t, mock.ExpectationsWereMet())
}
