package admin

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

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

func strPtr(s string) *string { return &s }

func TestBuildGameUpdates(t *testing.T) {
	now := time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)

	t.Run("EmptyPatch", func(t *testing.T) {
		updates := BuildGameUpdates(UpdateGameRequest{}, now)
		assert.Empty(t, updates)
	})

	t.Run("OnlySentFieldsIncluded", func(t *testing.T) {
		updates := BuildGameUpdates(UpdateGameRequest{
			Title: strPtr("Spring Trivia"),
		}, now)

		assert.Equal(t, map[string]interface{}{"title": "Spring Trivia"}, updates)
	})

	t.Run("ExplicitEmptyStringIsAnUpdate", func(t *testing.T) {
		updates := BuildGameUpdates(UpdateGameRequest{
			Description: strPtr(""),
		}, now)

		require.Contains(t, updates, "description")
		assert.Equal(t, "", updates["description"])
	})

	t.Run("PublishingStampsPublishedAt", func(t *testing.T) {
		updates := BuildGameUpdates(UpdateGameRequest{
			Status: strPtr("published"),
		}, now)

		assert.Equal(t, "published", updates["status"])
		assert.Equal(t, now, updates["published_at"])
	})

	t.Run("ArchivingDoesNotStampPublishedAt", func(t *testing.T) {
		updates := BuildGameUpdates(UpdateGameRequest{
			Status: strPtr("archived"),
		}, now)

		assert.Equal(t, "archived", updates["status"])
		assert.NotContains(t, updates, "published_at")
	})

	t.Run("ExpiryPatch", func(t *testing.T) {
		expires := now.Add(72 * time.Hour)
		updates := BuildGameUpdates(UpdateGameRequest{
			ExpiresAt: &expires,
		}, now)

		assert.Equal(t, expires, updates["expires_at"])
	})
}

func TestDeleteGame(t *testing.T) {
	db, mock := newMockDB(t)
	database.SetDB(db)

	app := fiber.New()
	app.Delete("/games/:id", DeleteGame)

	t.Run("MalformedIDNeverReachesStorage", func(t *testing.T) {
		paths := []string{
			"/games/(id=1)or(true)",
			"/games/(true)",
			"/games/abc",
		}
		for _, path := range paths {
			resp, err := app.Test(httptest.NewRequest("DELETE", path, nil))
			require.NoError(t, err)
			assert.Equal(t, 404, resp.StatusCode, path)
		}
	})

	t.Run("DeletesByNumericID", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM "games" WHERE "games"\."id" = \$1`).
			WithArgs(uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		resp, err := app.Test(httptest.NewRequest("DELETE", "/games/7", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateGameReplacesQuestionsWholesale(t *testing.T) {
	db, mock := newMockDB(t)
	database.SetDB(db)

	app := fiber.New()
	app.Put("/games/:id", UpdateGame)

	mock.ExpectQuery(`SELECT \* FROM "games" WHERE "games"\."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "type", "status"}).
			AddRow(5, "Spring Trivia", "quiz", "draft"))

	// A supplied questions array drops the old set and reinserts the new
	// one, both inside the same transaction
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "game_questions" WHERE game_id = \$1`).
		WithArgs(uint(5)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(`INSERT INTO "game_questions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery(`INSERT INTO "game_questions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	body := `{"questions":[
		{"type":"multiple_choice","question_text":"First?","correct_answer":"A","points":5,"order":1},
		{"type":"short_answer","question_text":"Second?","correct_answer":"Gatsby","order":2}
	]}`
	req := httptest.NewRequest("PUT", "/games/5", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	require.NoError(t, mock.ExpectationsWereMet())
}
