// database/migrate.go - Database Migration Runner
package database

import (
	"log"
	"thywilluche/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.GameQuestion{},
		&models.GameRewardRule{},
		&models.Submission{},
		&models.Badge{},
		&models.UserBadge{},
		&models.UserPoints{},
		&models.DiscountCode{},
		&models.BookCredit{},
		&models.LeaderboardEntry{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates indexes beyond what the model tags declare
func createIndexes() {
	db := GetDB()

	// Game catalog filters and admin listing order
	db.Exec("CREATE INDEX IF NOT EXISTS idx_games_status_type ON games(status, type)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_games_created ON games(created_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_game_questions_position ON game_questions(game_id, position)")

	// Submission review and winner queries
	db.Exec("CREATE INDEX IF NOT EXISTS idx_submissions_game_winner ON submissions(game_id, is_winner)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_submissions_user_created ON submissions(user_id, created_at DESC)")

	// Ledger aggregation
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_points_user ON user_points(user_id)")

	// Leaderboard standings reads
	db.Exec("CREATE INDEX IF NOT EXISTS idx_leaderboard_points ON leaderboard_entries(total_points DESC)")
}
