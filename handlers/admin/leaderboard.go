// handlers/admin/leaderboard.go
package admin

import (
	"log"

	"thywilluche/database"
	"thywilluche/services"
	"thywilluche/utils"

	"github.com/gofiber/fiber/v2"
)

// RefreshLeaderboard recomputes the standings snapshot synchronously so the
// admin sees the result of the rebuild before the response returns.
func RefreshLeaderboard(c *fiber.Ctx) error {
	if err := services.RecomputeLeaderboard(database.GetDB()); err != nil {
		log.Printf("Failed to refresh leaderboard: %v", err)
		return utils.Fail(c, 500, "Failed to refresh leaderboard")
	}

	return utils.OKMessage(c, "Leaderboard refreshed successfully")
}
