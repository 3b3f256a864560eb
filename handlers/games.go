// handlers/games.go - public game catalog
package handlers

import (
	"log"
	"time"

	"thywilluche/database"
	"thywilluche/models"
	"thywilluche/utils"

	"github.com/gofiber/fiber/v2"
)

// GetGames returns published games, newest first
func GetGames(c *fiber.Ctx) error {
	page, limit, offset := utils.Pagination(c)

	db := database.GetDB()
	query := db.Model(&models.Game{}).Where("status = ?", models.GameStatusPublished)

	if gameType := c.Query("type"); gameType != "" {
		query = query.Where("type = ?", gameType)
	}

	var total int64
	query.Count(&total)

	var games []models.Game
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&games).Error; err != nil {
		log.Printf("Failed to fetch games: %v", err)
		return utils.Fail(c, 500, "Failed to fetch games")
	}

	return utils.Paginated(c, games, total, page, limit)
}

// GetGame returns a single published game. Quiz questions are included in
// position order with their correct answers stripped.
func GetGame(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.Fail(c, 404, "Game not found")
	}

	db := database.GetDB()

	var game models.Game
	if err := db.Where("status = ?", models.GameStatusPublished).First(&game, uint(id)).Error; err != nil {
		return utils.Fail(c, 404, "Game not found")
	}

	if game.ExpiresAt != nil && game.ExpiresAt.Before(time.Now()) {
		return utils.Fail(c, 410, "Game has expired")
	}

	payload := fiber.Map{"game": game}

	if game.Type == models.GameTypeQuiz {
		var questions []models.GameQuestion
		if err := db.Where("game_id = ?", game.ID).Order("position ASC").Find(&questions).Error; err != nil {
			log.Printf("Failed to fetch questions for game %d: %v", game.ID, err)
			return utils.Fail(c, 500, "Failed to fetch game")
		}

		public := make([]fiber.Map, 0, len(questions))
		for _, q := range questions {
			public = append(public, fiber.Map{
				"id":       q.ID,
				"type":     q.Type,
				"text":     q.Text,
				"options":  q.Options,
				"points":   q.Points,
				"position": q.Position,
			})
		}
		payload["questions"] = public
	}

	return utils.OK(c, payload)
}
