// handlers/admin/submissions.go - entry review, winner selection, reward dispatch
package admin

import (
	"log"

	"thywilluche/database"
	"thywilluche/middleware"
	"thywilluche/models"
	"thywilluche/services"
	"thywilluche/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SelectWinnersRequest struct {
	SubmissionIDs []uint `json:"submission_ids" validate:"required,min=1"`
}

type AwardRewardsRequest struct {
	SubmissionIDs   []uint `json:"submission_ids"`
	IsParticipation bool   `json:"is_participation"`
}

// GetGameSubmissions lists every entry for a game, newest first
func GetGameSubmissions(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.Fail(c, 404, "Game not found")
	}

	page, limit, offset := utils.Pagination(c)

	db := database.GetDB()

	var game models.Game
	if err := db.First(&game, uint(id)).Error; err != nil {
		return utils.Fail(c, 404, "Game not found")
	}

	query := db.Model(&models.Submission{}).Where("game_id = ?", game.ID)

	if winners := c.Query("winners"); winners == "true" {
		query = query.Where("is_winner = ?", true)
	}

	var total int64
	query.Count(&total)

	var submissions []models.Submission
	if err := query.Preload("User").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&submissions).Error; err != nil {
		log.Printf("Failed to fetch submissions for game %d: %v", game.ID, err)
		return utils.Fail(c, 500, "Failed to fetch submissions")
	}

	return utils.Paginated(c, submissions, total, page, limit)
}

// SelectWinners marks the given submissions as winners and grants every
// winner-facing reward rule, all in one transaction. A second call for the
// same submissions grants the rewards again; winner selection is an
// explicit admin act, not a toggle.
func SelectWinners(c *fiber.Ctx) error {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		return utils.Fail(c, 401, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.Fail(c, 404, "Game not found")
	}

	var req SelectWinnersRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, 400, "Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.Fail(c, 400, err.Error())
	}

	db := database.GetDB()

	var game models.Game
	if err := db.First(&game, uint(id)).Error; err != nil {
		return utils.Fail(c, 404, "Game not found")
	}

	marked, granted, err := services.SelectWinners(db, game.ID, req.SubmissionIDs, adminID)
	if err != nil {
		log.Printf("Failed to select winners for game %d: %v", game.ID, err)
		return utils.Fail(c, 500, "Failed to select winners")
	}

	services.GetLeaderboardService().RequestRefresh()

	return utils.OK(c, fiber.Map{
		"winners_marked":  marked,
		"rewards_granted": granted,
	})
}

// AwardRewards grants a game's reward rules outside the winner flow. With
// is_participation set it targets participation rules across all entries
// (or the listed ones); without it, winner rules for the listed entries.
func AwardRewards(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.Fail(c, 404, "Game not found")
	}

	var req AwardRewardsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, 400, "Invalid request body")
	}

	db := database.GetDB()

	var game models.Game
	if err := db.First(&game, uint(id)).Error; err != nil {
		return utils.Fail(c, 404, "Game not found")
	}

	var granted int
	err = db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		granted, txErr = services.AwardRewards(tx, game.ID, req.SubmissionIDs, req.IsParticipation)
		return txErr
	})
	if err != nil {
		log.Printf("Failed to award rewards for game %d: %v", game.ID, err)
		return utils.Fail(c, 500, "Failed to award rewards")
	}

	services.GetLeaderboardService().RequestRefresh()

	return utils.OK(c, fiber.Map{
		"rewards_granted": granted,
	})
}
