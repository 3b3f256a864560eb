// handlers/submissions.go - player game entries
package handlers

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"time"

	"thywilluche/database"
	"thywilluche/middleware"
	"thywilluche/models"
	"thywilluche/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubmitEntryRequest struct {
	Answers json.RawMessage `json:"answers"`
}

// SubmitEntry records a player's entry for a published game. Quiz entries
// are auto-scored against the stored correct answers; writing challenges and
// puzzles are left unscored for admin review. Nothing prevents a player from
// submitting twice; each call creates a new entry.
func SubmitEntry(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return utils.Fail(c, 401, "Unauthorized")
	}

	gameID, err := c.ParamsInt("id")
	if err != nil || gameID < 1 {
		return utils.Fail(c, 404, "Game not found")
	}

	var req SubmitEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, 400, "Invalid request body")
	}

	db := database.GetDB()

	var game models.Game
	if err := db.First(&game, uint(gameID)).Error; err != nil {
		return utils.Fail(c, 404, "Game not found")
	}
	if game.Status != models.GameStatusPublished {
		return utils.Fail(c, 400, "Game is not open for submissions")
	}
	if game.ExpiresAt != nil && game.ExpiresAt.Before(time.Now()) {
		return utils.Fail(c, 410, "Game has expired")
	}

	submission := models.Submission{
		Reference: uuid.NewString(),
		GameID:    game.ID,
		UserID:    userID,
		Answers:   datatypes.JSON(req.Answers),
	}

	if game.Type == models.GameTypeQuiz {
		var questions []models.GameQuestion
		if err := db.Where("game_id = ?", game.ID).Order("position ASC").Find(&questions).Error; err != nil {
			log.Printf("Failed to fetch questions for game %d: %v", game.ID, err)
			return utils.Fail(c, 500, "Failed to create submission")
		}

		var answers map[string]string
		if err := json.Unmarshal(req.Answers, &answers); err != nil {
			return utils.Fail(c, 400, "Quiz answers must map question ids to answer strings")
		}

		score := ScoreQuiz(questions, answers)
		submission.Score = &score
	}

	if err := db.Create(&submission).Error; err != nil {
		log.Printf("Failed to create submission: %v", err)
		return utils.Fail(c, 500, "Failed to create submission")
	}

	return utils.OK(c, submission)
}

// GetMySubmissions returns the caller's entries, newest first
func GetMySubmissions(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return utils.Fail(c, 401, "Unauthorized")
	}

	page, limit, offset := utils.Pagination(c)

	db := database.GetDB()
	query := db.Model(&models.Submission{}).Where("user_id = ?", userID)

	var total int64
	query.Count(&total)

	var submissions []models.Submission
	if err := query.Preload("Game").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&submissions).Error; err != nil {
		log.Printf("Failed to fetch submissions: %v", err)
		return utils.Fail(c, 500, "Failed to fetch submissions")
	}

	return utils.Paginated(c, submissions, total, page, limit)
}

// ScoreQuiz sums the point values of correctly answered questions. Answers
// are keyed by question id.
func ScoreQuiz(questions []models.GameQuestion, answers map[string]string) int {
	score := 0
	for _, q := range questions {
		given, ok := answers[strconv.FormatUint(uint64(q.ID), 10)]
		if !ok {
			continue
		}
		if AnswerMatches(q, given) {
			score += q.Points
		}
	}
	return score
}

// AnswerMatches checks a given answer against a question's stored correct
// value, which may be a single string or an array of acceptable strings.
// Short answers match case-insensitively; choice answers must match exactly.
func AnswerMatches(q models.GameQuestion, given string) bool {
	accepted := acceptedAnswers(q.CorrectAnswer)
	if len(accepted) == 0 {
		return false
	}

	given = strings.TrimSpace(given)
	for _, want := range accepted {
		want = strings.TrimSpace(want)
		if q.Type == models.QuestionShortAnswer {
			if strings.EqualFold(given, want) {
				return true
			}
		} else if given == want {
			return true
		}
	}
	return false
}

func acceptedAnswers(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}

	return nil
}
