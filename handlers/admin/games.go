// handlers/admin/games.go - game catalog management
package admin

import (
	"encoding/json"
	"log"
	"time"

	"thywilluche/database"
	"thywilluche/middleware"
	"thywilluche/models"
	"thywilluche/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionInput is the admin form's question shape
type QuestionInput struct {
	Type          string          `json:"type" validate:"required,oneof=multiple_choice true_false short_answer"`
	QuestionText  string          `json:"question_text" validate:"required"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer json.RawMessage `json:"correct_answer" validate:"required"`
	Points        int             `json:"points"`
	Order         int             `json:"order"`
}

type RewardRuleInput struct {
	RewardType       string          `json:"reward_type" validate:"required,oneof=badge points discount_code book_credit"`
	RewardValue      json.RawMessage `json:"reward_value"`
	ForWinner        bool            `json:"for_winner"`
	ForParticipation bool            `json:"for_participation"`
}

type CreateGameRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description"`
	Type        string            `json:"type" validate:"required,oneof=quiz writing_challenge puzzle"`
	Difficulty  string            `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Config      json.RawMessage   `json:"config"`
	ExpiresAt   *time.Time        `json:"expires_at"`
	Questions   []QuestionInput   `json:"questions"`
	Rewards     []RewardRuleInput `json:"rewards"`
}

// UpdateGameRequest is a sparse patch: nil means the field was not sent.
// Questions and Rewards, when present, replace the existing sets wholesale.
type UpdateGameRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Type        *string            `json:"type" validate:"omitempty,oneof=quiz writing_challenge puzzle"`
	Difficulty  *string            `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Status      *string            `json:"status" validate:"omitempty,oneof=draft published archived"`
	Config      json.RawMessage    `json:"config"`
	ExpiresAt   *time.Time         `json:"expires_at"`
	Questions   *[]QuestionInput   `json:"questions"`
	Rewards     *[]RewardRuleInput `json:"rewards"`
}

// CreateGame persists a new game in draft status. Quiz questions are
// inserted alongside, preserving the caller-supplied order.
func CreateGame(c *fiber.Ctx) error {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		return utils.Fail(c, 401, "Unauthorized")
	}

	var req CreateGameRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, 400, "Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.Fail(c, 400, err.Error())
	}

	game := models.Game{
		Title:       req.Title,
		Description: req.Description,
		Type:        models.GameType(req.Type),
		Status:      models.GameStatusDraft,
		Config:      datatypes.JSON(req.Config),
		ExpiresAt:   req.ExpiresAt,
		CreatedBy:   adminID,
	}
	if req.Difficulty != "" {
		game.Difficulty = models.GameDifficulty(req.Difficulty)
	} else {
		game.Difficulty = models.DifficultyMedium
	}

	db := database.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&game).Error; err != nil {
			return err
		}
		if game.Type == models.GameTypeQuiz && len(req.Questions) > 0 {
			if err := insertQuestions(tx, game.ID, req.Questions); err != nil {
				return err
			}
		}
		if len(req.Rewards) > 0 {
			if err := insertRewardRules(tx, game.ID, req.Rewards); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Failed to create game: %v", err)
		return utils.Fail(c, 500, "Failed to create game")
	}

	return utils.OK(c, game)
}

// UpdateGame applies a sparse patch. Setting status to published stamps
// published_at. A supplied questions or rewards array deletes and reinserts
// the full set, so question identity is not stable across edits.
func UpdateGame(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.Fail(c, 404, "Game not found")
	}

	var req UpdateGameRequest
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

	updates := BuildGameUpdates(req, time.Now())

	// The patch may omit type; fall back to the stored one
	effectiveType := game.Type
	if req.Type != nil {
		effectiveType = models.GameType(*req.Type)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&game).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Rewards != nil {
			if err := tx.Where("game_id = ?", game.ID).Delete(&models.GameRewardRule{}).Error; err != nil {
				return err
			}
			if err := insertRewardRules(tx, game.ID, *req.Rewards); err != nil {
				return err
			}
		}
		if effectiveType == models.GameTypeQuiz && req.Questions != nil {
			if err := tx.Where("game_id = ?", game.ID).Delete(&models.GameQuestion{}).Error; err != nil {
				return err
			}
			if err := insertQuestions(tx, game.ID, *req.Questions); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Failed to update game %d: %v", game.ID, err)
		return utils.Fail(c, 500, "Failed to update game")
	}

	return utils.OK(c, game)
}

// BuildGameUpdates assembles the sparse update set from a patch request.
// Nil pointers are absent fields; empty strings are explicit values.
func BuildGameUpdates(req UpdateGameRequest, now time.Time) map[string]interface{} {
	updates := map[string]interface{}{}

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Difficulty != nil {
		updates["difficulty"] = *req.Difficulty
	}
	if req.Status != nil {
		updates["status"] = *req.Status
		if *req.Status == string(models.GameStatusPublished) {
			updates["published_at"] = now
		}
	}
	if req.Config != nil {
		updates["config"] = datatypes.JSON(req.Config)
	}
	if req.ExpiresAt != nil {
		updates["expires_at"] = *req.ExpiresAt
	}

	return updates
}

func insertQuestions(tx *gorm.DB, gameID uint, inputs []QuestionInput) error {
	for _, in := range inputs {
		question := models.GameQuestion{
			GameID:        gameID,
			Type:          models.QuestionType(in.Type),
			Text:          in.QuestionText,
			Options:       datatypes.JSON(in.Options),
			CorrectAnswer: datatypes.JSON(in.CorrectAnswer),
			Points:        in.Points,
			Position:      in.Order,
		}
		if question.Points == 0 {
			question.Points = 10
		}
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
	}
	return nil
}

func insertRewardRules(tx *gorm.DB, gameID uint, inputs []RewardRuleInput) error {
	for _, in := range inputs {
		rule := models.GameRewardRule{
			GameID:           gameID,
			RewardType:       models.RewardType(in.RewardType),
			RewardValue:      datatypes.JSON(in.RewardValue),
			ForWinner:        in.ForWinner,
			ForParticipation: in.ForParticipation,
		}
		if err := tx.Create(&rule).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteGame removes a game unconditionally. Questions, reward rules and
// submissions go with it via the storage layer's cascade policy.
func DeleteGame(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.Fail(c, 404, "Game not found")
	}

	db := database.GetDB()

	if err := db.Delete(&models.Game{}, uint(id)).Error; err != nil {
		log.Printf("Failed to delete game %d: %v", id, err)
		return utils.Fail(c, 500, "Failed to delete game")
	}

	return utils.OKMessage(c, "Game deleted successfully")
}

type adminGameRow struct {
	models.Game
	SubmissionCount int64 `json:"submission_count"`
	WinnerCount     int64 `json:"winner_count"`
}

// GetGames returns a page of games with live submission and winner counts,
// filtered by optional status/type and a case-insensitive title/description
// search. Newest-created first.
func GetGames(c *fiber.Ctx) error {
	page, limit, offset := utils.Pagination(c)

	db := database.GetDB()
	query := db.Model(&models.Game{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if gameType := c.Query("type"); gameType != "" {
		query = query.Where("type = ?", gameType)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	query.Count(&total)

	var rows []adminGameRow
	if err := query.
		Select(`games.*,
			(SELECT COUNT(*) FROM submissions s WHERE s.game_id = games.id) AS submission_count,
			(SELECT COUNT(*) FROM submissions s WHERE s.game_id = games.id AND s.is_winner = true) AS winner_count`).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		log.Printf("Failed to fetch games: %v", err)
		return utils.Fail(c, 500, "Failed to fetch games")
	}

	return utils.Paginated(c, rows, total, page, limit)
}

// GetGame returns a single game with its reward rules and, for quizzes, its
// questions in position order reshaped for the admin form.
func GetGame(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.Fail(c, 404, "Game not found")
	}

	db := database.GetDB()

	var game models.Game
	if err := db.First(&game, uint(id)).Error; err != nil {
		return utils.Fail(c, 404, "Game not found")
	}

	var rules []models.GameRewardRule
	if err := db.Where("game_id = ?", game.ID).Find(&rules).Error; err != nil {
		log.Printf("Failed to fetch reward rules for game %d: %v", game.ID, err)
		return utils.Fail(c, 500, "Failed to fetch game")
	}

	payload := fiber.Map{
		"game":    game,
		"rewards": rules,
	}

	if game.Type == models.GameTypeQuiz {
		var questions []models.GameQuestion
		if err := db.Where("game_id = ?", game.ID).Order("position ASC").Find(&questions).Error; err != nil {
			log.Printf("Failed to fetch questions for game %d: %v", game.ID, err)
			return utils.Fail(c, 500, "Failed to fetch game")
		}

		formQuestions := make([]fiber.Map, 0, len(questions))
		for _, q := range questions {
			formQuestions = append(formQuestions, fiber.Map{
				"id":             q.ID,
				"type":           q.Type,
				"question_text":  q.Text,
				"options":        q.Options,
				"correct_answer": q.CorrectAnswer,
				"points":         q.Points,
				"order":          q.Position,
			})
		}
		payload["questions"] = formQuestions
	}

	return utils.OK(c, payload)
}
