// handlers/admin/badges.go - badge catalog management
package admin

import (
	"encoding/json"
	"log"
	"strings"

	"thywilluche/database"
	"thywilluche/models"
	"thywilluche/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

type CreateBadgeRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description"`
	Icon        string          `json:"icon" validate:"max=100"`
	Type        string          `json:"type" validate:"required,oneof=game_winner participation streak milestone"`
	Rarity      string          `json:"rarity" validate:"omitempty,oneof=common rare epic legendary"`
	Criteria    json.RawMessage `json:"criteria"`
}

type UpdateBadgeRequest struct {
	Name        *string         `json:"name" validate:"omitempty,max=100"`
	Description *string         `json:"description"`
	Icon        *string         `json:"icon" validate:"omitempty,max=100"`
	Type        *string         `json:"type" validate:"omitempty,oneof=game_winner participation streak milestone"`
	Rarity      *string         `json:"rarity" validate:"omitempty,oneof=common rare epic legendary"`
	Criteria    json.RawMessage `json:"criteria"`
}

// CreateBadge adds a badge definition. Names are unique across the catalog.
func CreateBadge(c *fiber.Ctx) error {
	var req CreateBadgeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, 400, "Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.Fail(c, 400, err.Error())
	}

	db := database.GetDB()

	var existing models.Badge
	if err := db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return utils.Fail(c, 409, "Badge name already exists")
	}

	badge := models.Badge{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Type:        models.BadgeType(req.Type),
		Rarity:      models.RarityCommon,
		Criteria:    datatypes.JSON(req.Criteria),
	}
	if req.Rarity != "" {
		badge.Rarity = models.BadgeRarity(req.Rarity)
	}

	if err := db.Create(&badge).Error; err != nil {
		log.Printf("Failed to create badge: %v", err)
		return utils.Fail(c, 500, "Failed to create badge")
	}

	return utils.OK(c, badge)
}

// UpdateBadge applies a sparse patch to a badge definition
func UpdateBadge(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.Fail(c, 404, "Badge not found")
	}

	var req UpdateBadgeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, 400, "Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.Fail(c, 400, err.Error())
	}

	db := database.GetDB()

	var badge models.Badge
	if err := db.First(&badge, uint(id)).Error; err != nil {
		return utils.Fail(c, 404, "Badge not found")
	}

	updates := BuildBadgeUpdates(req)
	if len(updates) > 0 {
		if err := db.Model(&badge).Updates(updates).Error; err != nil {
			if strings.Contains(err.Error(), "duplicate") {
				return utils.Fail(c, 409, "Badge name already exists")
			}
			log.Printf("Failed to update badge %d: %v", badge.ID, err)
			return utils.Fail(c, 500, "Failed to update badge")
		}
	}

	return utils.OK(c, badge)
}

// BuildBadgeUpdates assembles the sparse update set from a patch request
func BuildBadgeUpdates(req UpdateBadgeRequest) map[string]interface{} {
	updates := map[string]interface{}{}

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Rarity != nil {
		updates["rarity"] = *req.Rarity
	}
	if req.Criteria != nil {
		updates["criteria"] = datatypes.JSON(req.Criteria)
	}

	return updates
}

// DeleteBadge removes a badge definition. Already-awarded user badges keep
// their rows with the badge detached; history is never rewritten.
func DeleteBadge(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.Fail(c, 404, "Badge not found")
	}

	db := database.GetDB()

	if err := db.Delete(&models.Badge{}, uint(id)).Error; err != nil {
		log.Printf("Failed to delete badge %d: %v", id, err)
		return utils.Fail(c, 500, "Failed to delete badge")
	}

	return utils.OKMessage(c, "Badge deleted successfully")
}

type adminBadgeRow struct {
	models.Badge
	UsageCount int64 `json:"usage_count"`
}

// GetBadges lists badge definitions with how often each has been awarded,
// filtered by optional type/rarity and a name/description search.
func GetBadges(c *fiber.Ctx) error {
	page, limit, offset := utils.Pagination(c)

	db := database.GetDB()
	query := db.Model(&models.Badge{})

	if badgeType := c.Query("type"); badgeType != "" {
		query = query.Where("type = ?", badgeType)
	}
	if rarity := c.Query("rarity"); rarity != "" {
		query = query.Where("rarity = ?", rarity)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	query.Count(&total)

	var rows []adminBadgeRow
	if err := query.
		Select(`badges.*,
			(SELECT COUNT(*) FROM user_badges ub WHERE ub.badge_id = badges.id) AS usage_count`).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		log.Printf("Failed to fetch badges: %v", err)
		return utils.Fail(c, 500, "Failed to fetch badges")
	}

	return utils.Paginated(c, rows, total, page, limit)
}
