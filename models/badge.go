// models/badge.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

type BadgeType string

const (
	BadgeGameWinner    BadgeType = "game_winner"
	BadgeParticipation BadgeType = "participation"
	BadgeStreak        BadgeType = "streak"
	BadgeMilestone     BadgeType = "milestone"
)

type BadgeRarity string

const (
	RarityCommon    BadgeRarity = "common"
	RarityRare      BadgeRarity = "rare"
	RarityEpic      BadgeRarity = "epic"
	RarityLegendary BadgeRarity = "legendary"
)

// Badge is an admin-authored achievement definition. Criteria is stored but
// never evaluated by this service; awarding is driven by reward rules and
// manual admin action.
type Badge struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;uniqueIndex;size:100" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Icon        string         `gorm:"size:100" json:"icon"`
	Type        BadgeType      `gorm:"not null;size:30;index" json:"type"`
	Rarity      BadgeRarity    `gorm:"not null;default:'common';size:20;index" json:"rarity"`
	Criteria    datatypes.JSON `gorm:"type:jsonb" json:"criteria,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// UserBadge grants a badge to a user, optionally tagged with the game that
// triggered it. Append-only: awarding the same badge twice creates two rows.
// BadgeID is nullable so deleting a badge definition detaches its grants
// instead of blocking the delete; award history is never rewritten.
type UserBadge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	BadgeID   *uint     `gorm:"index" json:"badge_id,omitempty"`
	Badge     *Badge    `gorm:"foreignKey:BadgeID;constraint:OnDelete:SET NULL" json:"badge,omitempty"`
	GameID    *uint     `gorm:"index" json:"game_id,omitempty"`
	AwardedAt time.Time `json:"awarded_at"`
}

func (Badge) TableName() string {
	return "badges"
}

func (UserBadge) TableName() string {
	return "user_badges"
}
