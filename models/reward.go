// models/reward.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

type RewardType string

const (
	RewardBadge        RewardType = "badge"
	RewardPoints       RewardType = "points"
	RewardDiscountCode RewardType = "discount_code"
	RewardBookCredit   RewardType = "book_credit"
)

// GameRewardRule configures one reward granted for a game. RewardValue is a
// type-specific payload: badge_id, points, discount_percentage or
// book_credit_amount. ForWinner and ForParticipation are independent flags;
// each rule is evaluated on its own for every eligible submission.
type GameRewardRule struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	GameID           uint           `gorm:"not null;index" json:"game_id"`
	RewardType       RewardType     `gorm:"not null;size:30" json:"reward_type"`
	RewardValue      datatypes.JSON `gorm:"type:jsonb" json:"reward_value,omitempty"`
	ForWinner        bool           `gorm:"default:false" json:"for_winner"`
	ForParticipation bool           `gorm:"default:false" json:"for_participation"`
	CreatedAt        time.Time      `json:"created_at"`
}

// UserPoints is an append-only ledger entry. A user's total is always the
// sum over this table; it is never stored directly except in the
// denormalized leaderboard snapshot.
type UserPoints struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Points      int       `gorm:"not null" json:"points"`
	Source      string    `gorm:"not null;size:50" json:"source"`
	GameID      *uint     `gorm:"index" json:"game_id,omitempty"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// DiscountCode is a single-use grant. Redemption is handled by the shop
// layer; this service only issues codes.
type DiscountCode struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	Code       string     `gorm:"not null;uniqueIndex;size:40" json:"code"`
	Percentage int        `gorm:"not null;default:10" json:"percentage"`
	GameID     *uint      `json:"game_id,omitempty"`
	ExpiresAt  time.Time  `json:"expires_at"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type BookCredit struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Amount    float64    `gorm:"not null" json:"amount"`
	GameID    *uint      `json:"game_id,omitempty"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (GameRewardRule) TableName() string {
	return "game_reward_rules"
}

func (UserPoints) TableName() string {
	return "user_points"
}

func (DiscountCode) TableName() string {
	return "discount_codes"
}

func (BookCredit) TableName() string {
	return "book_credits"
}
