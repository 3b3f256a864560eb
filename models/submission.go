// models/submission.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission records one entry per (game, user). Uniqueness is not enforced
// at this layer. Winner selection sets IsWinner and stamps the reviewing
// admin; it never unsets previously winning submissions, so winners
// accumulate across calls.
type Submission struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Reference  string         `gorm:"not null;uniqueIndex;size:36" json:"reference"`
	GameID     uint           `gorm:"not null;index" json:"game_id"`
	Game       *Game          `gorm:"foreignKey:GameID" json:"game,omitempty"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	User       *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Answers    datatypes.JSON `gorm:"type:jsonb" json:"answers,omitempty"`
	Score      *int           `json:"score,omitempty"`
	IsWinner   bool           `gorm:"default:false;index" json:"is_winner"`
	ReviewedBy *uint          `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time     `json:"reviewed_at,omitempty"`
	Feedback   string         `gorm:"type:text" json:"feedback,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (Submission) TableName() string {
	return "submissions"
}
