// models/leaderboard.go
package models

import "time"

// LeaderboardEntry is a denormalized per-user snapshot, fully derived from
// the points ledger and submission history. It always equals the result of
// the last full recomputation; it is refreshed on demand, not kept
// continuously consistent.
type LeaderboardEntry struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	UserID             uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	User               *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TotalPoints        int        `gorm:"default:0" json:"total_points"`
	TotalWins          int        `gorm:"default:0" json:"total_wins"`
	TotalParticipation int        `gorm:"default:0" json:"total_participation"`
	LastActivityAt     *time.Time `json:"last_activity_at,omitempty"`
	Rank               int        `gorm:"default:0;index" json:"rank"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (LeaderboardEntry) TableName() string {
	return "leaderboard_entries"
}
