// models/user.go
package models

import (
	"time"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"uniqueIndex;not null" json:"username"`
	Email       *string   `gorm:"uniqueIndex" json:"email,omitempty"`
	Password    string    `gorm:"not null" json:"-"`
	DisplayName string    `json:"display_name"`
	Avatar      string    `json:"avatar"`
	IsAdmin     bool      `gorm:"default:false" json:"is_admin"`
	IsBanned    bool      `gorm:"default:false" json:"is_banned"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	LastLogin   time.Time `json:"last_login"`

	Submissions []Submission `gorm:"foreignKey:UserID" json:"submissions,omitempty"`
	Badges      []UserBadge  `gorm:"foreignKey:UserID" json:"badges,omitempty"`
}

func (User) TableName() string {
	return "users"
}
