// models/game.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

// GameType identifies the kind of challenge a game presents
type GameType string

const (
	GameTypeQuiz             GameType = "quiz"
	GameTypeWritingChallenge GameType = "writing_challenge"
	GameTypePuzzle           GameType = "puzzle"
)

type GameDifficulty string

const (
	DifficultyEasy   GameDifficulty = "easy"
	DifficultyMedium GameDifficulty = "medium"
	DifficultyHard   GameDifficulty = "hard"
)

// GameStatus is the publishing lifecycle of a game
type GameStatus string

const (
	GameStatusDraft     GameStatus = "draft"
	GameStatusPublished GameStatus = "published"
	GameStatusArchived  GameStatus = "archived"
)

// Game is an admin-authored challenge (quiz, writing challenge or puzzle).
// Config holds type-specific settings: time limit, word limit, prompt,
// puzzle payload.
type Game struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null;size:200" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Type        GameType       `gorm:"not null;size:30;index" json:"type"`
	Difficulty  GameDifficulty `gorm:"not null;default:'medium';size:20" json:"difficulty"`
	Status      GameStatus     `gorm:"not null;default:'draft';size:20;index" json:"status"`
	Config      datatypes.JSON `gorm:"type:jsonb" json:"config,omitempty"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	CreatedBy   uint           `gorm:"not null;index" json:"created_by"`
	Creator     *User          `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Questions   []GameQuestion   `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	RewardRules []GameRewardRule `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"reward_rules,omitempty"`
	Submissions []Submission     `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"submissions,omitempty"`
}

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionShortAnswer    QuestionType = "short_answer"
)

// GameQuestion belongs to exactly one quiz game. The question set is
// replaced wholesale on every game update, so question ids are not stable
// across edits. CorrectAnswer is a JSON string or array of strings.
type GameQuestion struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	GameID        uint           `gorm:"not null;index" json:"game_id"`
	Type          QuestionType   `gorm:"not null;size:30" json:"type"`
	Text          string         `gorm:"not null;type:text" json:"text"`
	Options       datatypes.JSON `gorm:"type:jsonb" json:"options,omitempty"`
	CorrectAnswer datatypes.JSON `gorm:"type:jsonb" json:"correct_answer"`
	Points        int            `gorm:"default:10" json:"points"`
	Position      int            `gorm:"not null;default:0" json:"position"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (Game) TableName() string {
	return "games"
}

func (GameQuestion) TableName() string {
	return "game_questions"
}
