// services/rewards.go - reward dispenser for the gamification pipeline
package services

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"time"

	"thywilluche/models"

	"gorm.io/gorm"
)

const (
	discountDefaultPercentage = 10
	discountCodeValidity      = 30 * 24 * time.Hour
	bookCreditValidity        = 90 * 24 * time.Hour
)

// RewardValue is the type-specific payload stored on a reward rule.
type RewardValue struct {
	BadgeID            *uint    `json:"badge_id,omitempty"`
	Points             *int     `json:"points,omitempty"`
	DiscountPercentage *int     `json:"discount_percentage,omitempty"`
	BookCreditAmount   *float64 `json:"book_credit_amount,omitempty"`
}

// ParseRewardValue decodes a rule's payload. An empty or malformed payload
// yields a zero value, which makes every branch a no-op.
func ParseRewardValue(raw []byte) RewardValue {
	var v RewardValue
	if len(raw) == 0 {
		return v
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Printf("Malformed reward value payload: %v", err)
	}
	return v
}

// SubmissionEligible reports whether a submission qualifies for rewards.
// Participation awards cover every submission; winner awards require the
// winner flag.
func SubmissionEligible(sub models.Submission, isParticipation bool) bool {
	if isParticipation {
		return true
	}
	return sub.IsWinner
}

// RuleApplies reports whether a rule's flag matches the award mode.
func RuleApplies(rule models.GameRewardRule, isParticipation bool) bool {
	if isParticipation {
		return rule.ForParticipation
	}
	return rule.ForWinner
}

// DiscountPercentage returns the configured percentage or the default.
func DiscountPercentage(v RewardValue) int {
	if v.DiscountPercentage != nil && *v.DiscountPercentage > 0 {
		return *v.DiscountPercentage
	}
	return discountDefaultPercentage
}

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateDiscountCode produces a code of the form
// DISCOUNT<unix-timestamp><5 random base36 chars>.
func GenerateDiscountCode(now time.Time) string {
	suffix := make([]byte, 5)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(base36Alphabet))))
		if err != nil {
			// crypto/rand failure is not recoverable here; fall back to a
			// timestamp-derived character so the code stays well-formed
			suffix[i] = base36Alphabet[now.UnixNano()%int64(len(base36Alphabet))]
			continue
		}
		suffix[i] = base36Alphabet[n.Int64()]
	}
	return fmt.Sprintf("DISCOUNT%d%s", now.Unix(), string(suffix))
}

// MarkWinners flags the given submissions of a game as winners, stamping the
// acting admin and time. Submissions of other games are ignored. Previously
// winning submissions are never unset; winners accumulate across calls.
func MarkWinners(tx *gorm.DB, gameID uint, submissionIDs []uint, adminID uint) (int64, error) {
	now := time.Now()
	res := tx.Model(&models.Submission{}).
		Where("game_id = ? AND id IN ?", gameID, submissionIDs).
		Updates(map[string]interface{}{
			"is_winner":   true,
			"reviewed_by": adminID,
			"reviewed_at": now,
		})
	return res.RowsAffected, res.Error
}

// AwardRewards evaluates every reward rule of a game against the target
// submissions and grants badges, points, discount codes and book credits to
// qualifying users. When submissionIDs is empty, all submissions of the game
// are targeted.
//
// Grants are append-only with no idempotence guard: re-running this for the
// same submissions duplicates every grant. Callers own not double-awarding.
func AwardRewards(tx *gorm.DB, gameID uint, submissionIDs []uint, isParticipation bool) (int, error) {
	var rules []models.GameRewardRule
	if err := tx.Where("game_id = ?", gameID).Find(&rules).Error; err != nil {
		return 0, err
	}
	if len(rules) == 0 {
		return 0, nil
	}

	query := tx.Where("game_id = ?", gameID)
	if len(submissionIDs) > 0 {
		query = query.Where("id IN ?", submissionIDs)
	}
	var submissions []models.Submission
	if err := query.Find(&submissions).Error; err != nil {
		return 0, err
	}

	granted := 0
	for _, sub := range submissions {
		if !SubmissionEligible(sub, isParticipation) {
			continue
		}
		for _, rule := range rules {
			if !RuleApplies(rule, isParticipation) {
				continue
			}
			n, err := applyRule(tx, rule, sub, isParticipation)
			if err != nil {
				return granted, err
			}
			granted += n
		}
	}

	return granted, nil
}

func applyRule(tx *gorm.DB, rule models.GameRewardRule, sub models.Submission, isParticipation bool) (int, error) {
	value := ParseRewardValue(rule.RewardValue)
	gameID := sub.GameID
	now := time.Now()

	switch rule.RewardType {
	case models.RewardBadge:
		if value.BadgeID == nil {
			return 0, nil
		}
		grant := models.UserBadge{
			UserID:    sub.UserID,
			BadgeID:   value.BadgeID,
			GameID:    &gameID,
			AwardedAt: now,
		}
		if err := tx.Create(&grant).Error; err != nil {
			return 0, err
		}
		return 1, nil

	case models.RewardPoints:
		if value.Points == nil {
			return 0, nil
		}
		description := "Points for winning a game"
		if isParticipation {
			description = "Points for participating in a game"
		}
		entry := models.UserPoints{
			UserID:      sub.UserID,
			Points:      *value.Points,
			Source:      "game_win",
			GameID:      &gameID,
			Description: description,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return 0, err
		}
		return 1, nil

	case models.RewardDiscountCode:
		code := models.DiscountCode{
			UserID:     sub.UserID,
			Code:       GenerateDiscountCode(now),
			Percentage: DiscountPercentage(value),
			GameID:     &gameID,
			ExpiresAt:  now.Add(discountCodeValidity),
		}
		if err := tx.Create(&code).Error; err != nil {
			return 0, err
		}
		return 1, nil

	case models.RewardBookCredit:
		if value.BookCreditAmount == nil {
			return 0, nil
		}
		credit := models.BookCredit{
			UserID:    sub.UserID,
			Amount:    *value.BookCreditAmount,
			GameID:    &gameID,
			ExpiresAt: now.Add(bookCreditValidity),
		}
		if err := tx.Create(&credit).Error; err != nil {
			return 0, err
		}
		return 1, nil
	}

	return 0, nil
}

// SelectWinners marks submissions as winners and grants winner rewards in a
// single transaction, so a reward failure rolls back the winner flags too.
// The leaderboard snapshot is refreshed separately after commit.
func SelectWinners(db *gorm.DB, gameID uint, submissionIDs []uint, adminID uint) (int64, int, error) {
	var marked int64
	var granted int

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		marked, err = MarkWinners(tx, gameID, submissionIDs, adminID)
		if err != nil {
			return err
		}
		granted, err = AwardRewards(tx, gameID, submissionIDs, false)
		return err
	})
	if err != nil {
		return 0, 0, err
	}

	return marked, granted, nil
}
