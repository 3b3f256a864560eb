package services

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"thywilluche/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestSubmissionEligible(t *testing.T) {
	winner := models.Submission{IsWinner: true}
	loser := models.Submission{IsWinner: false}

	t.Run("WinnerMode", func(t *testing.T) {
		assert.True(t, SubmissionEligible(winner, false))
		assert.False(t, SubmissionEligible(loser, false))
	})

	t.Run("ParticipationMode", func(t *testing.T) {
		assert.True(t, SubmissionEligible(winner, true))
		assert.True(t, SubmissionEligible(loser, true))
	})
}

func TestRuleApplies(t *testing.T) {
	winnerOnly := models.GameRewardRule{ForWinner: true}
	participationOnly := models.GameRewardRule{ForParticipation: true}
	both := models.GameRewardRule{ForWinner: true, ForParticipation: true}
	neither := models.GameRewardRule{}

	t.Run("WinnerMode", func(t *testing.T) {
		assert.True(t, RuleApplies(winnerOnly, false))
		assert.False(t, RuleApplies(participationOnly, false))
		assert.True(t, RuleApplies(both, false))
		assert.False(t, RuleApplies(neither, false))
	})

	t.Run("ParticipationMode", func(t *testing.T) {
		assert.False(t, RuleApplies(winnerOnly, true))
		assert.True(t, RuleApplies(participationOnly, true))
		assert.True(t, RuleApplies(both, true))
		assert.False(t, RuleApplies(neither, true))
	})
}

func TestParseRewardValue(t *testing.T) {
	t.Run("PointsPayload", func(t *testing.T) {
		v := ParseRewardValue([]byte(`{"points": 50}`))
		require.NotNil(t, v.Points)
		assert.Equal(t, 50, *v.Points)
		assert.Nil(t, v.BadgeID)
	})

	t.Run("EmptyPayload", func(t *testing.T) {
		v := ParseRewardValue(nil)
		assert.Nil(t, v.Points)
		assert.Nil(t, v.BadgeID)
		assert.Nil(t, v.DiscountPercentage)
		assert.Nil(t, v.BookCreditAmount)
	})

	t.Run("MalformedPayload", func(t *testing.T) {
		v := ParseRewardValue([]byte(`not json`))
		assert.Nil(t, v.Points)
	})
}

func TestDiscountPercentage(t *testing.T) {
	t.Run("Configured", func(t *testing.T) {
		pct := 25
		assert.Equal(t, 25, DiscountPercentage(RewardValue{DiscountPercentage: &pct}))
	})

	t.Run("DefaultWhenAbsent", func(t *testing.T) {
		assert.Equal(t, 10, DiscountPercentage(RewardValue{}))
	})

	t.Run("DefaultWhenZero", func(t *testing.T) {
		pct := 0
		assert.Equal(t, 10, DiscountPercentage(RewardValue{DiscountPercentage: &pct}))
	})
}

func TestGenerateDiscountCode(t *testing.T) {
	now := time.Now()
	code := GenerateDiscountCode(now)

	assert.Regexp(t, regexp.MustCompile(`^DISCOUNT\d+[0-9A-Z]{5}$`), code)
	assert.Contains(t, code, fmt.Sprintf("DISCOUNT%d", now.Unix()))
}

func TestAwardRewards_DuplicateGrants(t *testing.T) {
	db, mock := newMockDB(t)

	ruleRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "game_id", "reward_type", "reward_value", "for_winner", "for_participation"}).
			AddRow(1, 7, "points", []byte(`{"points": 50}`), true, false)
	}
	submissionRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "game_id", "user_id", "is_winner"}).
			AddRow(11, 7, 3, true)
	}

	// Awarding twice for the same submission writes two ledger rows; grants
	// are append-only and nothing deduplicates them
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`SELECT \* FROM "game_reward_rules" WHERE game_id = \$1`).
			WithArgs(uint(7)).
			WillReturnRows(ruleRows())
		mock.ExpectQuery(`SELECT \* FROM "submissions" WHERE game_id = \$1 AND id IN \(\$2\)`).
			WithArgs(uint(7), uint(11)).
			WillReturnRows(submissionRows())
		mock.ExpectQuery(`INSERT INTO "user_points"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100 + i))
	}

	granted, err := AwardRewards(db, 7, []uint{11}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, granted)

	granted, err = AwardRewards(db, 7, []uint{11}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, granted)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAwardRewards_BadgeGrant(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "game_reward_rules" WHERE game_id = \$1`).
		WithArgs(uint(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "reward_type", "reward_value", "for_winner", "for_participation"}).
			AddRow(1, 7, "badge", []byte(`{"badge_id": 3}`), true, false))
	mock.ExpectQuery(`SELECT \* FROM "submissions" WHERE game_id = \$1 AND id IN \(\$2\)`).
		WithArgs(uint(7), uint(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "user_id", "is_winner"}).
			AddRow(11, 7, 3, true))
	mock.ExpectQuery(`INSERT INTO "user_badges"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	granted, err := AwardRewards(db, 7, []uint{11}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, granted)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAwardRewards_NoRules(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "game_reward_rules" WHERE game_id = \$1`).
		WithArgs(uint(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "reward_type", "reward_value", "for_winner", "for_participation"}))

	granted, err := AwardRewards(db, 9, nil, false)
	require.NoError(t, err)
	assert.Equal(t, 0, granted)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAwardRewards_LoserSkippedInWinnerMode(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "game_reward_rules" WHERE game_id = \$1`).
		WithArgs(uint(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "reward_type", "reward_value", "for_winner", "for_participation"}).
			AddRow(1, 7, "points", []byte(`{"points": 50}`), true, false))
	mock.ExpectQuery(`SELECT \* FROM "submissions" WHERE game_id = \$1 AND id IN \(\$2\)`).
		WithArgs(uint(7), uint(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "user_id", "is_winner"}).
			AddRow(12, 7, 4, false))

	granted, err := AwardRewards(db, 7, []uint{12}, false)
	require.NoError(t, err)
	assert.Equal(t, 0, granted)

	require.NoError(t, mock.ExpectationsWereMet())
}
