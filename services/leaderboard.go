// services/leaderboard.go - full leaderboard recomputation
package services

import (
	"log"
	"sort"
	"time"

	"thywilluche/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userTotal struct {
	UserID uint
	Total  int
}

type userTimestamp struct {
	UserID uint
	Last   time.Time
}

// MergeAggregates unions the users appearing in any aggregate result set and
// builds one leaderboard entry per user. Output is ordered by user id so the
// subsequent upsert batch is deterministic.
func MergeAggregates(points, wins, participation []userTotal, lastActivity []userTimestamp) []models.LeaderboardEntry {
	byUser := make(map[uint]*models.LeaderboardEntry)

	entry := func(userID uint) *models.LeaderboardEntry {
		e, ok := byUser[userID]
		if !ok {
			e = &models.LeaderboardEntry{UserID: userID}
			byUser[userID] = e
		}
		return e
	}

	for _, row := range points {
		entry(row.UserID).TotalPoints = row.Total
	}
	for _, row := range wins {
		entry(row.UserID).TotalWins = row.Total
	}
	for _, row := range participation {
		entry(row.UserID).TotalParticipation = row.Total
	}
	for _, row := range lastActivity {
		last := row.Last
		entry(row.UserID).LastActivityAt = &last
	}

	entries := make([]models.LeaderboardEntry, 0, len(byUser))
	for _, e := range byUser {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UserID < entries[j].UserID
	})
	return entries
}

// RecomputeLeaderboard rebuilds the snapshot from the raw history tables:
// per-user point sums, win counts, submission counts and last submission
// time, then dense ranks by total points descending (ties broken by user
// id). The snapshot is fully derived and disposable; this replaces it
// wholesale.
func RecomputeLeaderboard(db *gorm.DB) error {
	var points []userTotal
	if err := db.Model(&models.UserPoints{}).
		Select("user_id, COALESCE(SUM(points), 0) AS total").
		Group("user_id").
		Scan(&points).Error; err != nil {
		return err
	}

	var wins []userTotal
	if err := db.Model(&models.Submission{}).
		Select("user_id, COUNT(*) AS total").
		Where("is_winner = ?", true).
		Group("user_id").
		Scan(&wins).Error; err != nil {
		return err
	}

	var participation []userTotal
	if err := db.Model(&models.Submission{}).
		Select("user_id, COUNT(*) AS total").
		Group("user_id").
		Scan(&participation).Error; err != nil {
		return err
	}

	var lastActivity []userTimestamp
	if err := db.Model(&models.Submission{}).
		Select("user_id, MAX(created_at) AS last").
		Group("user_id").
		Scan(&lastActivity).Error; err != nil {
		return err
	}

	entries := MergeAggregates(points, wins, participation, lastActivity)
	if len(entries) > 0 {
		if err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_points", "total_wins", "total_participation", "last_activity_at", "updated_at",
			}),
		}).Create(&entries).Error; err != nil {
			return err
		}
	}

	// One window-function pass instead of a per-row rank update loop
	if err := db.Exec(`
		UPDATE leaderboard_entries le
		SET rank = ranked.rn
		FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY total_points DESC, user_id ASC) AS rn
			FROM leaderboard_entries
		) ranked
		WHERE le.id = ranked.id
	`).Error; err != nil {
		return err
	}

	InvalidateStandingsCache()
	broadcastStandings(db)

	return nil
}

func broadcastStandings(db *gorm.DB) {
	hub := GetFeedHub()
	if hub == nil || hub.ClientCount() == 0 {
		return
	}

	var top []models.LeaderboardEntry
	if err := db.Preload("User").
		Order("rank ASC").
		Limit(standingsFeedSize).
		Find(&top).Error; err != nil {
		log.Printf("Failed to load standings for feed: %v", err)
		return
	}
	hub.Broadcast("standings", top)
}

// LeaderboardService owns the background recompute loop. Requests are
// coalesced: a refresh requested while one is already pending triggers a
// single recompute.
type LeaderboardService struct {
	db      *gorm.DB
	trigger chan struct{}
	stop    chan struct{}
}

var leaderboardService *LeaderboardService

// InitLeaderboardService initializes the singleton refresher and starts its
// worker goroutine.
func InitLeaderboardService(db *gorm.DB) {
	leaderboardService = &LeaderboardService{
		db:      db,
		trigger: make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	go leaderboardService.run()
}

// GetLeaderboardService returns the initialized refresher.
func GetLeaderboardService() *LeaderboardService {
	return leaderboardService
}

func (s *LeaderboardService) run() {
	for {
		select {
		case <-s.trigger:
			if err := RecomputeLeaderboard(s.db); err != nil {
				log.Printf("Leaderboard recompute failed: %v", err)
			}
		case <-s.stop:
			return
		}
	}
}

// RequestRefresh schedules a recompute without blocking the caller.
func (s *LeaderboardService) RequestRefresh() {
	select {
	case s.trigger <- struct{}{}:
	default:
		// a refresh is already pending
	}
}

// Stop shuts down the worker goroutine.
func (s *LeaderboardService) Stop() {
	close(s.stop)
}
