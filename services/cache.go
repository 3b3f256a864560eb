// services/cache.go - optional redis cache for public leaderboard reads
package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const standingsCacheTTL = 30 * time.Second

var redisClient *redis.Client

// InitRedis connects the leaderboard cache. The cache is optional: when
// REDIS_HOST is unset, every read goes straight to the database.
func InitRedis() {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		log.Println("Redis not configured, leaderboard cache disabled")
		return
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unreachable, leaderboard cache disabled: %v", err)
		return
	}

	redisClient = client
	log.Println("✅ Redis leaderboard cache connected")
}

func standingsCacheKey(page, limit int) string {
	return fmt.Sprintf("leaderboard:standings:%d:%d", page, limit)
}

// CachedStandings returns a cached standings page, or "" on miss or when the
// cache is disabled.
func CachedStandings(ctx context.Context, page, limit int) string {
	if redisClient == nil {
		return ""
	}
	val, err := redisClient.Get(ctx, standingsCacheKey(page, limit)).Result()
	if err != nil {
		return ""
	}
	return val
}

// StoreStandings caches a rendered standings page.
func StoreStandings(ctx context.Context, page, limit int, payload string) {
	if redisClient == nil {
		return
	}
	if err := redisClient.Set(ctx, standingsCacheKey(page, limit), payload, standingsCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache standings: %v", err)
	}
}

// InvalidateStandingsCache drops every cached standings page. Called after
// each successful recompute.
func InvalidateStandingsCache() {
	if redisClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	iter := redisClient.Scan(ctx, 0, "leaderboard:standings:*", 0).Iterator()
	for iter.Next(ctx) {
		redisClient.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("Failed to invalidate standings cache: %v", err)
	}
}
