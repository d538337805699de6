package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"ecoTrackAPI/internal/apperrors"
	"ecoTrackAPI/internal/leaderboard"
	"ecoTrackAPI/internal/progression"
	"ecoTrackAPI/utils"
)

const (
	LeaderboardTypePoints     = "points"
	LeaderboardTypeChallenges = "challenges"
	LeaderboardTypeStreak     = "streak"

	leaderboardCacheTTL = 60 * time.Second
)

// LeaderboardService ranks users globally. When a Redis client is provided
// the top-N queries are cached for a short TTL; a nil client means every
// request goes straight to Postgres.
type LeaderboardService struct {
	db  *pgxpool.Pool
	rdb *redis.Client
}

func NewLeaderboardService(db *pgxpool.Pool, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{db: db, rdb: rdb}
}

func orderColumn(lbType string) string {
	switch lbType {
	case LeaderboardTypeChallenges:
		return "total_challenges_completed"
	case LeaderboardTypeStreak:
		return "current_streak"
	default:
		return "total_points"
	}
}

// GetLeaderboard returns the top users ordered by the requested metric.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, lbType string, limit int) (*leaderboard.Leaderboard, error) {
	switch lbType {
	case LeaderboardTypePoints, LeaderboardTypeChallenges, LeaderboardTypeStreak:
	case "":
		lbType = LeaderboardTypePoints
	default:
		return nil, fmt.Errorf("unknown leaderboard type %q: %w", lbType, apperrors.ErrValidation)
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("leaderboard:%s:%d", lbType, limit)
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Bytes()
		if err == nil {
			lb := &leaderboard.Leaderboard{}
			if err := json.Unmarshal(cached, lb); err == nil {
				return lb, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("Leaderboard cache read failed: %v", err)
		}
	}

	query := fmt.Sprintf(`
	SELECT user_id, display_name, photo_url, total_points, total_challenges_completed,
		total_challenges_joined, current_streak, rank, jsonb_array_length(badges) AS badge_count
	FROM users
	ORDER BY %s DESC, total_points DESC
	LIMIT $1`, orderColumn(lbType))

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*leaderboard.Entry
	for rows.Next() {
		e := &leaderboard.Entry{}
		err := rows.Scan(
			&e.UserID,
			&e.DisplayName,
			&e.PhotoURL,
			&e.TotalPoints,
			&e.TotalChallengesCompleted,
			&e.TotalChallengesJoined,
			&e.CurrentStreak,
			&e.Rank,
			&e.BadgeCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		e.Position = len(entries) + 1
		e.ImpactScore = utils.CalculateImpactScore(e.TotalPoints, e.CurrentStreak, e.BadgeCount)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lb := &leaderboard.Leaderboard{
		Entries: entries,
		Type:    lbType,
		Count:   len(entries),
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(lb); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, raw, leaderboardCacheTTL).Err(); err != nil {
				log.Printf("Leaderboard cache write failed: %v", err)
			}
		}
	}
	return lb, nil
}

// GetUserRank returns the user's points-based standing. An unknown user gets
// a zeroed payload rather than an error so fresh accounts render cleanly.
func (s *LeaderboardService) GetUserRank(ctx context.Context, userID string) (*leaderboard.UserRank, error) {
	var (
		totalPoints   int
		rank          string
		currentStreak int
		longestStreak int
		badgesRaw     []byte
	)
	err := s.db.QueryRow(ctx, `
	SELECT total_points, rank, current_streak, longest_streak, badges
	FROM users WHERE user_id = $1`, userID,
	).Scan(&totalPoints, &rank, &currentStreak, &longestStreak, &badgesRaw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &leaderboard.UserRank{
				Percentile: 100,
				Rank:       progression.RankBeginner,
				Badges:     []progression.BadgeAward{},
			}, nil
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var badges []progression.BadgeAward
	if len(badgesRaw) > 0 {
		if err := json.Unmarshal(badgesRaw, &badges); err != nil {
			return nil, fmt.Errorf("failed to decode badges: %w", err)
		}
	}

	var higher, total int
	err = s.db.QueryRow(ctx, `
	SELECT COUNT(*) FILTER (WHERE total_points > $1), COUNT(*) FROM users`,
		totalPoints,
	).Scan(&higher, &total)
	if err != nil {
		return nil, fmt.Errorf("failed to compute rank position: %w", err)
	}

	position := higher + 1
	percentile := 0
	if total > 0 {
		percentile = int(float64(total-position) / float64(total) * 100)
	}

	return &leaderboard.UserRank{
		Position:      position,
		TotalUsers:    total,
		Percentile:    percentile,
		TotalPoints:   totalPoints,
		Rank:          rank,
		Badges:        badges,
		CurrentStreak: currentStreak,
		LongestStreak: longestStreak,
	}, nil
}
