package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ecoTrackAPI/internal/stats"
)

type StatsService struct {
	db *pgxpool.Pool
}

func NewStatsService(db *pgxpool.Pool) *StatsService {
	return &StatsService{db: db}
}

// GetLiveStats aggregates the public homepage counters in one round trip.
func (s *StatsService) GetLiveStats(ctx context.Context) (*stats.LiveStats, error) {
	ls := &stats.LiveStats{}
	err := s.db.QueryRow(ctx, `
	SELECT
		(SELECT COUNT(*) FROM challenges WHERE end_date >= $1),
		(SELECT COALESCE(SUM(participants), 0) FROM challenges),
		(SELECT COUNT(*) FROM memberships WHERE status = 'completed'),
		(SELECT COUNT(*) FROM tips),
		(SELECT COUNT(*) FROM events WHERE event_date >= $1)`,
		time.Now(),
	).Scan(
		&ls.ActiveChallenges,
		&ls.TotalParticipants,
		&ls.CompletedChallenges,
		&ls.TotalTips,
		&ls.UpcomingEvents,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load live stats: %w", err)
	}
	return ls, nil
}

// GetUserStats summarizes one user's memberships. Points are summed from
// completed memberships, the same source the progression engine feeds.
func (s *StatsService) GetUserStats(ctx context.Context, userID string) (*stats.UserStats, error) {
	us := &stats.UserStats{}
	err := s.db.QueryRow(ctx, `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'active'),
		COUNT(*) FILTER (WHERE status = 'completed'),
		COALESCE(SUM(points_earned) FILTER (WHERE status = 'completed'), 0)
	FROM memberships
	WHERE user_id = $1`, userID,
	).Scan(
		&us.TotalJoined,
		&us.ActiveChallenges,
		&us.CompletedChallenges,
		&us.TotalPoints,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}
	return us, nil
}
