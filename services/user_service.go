package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecoTrackAPI/internal/apperrors"
	"ecoTrackAPI/internal/progression"
	"ecoTrackAPI/internal/user"
)

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

const userColumns = `id, user_id, email, display_name, photo_url, total_points,
	total_challenges_joined, total_challenges_completed, current_streak,
	longest_streak, last_activity_date, rank, badges, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	var badgesRaw []byte
	err := row.Scan(
		&u.ID,
		&u.UserID,
		&u.Email,
		&u.DisplayName,
		&u.PhotoURL,
		&u.TotalPoints,
		&u.TotalChallengesJoined,
		&u.TotalChallengesCompleted,
		&u.CurrentStreak,
		&u.LongestStreak,
		&u.LastActivityDate,
		&u.Rank,
		&badgesRaw,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(badgesRaw) > 0 {
		if err := json.Unmarshal(badgesRaw, &u.Badges); err != nil {
			return nil, fmt.Errorf("failed to decode badges for user %s: %w", u.UserID, err)
		}
	}
	return u, nil
}

// GetOrCreateProfile upserts the profile row for an authenticated user. The
// first call after sign-up creates the record with zeroed counters.
func (s *UserService) GetOrCreateProfile(ctx context.Context, req *user.GetOrCreateProfileRequest) (*user.User, error) {
	displayName := req.DisplayName
	if displayName == "" {
		displayName = "EcoWarrior"
	}
	photoURL := req.PhotoURL
	if photoURL == "" {
		photoURL = fmt.Sprintf(
			"https://ui-avatars.com/api/?name=%s&background=22c55e&color=fff",
			url.QueryEscape(displayName),
		)
	}

	now := time.Now()
	query := `
	INSERT INTO users (id, user_id, email, display_name, photo_url, rank, badges, last_activity_date, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, '[]'::jsonb, $7, $8, $8)
	ON CONFLICT (user_id) DO NOTHING
	`
	_, err := s.db.Exec(ctx, query,
		uuid.New(), req.UserID, req.Email, displayName, photoURL,
		progression.RankBeginner, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user profile: %w", err)
	}

	return s.GetByUserID(ctx, req.UserID)
}

func (s *UserService) GetByUserID(ctx context.Context, userID string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	u, err := scanUser(s.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetBadges returns the badges the user has earned alongside every badge
// their current stats would satisfy, so the client can render locked ones.
func (s *UserService) GetBadges(ctx context.Context, userID string) (*user.BadgesResponse, error) {
	u, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.TotalPoints < 0 || u.TotalChallengesJoined < 0 || u.TotalChallengesCompleted < 0 {
		return nil, fmt.Errorf("negative counters for user %s: %w", userID, apperrors.ErrInvariant)
	}

	stats := progression.Stats{
		TotalPoints:              u.TotalPoints,
		TotalChallengesJoined:    u.TotalChallengesJoined,
		TotalChallengesCompleted: u.TotalChallengesCompleted,
		CurrentStreak:            u.CurrentStreak,
	}

	return &user.BadgesResponse{
		EarnedBadges:      u.Badges,
		AllPossibleBadges: progression.Evaluate(stats),
		Stats:             stats,
	}, nil
}
