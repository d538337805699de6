package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecoTrackAPI/internal/apperrors"
	"ecoTrackAPI/internal/membership"
	"ecoTrackAPI/internal/progression"
)

// MembershipService owns the user-challenge lifecycle: join, daily progress,
// completion and abandonment. Counter columns are only ever written as
// SQL-level increments; derived fields (rank, badges, streak) are recomputed
// through the progression engine inside the same transaction.
type MembershipService struct {
	db *pgxpool.Pool
}

func NewMembershipService(db *pgxpool.Pool) *MembershipService {
	return &MembershipService{db: db}
}

const membershipColumns = `id, user_id, user_email, user_name, challenge_id,
	challenge_title, challenge_category, challenge_points, challenge_duration_days,
	status, progress_percentage, points_earned, total_updates, days_active,
	start_date, completed_date, joined_date, last_updated`

func scanMembership(row pgx.Row) (*membership.Membership, error) {
	m := &membership.Membership{}
	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.UserEmail,
		&m.UserName,
		&m.ChallengeID,
		&m.ChallengeTitle,
		&m.ChallengeCategory,
		&m.ChallengePoints,
		&m.ChallengeDurationDays,
		&m.Status,
		&m.ProgressPercentage,
		&m.PointsEarned,
		&m.TotalUpdates,
		&m.DaysActive,
		&m.StartDate,
		&m.CompletedDate,
		&m.JoinedDate,
		&m.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// JoinChallenge creates a membership for (userID, challengeID), snapshotting
// the challenge fields at join time. A second join of the same pair fails
// with ErrConflict and leaves every counter unchanged.
func (s *MembershipService) JoinChallenge(ctx context.Context, userID, userEmail, userName string, challengeID uuid.UUID) (*membership.Membership, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		title        string
		category     string
		points       *int
		durationDays int
	)
	err = tx.QueryRow(ctx,
		`SELECT title, category, points, duration_days FROM challenges WHERE id = $1`,
		challengeID,
	).Scan(&title, &category, &points, &durationDays)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("challenge %s: %w", challengeID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}

	now := time.Now()
	m := &membership.Membership{
		ID:                    uuid.New(),
		UserID:                userID,
		UserEmail:             userEmail,
		UserName:              userName,
		ChallengeID:           challengeID,
		ChallengeTitle:        title,
		ChallengeCategory:     category,
		ChallengePoints:       points,
		ChallengeDurationDays: durationDays,
		Status:                membership.StatusActive,
		StartDate:             now,
		JoinedDate:            now,
		LastUpdated:           now,
	}

	_, err = tx.Exec(ctx, `
	INSERT INTO memberships (id, user_id, user_email, user_name, challenge_id,
		challenge_title, challenge_category, challenge_points, challenge_duration_days,
		status, progress_percentage, points_earned, total_updates, days_active,
		start_date, joined_date, last_updated)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, 0, 0, 0, $11, $12, $13)`,
		m.ID, m.UserID, m.UserEmail, m.UserName, m.ChallengeID,
		m.ChallengeTitle, m.ChallengeCategory, m.ChallengePoints, m.ChallengeDurationDays,
		m.Status, m.StartDate, m.JoinedDate, m.LastUpdated,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %s already joined challenge %s: %w", userID, challengeID, apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	// Shared counter, always an atomic increment.
	_, err = tx.Exec(ctx, `UPDATE challenges SET participants = participants + 1 WHERE id = $1`, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment participants: %w", err)
	}

	if err := s.rollJoinIntoUser(ctx, tx, userID, userEmail, userName, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit join: %w", err)
	}
	return m, nil
}

// rollJoinIntoUser bumps the joined counter and re-evaluates badges. The
// user row is created on the fly if the profile endpoint was never called.
func (s *MembershipService) rollJoinIntoUser(ctx context.Context, tx pgx.Tx, userID, userEmail, userName string, now time.Time) error {
	state, err := lockUserState(ctx, tx, userID, userEmail, userName, now)
	if err != nil {
		return err
	}

	next := progression.OnChallengeJoined(*state, now)

	badgesRaw, err := json.Marshal(next.Badges)
	if err != nil {
		return fmt.Errorf("failed to encode badges: %w", err)
	}

	_, err = tx.Exec(ctx, `
	UPDATE users SET
		total_challenges_joined = total_challenges_joined + 1,
		badges = $2,
		updated_at = $3
	WHERE user_id = $1`,
		userID, badgesRaw, now,
	)
	if err != nil {
		return fmt.Errorf("failed to update user join stats: %w", err)
	}
	return nil
}

// lockUserState upserts and row-locks the user record, returning its
// progression state for the duration of the transaction.
func lockUserState(ctx context.Context, tx pgx.Tx, userID, userEmail, userName string, now time.Time) (*progression.UserState, error) {
	if userName == "" {
		userName = "EcoWarrior"
	}
	if userEmail == "" {
		userEmail = "unknown@ecotrack.app"
	}
	photoURL := fmt.Sprintf(
		"https://ui-avatars.com/api/?name=%s&background=22c55e&color=fff",
		url.QueryEscape(userName),
	)
	_, err := tx.Exec(ctx, `
	INSERT INTO users (id, user_id, email, display_name, photo_url, rank, badges, last_activity_date, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, '[]'::jsonb, $7, $8, $8)
	ON CONFLICT (user_id) DO NOTHING`,
		uuid.New(), userID, userEmail, userName, photoURL, progression.RankBeginner, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user row: %w", err)
	}

	state := &progression.UserState{}
	var badgesRaw []byte
	err = tx.QueryRow(ctx, `
	SELECT total_points, total_challenges_joined, total_challenges_completed,
		current_streak, longest_streak, last_activity_date, rank, badges
	FROM users WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(
		&state.TotalPoints,
		&state.TotalChallengesJoined,
		&state.TotalChallengesCompleted,
		&state.CurrentStreak,
		&state.LongestStreak,
		&state.LastActivityDate,
		&state.Rank,
		&badgesRaw,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to lock user state: %w", err)
	}
	if len(badgesRaw) > 0 {
		if err := json.Unmarshal(badgesRaw, &state.Badges); err != nil {
			return nil, fmt.Errorf("failed to decode badges: %w", err)
		}
	}
	if state.TotalPoints < 0 || state.TotalChallengesJoined < 0 || state.TotalChallengesCompleted < 0 {
		log.Printf("Invariant violation: negative counters for user %s", userID)
		return nil, fmt.Errorf("negative counters for user %s: %w", userID, apperrors.ErrInvariant)
	}
	return state, nil
}

// ListUserChallenges returns the user's memberships newest-join first,
// optionally filtered to a status subset.
func (s *MembershipService) ListUserChallenges(ctx context.Context, userID string, statuses []string) ([]*membership.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE user_id = $1`
	args := []any{userID}
	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		args = append(args, statuses)
	}
	query += ` ORDER BY joined_date DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []*membership.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

// GetByID loads one membership, including its full progress entry log.
func (s *MembershipService) GetByID(ctx context.Context, userID string, id uuid.UUID) (*membership.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE id = $1 AND user_id = $2`
	m, err := scanMembership(s.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("membership %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	entries, err := s.loadEntries(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	m.ProgressEntries = entries
	return m, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *MembershipService) loadEntries(ctx context.Context, q querier, membershipID uuid.UUID) ([]membership.ProgressEntry, error) {
	rows, err := q.Query(ctx, `
	SELECT id, membership_id, entry_date, day_status, note, created_at
	FROM membership_progress
	WHERE membership_id = $1
	ORDER BY created_at, id`, membershipID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress entries: %w", err)
	}
	defer rows.Close()

	var entries []membership.ProgressEntry
	for rows.Next() {
		var e membership.ProgressEntry
		if err := rows.Scan(&e.ID, &e.MembershipID, &e.Date, &e.DayStatus, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan progress entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RecordProgress appends a daily entry and persists the recomputed
// membership state. When the entry pushes the percentage to 100 the
// completion is rolled into the owning user's counters in the same
// transaction, so the whole event commits or none of it does.
func (s *MembershipService) RecordProgress(ctx context.Context, userID string, id uuid.UUID, req *membership.RecordProgressRequest) (*membership.Membership, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE id = $1 AND user_id = $2 FOR UPDATE`
	m, err := scanMembership(tx.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("membership %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}

	entries, err := s.loadEntries(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	m.ProgressEntries = entries

	now := time.Now()
	entry := membership.ProgressEntry{
		ID:           uuid.New(),
		MembershipID: id,
		Date:         now,
		DayStatus:    req.DayStatus,
		Note:         req.Note,
		CreatedAt:    now,
	}

	wasCompleted := m.Status == membership.StatusCompleted
	if err := progression.RecordProgress(m, entry, now); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
	INSERT INTO membership_progress (id, membership_id, entry_date, day_status, note, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.MembershipID, entry.Date, entry.DayStatus, entry.Note, entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert progress entry: %w", err)
	}

	_, err = tx.Exec(ctx, `
	UPDATE memberships SET
		status = $2,
		progress_percentage = $3,
		points_earned = $4,
		total_updates = $5,
		days_active = $6,
		completed_date = $7,
		last_updated = $8
	WHERE id = $1`,
		m.ID, m.Status, m.ProgressPercentage, m.PointsEarned,
		m.TotalUpdates, m.DaysActive, m.CompletedDate, m.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update membership: %w", err)
	}

	if !wasCompleted && m.Status == membership.StatusCompleted {
		if err := s.rollCompletionIntoUser(ctx, tx, m, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit progress update: %w", err)
	}
	return m, nil
}

// rollCompletionIntoUser applies OnChallengeCompleted to the owning user.
// Counters are written as increments; streak, rank and badges are written
// from the freshly computed state.
func (s *MembershipService) rollCompletionIntoUser(ctx context.Context, tx pgx.Tx, m *membership.Membership, now time.Time) error {
	state, err := lockUserState(ctx, tx, m.UserID, m.UserEmail, m.UserName, now)
	if err != nil {
		return err
	}

	next := progression.OnChallengeCompleted(*state, m.PointsEarned, now)

	badgesRaw, err := json.Marshal(next.Badges)
	if err != nil {
		return fmt.Errorf("failed to encode badges: %w", err)
	}

	_, err = tx.Exec(ctx, `
	UPDATE users SET
		total_points = total_points + $2,
		total_challenges_completed = total_challenges_completed + 1,
		current_streak = $3,
		longest_streak = $4,
		last_activity_date = $5,
		rank = $6,
		badges = $7,
		updated_at = $5
	WHERE user_id = $1`,
		m.UserID, m.PointsEarned,
		next.CurrentStreak, next.LongestStreak, next.LastActivityDate,
		next.Rank, badgesRaw,
	)
	if err != nil {
		return fmt.Errorf("failed to update user completion stats: %w", err)
	}
	return nil
}

// AbandonChallenge moves an active membership to the abandoned terminal
// state. Join history on the user is kept; only the challenge's shared
// participants counter is decremented.
func (s *MembershipService) AbandonChallenge(ctx context.Context, userID string, id uuid.UUID) (*membership.Membership, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE id = $1 AND user_id = $2 FOR UPDATE`
	m, err := scanMembership(tx.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("membership %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}

	if m.Status.Terminal() {
		return nil, fmt.Errorf("membership %s is %s: %w", m.ID, m.Status, apperrors.ErrConflict)
	}

	now := time.Now()
	m.Status = membership.StatusAbandoned
	m.LastUpdated = now

	_, err = tx.Exec(ctx,
		`UPDATE memberships SET status = $2, last_updated = $3 WHERE id = $1`,
		m.ID, m.Status, m.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to abandon membership: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE challenges SET participants = GREATEST(participants - 1, 0) WHERE id = $1`,
		m.ChallengeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to decrement participants: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit abandon: %w", err)
	}
	return m, nil
}
