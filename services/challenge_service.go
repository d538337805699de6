package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecoTrackAPI/internal/apperrors"
	"ecoTrackAPI/internal/challenge"
)

type ChallengeService struct {
	db *pgxpool.Pool
}

func NewChallengeService(db *pgxpool.Pool) *ChallengeService {
	return &ChallengeService{db: db}
}

const challengeColumns = `id, title, category, description, duration_days, target,
	points, participants, impact_metric, created_by, start_date, end_date,
	image_url, created_at, updated_at`

func scanChallenge(row pgx.Row) (*challenge.Challenge, error) {
	c := &challenge.Challenge{}
	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Category,
		&c.Description,
		&c.DurationDays,
		&c.Target,
		&c.Points,
		&c.Participants,
		&c.ImpactMetric,
		&c.CreatedBy,
		&c.StartDate,
		&c.EndDate,
		&c.ImageURL,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns a page of the catalog. Filters compose: categories,
// title/description search, start-date window, participants range.
func (s *ChallengeService) List(ctx context.Context, filter *challenge.ListFilter) (*challenge.Page, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Categories) > 0 {
		where = append(where, fmt.Sprintf("category = ANY(%s)", arg(filter.Categories)))
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		where = append(where, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", p, p))
	}
	if filter.StartAfter != nil {
		where = append(where, fmt.Sprintf("start_date >= %s", arg(*filter.StartAfter)))
	}
	if filter.StartBefore != nil {
		where = append(where, fmt.Sprintf("start_date <= %s", arg(*filter.StartBefore)))
	}
	if filter.MinParticipants != nil {
		where = append(where, fmt.Sprintf("participants >= %s", arg(*filter.MinParticipants)))
	}
	if filter.MaxParticipants != nil {
		where = append(where, fmt.Sprintf("participants <= %s", arg(*filter.MaxParticipants)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM challenges"+whereClause, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count challenges: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	query := "SELECT " + challengeColumns + " FROM challenges" + whereClause +
		" ORDER BY start_date DESC, created_at DESC" +
		fmt.Sprintf(" LIMIT %s OFFSET %s", arg(limit), arg((page-1)*limit))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*challenge.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pages := (total + limit - 1) / limit
	return &challenge.Page{
		Data:  challenges,
		Count: len(challenges),
		Total: total,
		Page:  page,
		Pages: pages,
	}, nil
}

func (s *ChallengeService) GetByID(ctx context.Context, id uuid.UUID) (*challenge.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1`
	c, err := scanChallenge(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("challenge %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return c, nil
}

func (s *ChallengeService) Create(ctx context.Context, createdBy string, req *challenge.CreateChallengeRequest) (*challenge.Challenge, error) {
	now := time.Now()
	c := &challenge.Challenge{
		ID:           uuid.New(),
		Title:        req.Title,
		Category:     req.Category,
		Description:  req.Description,
		DurationDays: req.DurationDays,
		Target:       req.Target,
		Points:       req.Points,
		ImpactMetric: req.ImpactMetric,
		CreatedBy:    createdBy,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		ImageURL:     req.ImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := s.db.Exec(ctx, `
	INSERT INTO challenges (id, title, category, description, duration_days, target,
		points, participants, impact_metric, created_by, start_date, end_date,
		image_url, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10, $11, $12, $13, $13)`,
		c.ID, c.Title, c.Category, c.Description, c.DurationDays, c.Target,
		c.Points, c.ImpactMetric, c.CreatedBy, c.StartDate, c.EndDate,
		c.ImageURL, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}
	return c, nil
}

// Update patches the mutable fields. Participants is deliberately not
// settable here: it only moves through the join/abandon increments.
func (s *ChallengeService) Update(ctx context.Context, id uuid.UUID, req *challenge.UpdateChallengeRequest) (*challenge.Challenge, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Title != nil {
		set("title", *req.Title)
	}
	if req.Category != nil {
		set("category", *req.Category)
	}
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.Target != nil {
		set("target", *req.Target)
	}
	if req.Points != nil {
		set("points", *req.Points)
	}
	if req.ImpactMetric != nil {
		set("impact_metric", *req.ImpactMetric)
	}
	if req.StartDate != nil {
		set("start_date", *req.StartDate)
	}
	if req.EndDate != nil {
		set("end_date", *req.EndDate)
	}
	if req.ImageURL != nil {
		set("image_url", *req.ImageURL)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", apperrors.ErrValidation)
	}
	set("updated_at", time.Now())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE challenges SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update challenge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("challenge %s: %w", id, apperrors.ErrNotFound)
	}
	return s.GetByID(ctx, id)
}

func (s *ChallengeService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM challenges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("challenge %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
