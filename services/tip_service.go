package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecoTrackAPI/internal/apperrors"
	"ecoTrackAPI/internal/tip"
)

type TipService struct {
	db *pgxpool.Pool
}

func NewTipService(db *pgxpool.Pool) *TipService {
	return &TipService{db: db}
}

const tipColumns = `id, title, content, category, author, author_name, upvotes, views, featured, created_at`

func scanTip(row pgx.Row) (*tip.Tip, error) {
	t := &tip.Tip{}
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Content,
		&t.Category,
		&t.Author,
		&t.AuthorName,
		&t.Upvotes,
		&t.Views,
		&t.Featured,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TipService) List(ctx context.Context, category string, featuredOnly bool, limit int) ([]*tip.Tip, error) {
	if limit < 1 {
		limit = 10
	}

	query := `SELECT ` + tipColumns + ` FROM tips`
	var (
		where []string
		args  []any
	)
	if category != "" {
		args = append(args, category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if featuredOnly {
		where = append(where, "featured = TRUE")
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tips: %w", err)
	}
	defer rows.Close()

	var tips []*tip.Tip
	for rows.Next() {
		t, err := scanTip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tip: %w", err)
		}
		tips = append(tips, t)
	}
	return tips, rows.Err()
}

// GetByID returns the tip and counts the view with an atomic increment.
func (s *TipService) GetByID(ctx context.Context, id uuid.UUID) (*tip.Tip, error) {
	t, err := scanTip(s.db.QueryRow(ctx, `
	UPDATE tips SET views = views + 1 WHERE id = $1
	RETURNING `+tipColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tip %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tip: %w", err)
	}
	return t, nil
}

func (s *TipService) Create(ctx context.Context, req *tip.CreateTipRequest) (*tip.Tip, error) {
	t := &tip.Tip{
		ID:         uuid.New(),
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		Author:     req.Author,
		AuthorName: req.AuthorName,
		Featured:   req.Featured,
		CreatedAt:  time.Now(),
	}

	_, err := s.db.Exec(ctx, `
	INSERT INTO tips (id, title, content, category, author, author_name, upvotes, views, featured, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, 0, 0, $7, $8)`,
		t.ID, t.Title, t.Content, t.Category, t.Author, t.AuthorName, t.Featured, t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tip: %w", err)
	}
	return t, nil
}

func (s *TipService) Upvote(ctx context.Context, id uuid.UUID) (*tip.Tip, error) {
	t, err := scanTip(s.db.QueryRow(ctx, `
	UPDATE tips SET upvotes = upvotes + 1 WHERE id = $1
	RETURNING `+tipColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tip %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to upvote tip: %w", err)
	}
	return t, nil
}
