package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Umair-Ahm3d/Club-Lit/internal/models"
)

type BookmarkStore struct {
	pool *pgxpool.Pool
}

func NewBookmarkStore(pool *pgxpool.Pool) *BookmarkStore {
	return &BookmarkStore{pool: pool}
}

func (s *BookmarkStore) Upsert(ctx context.Context, userID, bookID uuid.UUID, page int) (*models.Bookmark, error) {
	query := `
		INSERT INTO bookmarks (user_id, book_id, page, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, book_id)
		DO UPDATE SET page = EXCLUDED.page, updated_at = now()
		RETURNING user_id, book_id, page, updated_at`

	var b models.Bookmark
	err := s.pool.QueryRow(ctx, query, userID, bookID, page).Scan(
		&b.UserID,
		&b.BookID,
		&b.Page,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert bookmark: %w", err)
	}
	return &b, nil
}

func (s *BookmarkStore) Get(ctx context.Context, userID, bookID uuid.UUID) (*models.Bookmark, error) {
	query := `
		SELECT user_id, book_id, page, updated_at
		FROM bookmarks
		WHERE user_id = $1 AND book_id = $2`

	var b models.Bookmark
	err := s.pool.QueryRow(ctx, query, userID, bookID).Scan(
		&b.UserID,
		&b.BookID,
		&b.Page,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bookmark: %w", err)
	}
	return &b, nil
}

func (s *BookmarkStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Bookmark, error) {
	query := `
		SELECT user_id, book_id, page, updated_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY updated_at DESC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := make([]models.Bookmark, 0)
	for rows.Next() {
		var b models.Bookmark
		if err := rows.Scan(&b.UserID, &b.BookID, &b.Page, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmarks: %w", err)
	}

	return bookmarks, nil
}
