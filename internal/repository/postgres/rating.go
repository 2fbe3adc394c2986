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

type RatingStore struct {
	pool *pgxpool.Pool
}

func NewRatingStore(pool *pgxpool.Pool) *RatingStore {
	return &RatingStore{pool: pool}
}

// Rate upserts on the (book_id, user_id) key, so re-rating replaces the
// previous stars instead of failing.
func (s *RatingStore) Rate(ctx context.Context, bookID, userID uuid.UUID, stars int) error {
	query := `
		INSERT INTO ratings (book_id, user_id, stars, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (book_id, user_id)
		DO UPDATE SET stars = EXCLUDED.stars, updated_at = now()`

	_, err := s.pool.Exec(ctx, query, bookID, userID, stars)
	if err != nil {
		return fmt.Errorf("rate book: %w", err)
	}
	return nil
}

// Summary aggregates in SQL. An unrated book yields average 0, count 0
// rather than a missing row.
func (s *RatingStore) Summary(ctx context.Context, bookID uuid.UUID) (*models.RatingSummary, error) {
	query := `
		SELECT COALESCE(AVG(stars), 0), COUNT(*)
		FROM ratings
		WHERE book_id = $1`

	summary := models.RatingSummary{BookID: bookID}
	err := s.pool.QueryRow(ctx, query, bookID).Scan(&summary.Average, &summary.Count)
	if err != nil {
		return nil, fmt.Errorf("rating summary: %w", err)
	}
	return &summary, nil
}

func (s *RatingStore) UserRating(ctx context.Context, bookID, userID uuid.UUID) (int, error) {
	query := `
		SELECT stars
		FROM ratings
		WHERE book_id = $1 AND user_id = $2`

	var stars int
	err := s.pool.QueryRow(ctx, query, bookID, userID).Scan(&stars)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get user rating: %w", err)
	}
	return stars, nil
}
