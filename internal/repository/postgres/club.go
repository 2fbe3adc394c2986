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

type ClubStore struct {
	pool *pgxpool.Pool
}

func NewClubStore(pool *pgxpool.Pool) *ClubStore {
	return &ClubStore{pool: pool}
}

func (s *ClubStore) Create(ctx context.Context, name, description string, bookID, creatorID uuid.UUID) (*models.Club, error) {
	query := `
		INSERT INTO clubs (name, description, book_id, creator_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, book_id, creator_id, created_at`

	var c models.Club
	err := s.pool.QueryRow(ctx, query, name, description, bookID, creatorID).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.BookID,
		&c.CreatorID,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert club: %w", err)
	}
	return &c, nil
}

func (s *ClubStore) GetByID(ctx context.Context, clubID uuid.UUID) (*models.Club, error) {
	query := `
		SELECT id, name, description, book_id, creator_id, created_at
		FROM clubs
		WHERE id = $1`

	var c models.Club
	err := s.pool.QueryRow(ctx, query, clubID).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.BookID,
		&c.CreatorID,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get club: %w", err)
	}
	return &c, nil
}

func (s *ClubStore) List(ctx context.Context) ([]models.Club, error) {
	query := `
		SELECT id, name, description, book_id, creator_id, created_at
		FROM clubs
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	defer rows.Close()

	return scanClubs(rows)
}

func (s *ClubStore) ListByMember(ctx context.Context, userID uuid.UUID) ([]models.Club, error) {
	query := `
		SELECT c.id, c.name, c.description, c.book_id, c.creator_id, c.created_at
		FROM clubs c
		JOIN club_members m ON m.club_id = c.id
		WHERE m.user_id = $1
		ORDER BY c.created_at DESC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list clubs by member: %w", err)
	}
	defer rows.Close()

	return scanClubs(rows)
}

func scanClubs(rows pgx.Rows) ([]models.Club, error) {
	clubs := make([]models.Club, 0)
	for rows.Next() {
		var c models.Club
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Description,
			&c.BookID,
			&c.CreatorID,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan club: %w", err)
		}
		clubs = append(clubs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clubs: %w", err)
	}

	return clubs, nil
}

func (s *ClubStore) Update(ctx context.Context, clubID uuid.UUID, name, description string) (*models.Club, error) {
	query := `
		UPDATE clubs
		SET name = $2, description = $3
		WHERE id = $1
		RETURNING id, name, description, book_id, creator_id, created_at`

	var c models.Club
	err := s.pool.QueryRow(ctx, query, clubID, name, description).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.BookID,
		&c.CreatorID,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update club: %w", err)
	}
	return &c, nil
}

// Delete removes the club; members and messages go with it via ON DELETE
// CASCADE on their foreign keys.
func (s *ClubStore) Delete(ctx context.Context, clubID uuid.UUID) error {
	query := `
		DELETE FROM clubs
		WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, clubID)
	if err != nil {
		return fmt.Errorf("delete club: %w", err)
	}
	return nil
}
