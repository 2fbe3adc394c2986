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

type RequestStore struct {
	pool *pgxpool.Pool
}

func NewRequestStore(pool *pgxpool.Pool) *RequestStore {
	return &RequestStore{pool: pool}
}

const requestColumns = `id, user_id, title, author, note, status, created_at, resolved_at`

func (s *RequestStore) Create(ctx context.Context, userID uuid.UUID, title, author, note string) (*models.BookRequest, error) {
	query := `
		INSERT INTO book_requests (user_id, title, author, note)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + requestColumns

	var r models.BookRequest
	err := s.pool.QueryRow(ctx, query, userID, title, author, note).Scan(
		&r.ID,
		&r.UserID,
		&r.Title,
		&r.Author,
		&r.Note,
		&r.Status,
		&r.CreatedAt,
		&r.ResolvedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert book request: %w", err)
	}
	return &r, nil
}

func (s *RequestStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.BookRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM book_requests
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list book requests by user: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

func (s *RequestStore) List(ctx context.Context, status string) ([]models.BookRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM book_requests
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("list book requests: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

func scanRequests(rows pgx.Rows) ([]models.BookRequest, error) {
	requests := make([]models.BookRequest, 0)
	for rows.Next() {
		var r models.BookRequest
		if err := rows.Scan(
			&r.ID,
			&r.UserID,
			&r.Title,
			&r.Author,
			&r.Note,
			&r.Status,
			&r.CreatedAt,
			&r.ResolvedAt,
		); err != nil {
			return nil, fmt.Errorf("scan book request: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate book requests: %w", err)
	}

	return requests, nil
}

func (s *RequestStore) Resolve(ctx context.Context, requestID uuid.UUID, status string) (*models.BookRequest, error) {
	query := `
		UPDATE book_requests
		SET status = $2, resolved_at = now()
		WHERE id = $1
		RETURNING ` + requestColumns

	var r models.BookRequest
	err := s.pool.QueryRow(ctx, query, requestID, status).Scan(
		&r.ID,
		&r.UserID,
		&r.Title,
		&r.Author,
		&r.Note,
		&r.Status,
		&r.CreatedAt,
		&r.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve book request: %w", err)
	}
	return &r, nil
}
