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

type CommentStore struct {
	pool *pgxpool.Pool
}

func NewCommentStore(pool *pgxpool.Pool) *CommentStore {
	return &CommentStore{pool: pool}
}

func (s *CommentStore) Create(ctx context.Context, bookID, userID uuid.UUID, userName, body string) (*models.Comment, error) {
	query := `
		INSERT INTO comments (book_id, user_id, user_name, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, book_id, user_id, user_name, body, created_at`

	var c models.Comment
	err := s.pool.QueryRow(ctx, query, bookID, userID, userName, body).Scan(
		&c.ID,
		&c.BookID,
		&c.UserID,
		&c.UserName,
		&c.Body,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &c, nil
}

func (s *CommentStore) GetByID(ctx context.Context, commentID uuid.UUID) (*models.Comment, error) {
	query := `
		SELECT id, book_id, user_id, user_name, body, created_at
		FROM comments
		WHERE id = $1`

	var c models.Comment
	err := s.pool.QueryRow(ctx, query, commentID).Scan(
		&c.ID,
		&c.BookID,
		&c.UserID,
		&c.UserName,
		&c.Body,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

func (s *CommentStore) ListByBook(ctx context.Context, bookID uuid.UUID) ([]models.Comment, error) {
	query := `
		SELECT id, book_id, user_id, user_name, body, created_at
		FROM comments
		WHERE book_id = $1
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(
			&c.ID,
			&c.BookID,
			&c.UserID,
			&c.UserName,
			&c.Body,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

func (s *CommentStore) Delete(ctx context.Context, commentID uuid.UUID) error {
	query := `
		DELETE FROM comments
		WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
