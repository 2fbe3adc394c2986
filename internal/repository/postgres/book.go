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

type BookStore struct {
	pool *pgxpool.Pool
}

func NewBookStore(pool *pgxpool.Pool) *BookStore {
	return &BookStore{pool: pool}
}

func (s *BookStore) Create(ctx context.Context, title, author, genre, description string, uploaderID uuid.UUID) (*models.Book, error) {
	query := `
		INSERT INTO books (title, author, genre, description, uploader_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, author, genre, description, cover_path, pdf_path, uploader_id, created_at`

	var b models.Book
	err := s.pool.QueryRow(ctx, query, title, author, genre, description, uploaderID).Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.Genre,
		&b.Description,
		&b.CoverPath,
		&b.PDFPath,
		&b.UploaderID,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return &b, nil
}

func (s *BookStore) GetByID(ctx context.Context, bookID uuid.UUID) (*models.Book, error) {
	query := `
		SELECT id, title, author, genre, description, cover_path, pdf_path, uploader_id, created_at
		FROM books
		WHERE id = $1`

	var b models.Book
	err := s.pool.QueryRow(ctx, query, bookID).Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.Genre,
		&b.Description,
		&b.CoverPath,
		&b.PDFPath,
		&b.UploaderID,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &b, nil
}

// List applies both filters in one statement. Empty genre or search matches
// everything, so the common unfiltered call takes the same path.
func (s *BookStore) List(ctx context.Context, genre, search string) ([]models.Book, error) {
	query := `
		SELECT id, title, author, genre, description, cover_path, pdf_path, uploader_id, created_at
		FROM books
		WHERE ($1 = '' OR genre = $1)
		  AND ($2 = '' OR title ILIKE '%' || $2 || '%' OR author ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, genre, search)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]models.Book, 0)
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(
			&b.ID,
			&b.Title,
			&b.Author,
			&b.Genre,
			&b.Description,
			&b.CoverPath,
			&b.PDFPath,
			&b.UploaderID,
			&b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}

	return books, nil
}

func (s *BookStore) Update(ctx context.Context, bookID uuid.UUID, title, author, genre, description string) (*models.Book, error) {
	query := `
		UPDATE books
		SET title = $2, author = $3, genre = $4, description = $5
		WHERE id = $1
		RETURNING id, title, author, genre, description, cover_path, pdf_path, uploader_id, created_at`

	var b models.Book
	err := s.pool.QueryRow(ctx, query, bookID, title, author, genre, description).Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.Genre,
		&b.Description,
		&b.CoverPath,
		&b.PDFPath,
		&b.UploaderID,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update book: %w", err)
	}
	return &b, nil
}

func (s *BookStore) SetCoverPath(ctx context.Context, bookID uuid.UUID, path string) error {
	query := `
		UPDATE books
		SET cover_path = $2
		WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, bookID, path)
	if err != nil {
		return fmt.Errorf("set cover path: %w", err)
	}
	return nil
}

func (s *BookStore) SetPDFPath(ctx context.Context, bookID uuid.UUID, path string) error {
	query := `
		UPDATE books
		SET pdf_path = $2
		WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, bookID, path)
	if err != nil {
		return fmt.Errorf("set pdf path: %w", err)
	}
	return nil
}

func (s *BookStore) Delete(ctx context.Context, bookID uuid.UUID) error {
	query := `
		DELETE FROM books
		WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, bookID)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}
