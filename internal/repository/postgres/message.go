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

type MessageStore struct {
	pool *pgxpool.Pool
}

func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

const messageColumns = `id, club_id, author_id, author_name, author_avatar, body, created_at, edited_at, deleted, deleted_by`

func scanMessage(row pgx.Row) (*models.Message, error) {
	var msg models.Message
	err := row.Scan(
		&msg.ID,
		&msg.ClubID,
		&msg.AuthorID,
		&msg.AuthorName,
		&msg.AuthorAvatar,
		&msg.Text,
		&msg.CreatedAt,
		&msg.EditedAt,
		&msg.Deleted,
		&msg.DeletedBy,
	)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// Append stores a message. bigserial assigns the id, so ids follow insert
// order and a higher id always means a newer message.
func (s *MessageStore) Append(ctx context.Context, clubID, authorID uuid.UUID, authorName, authorAvatar, body string) (*models.Message, error) {
	query := `
		INSERT INTO messages (club_id, author_id, author_name, author_avatar, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + messageColumns

	msg, err := scanMessage(s.pool.QueryRow(ctx, query, clubID, authorID, authorName, authorAvatar, body))
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

func (s *MessageStore) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE id = $1`

	msg, err := scanMessage(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}

// ListByClub pages newest first on the id cursor. before=0 starts at the
// latest; otherwise only ids below the cursor come back. Tombstones are
// included so history keeps its shape.
func (s *MessageStore) ListByClub(ctx context.Context, clubID uuid.UUID, before int64, limit int) ([]models.Message, error) {
	var query string
	var args []any

	if before > 0 {
		query = `
			SELECT ` + messageColumns + `
			FROM messages
			WHERE club_id = $1 AND id < $2
			ORDER BY id DESC
			LIMIT $3`
		args = []any{clubID, before, limit}
	} else {
		query = `
			SELECT ` + messageColumns + `
			FROM messages
			WHERE club_id = $1
			ORDER BY id DESC
			LIMIT $2`
		args = []any{clubID, limit}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

func (s *MessageStore) UpdateBody(ctx context.Context, id int64, body string) (*models.Message, error) {
	query := `
		UPDATE messages
		SET body = $2, edited_at = now()
		WHERE id = $1
		RETURNING ` + messageColumns

	msg, err := scanMessage(s.pool.QueryRow(ctx, query, id, body))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update message: %w", err)
	}
	return msg, nil
}

// MarkDeleted blanks the body and flags the row instead of removing it.
// The tombstone keeps the id and created_at, so history ordering and
// pagination cursors stay valid.
func (s *MessageStore) MarkDeleted(ctx context.Context, id int64, deletedBy string) (*models.Message, error) {
	query := `
		UPDATE messages
		SET body = '', deleted = TRUE, deleted_by = $2
		WHERE id = $1
		RETURNING ` + messageColumns

	msg, err := scanMessage(s.pool.QueryRow(ctx, query, id, deletedBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("mark message deleted: %w", err)
	}
	return msg, nil
}

func (s *MessageStore) Remove(ctx context.Context, id int64) error {
	query := `
		DELETE FROM messages
		WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("remove message: %w", err)
	}
	return nil
}
