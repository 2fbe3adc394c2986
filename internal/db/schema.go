package db

import (
	"context"
	"fmt"
)

// Schema statements run in order on startup. Each is idempotent so a
// restart against an existing database is a no-op.
var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email         TEXT NOT NULL UNIQUE,
		display_name  TEXT NOT NULL,
		avatar        TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS books (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title       TEXT NOT NULL,
		author      TEXT NOT NULL,
		genre       TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		cover_path  TEXT NOT NULL DEFAULT '',
		pdf_path    TEXT NOT NULL DEFAULT '',
		uploader_id UUID NOT NULL REFERENCES users(id),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS clubs (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		book_id     UUID NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		creator_id  UUID NOT NULL REFERENCES users(id),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS club_members (
		club_id   UUID NOT NULL REFERENCES clubs(id) ON DELETE CASCADE,
		user_id   UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		joined_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (club_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id            BIGSERIAL PRIMARY KEY,
		club_id       UUID NOT NULL REFERENCES clubs(id) ON DELETE CASCADE,
		author_id     UUID NOT NULL REFERENCES users(id),
		author_name   TEXT NOT NULL,
		author_avatar TEXT NOT NULL DEFAULT '',
		body          TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		edited_at     TIMESTAMPTZ,
		deleted       BOOLEAN NOT NULL DEFAULT FALSE,
		deleted_by    TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_club_id ON messages (club_id, id)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		book_id    UUID NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		user_id    UUID NOT NULL REFERENCES users(id),
		user_name  TEXT NOT NULL,
		body       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS ratings (
		book_id    UUID NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		stars      INT NOT NULL CHECK (stars BETWEEN 1 AND 5),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (book_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS bookmarks (
		user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		book_id    UUID NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		page       INT NOT NULL DEFAULT 1,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, book_id)
	)`,

	`CREATE TABLE IF NOT EXISTS book_requests (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		author      TEXT NOT NULL DEFAULT '',
		note        TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'pending',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		resolved_at TIMESTAMPTZ
	)`,
}

// EnsureSchema creates every table the service needs if it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
