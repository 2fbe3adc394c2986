package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Umair-Ahm3d/Club-Lit/internal/models"
)

// Every method takes a context so a cancelled request cancels its queries.
// Lookups return (nil, nil) when the row does not exist; callers decide
// whether that is a 404 or a fault.

// UserRepository handles account persistence.
type UserRepository interface {
	Create(ctx context.Context, email, displayName, passwordHash string) (*models.User, error)

	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// GetByEmail backs login. Emails are unique platform-wide.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	UpdateProfile(ctx context.Context, userID uuid.UUID, displayName, avatar string) (*models.User, error)

	SetAdmin(ctx context.Context, userID uuid.UUID, isAdmin bool) error

	List(ctx context.Context) ([]models.User, error)
}

// BookRepository handles the catalog.
type BookRepository interface {
	Create(ctx context.Context, title, author, genre, description string, uploaderID uuid.UUID) (*models.Book, error)

	GetByID(ctx context.Context, bookID uuid.UUID) (*models.Book, error)

	// List filters by genre and a title/author substring; empty strings
	// mean no filter. Newest first.
	List(ctx context.Context, genre, search string) ([]models.Book, error)

	Update(ctx context.Context, bookID uuid.UUID, title, author, genre, description string) (*models.Book, error)

	SetCoverPath(ctx context.Context, bookID uuid.UUID, path string) error
	SetPDFPath(ctx context.Context, bookID uuid.UUID, path string) error

	Delete(ctx context.Context, bookID uuid.UUID) error
}

// ClubRepository handles reading clubs.
type ClubRepository interface {
	Create(ctx context.Context, name, description string, bookID, creatorID uuid.UUID) (*models.Club, error)

	GetByID(ctx context.Context, clubID uuid.UUID) (*models.Club, error)

	List(ctx context.Context) ([]models.Club, error)

	// ListByMember returns the clubs a user belongs to, newest first.
	ListByMember(ctx context.Context, userID uuid.UUID) ([]models.Club, error)

	Update(ctx context.Context, clubID uuid.UUID, name, description string) (*models.Club, error)

	Delete(ctx context.Context, clubID uuid.UUID) error
}

// MembershipRepository handles the club↔user relation.
type MembershipRepository interface {
	// Add is idempotent: adding an existing member is a no-op.
	Add(ctx context.Context, clubID, userID uuid.UUID) error

	// Remove is idempotent: removing a non-member deletes zero rows.
	Remove(ctx context.Context, clubID, userID uuid.UUID) error

	List(ctx context.Context, clubID uuid.UUID) ([]models.ClubMember, error)

	// IsMember is the hot-path check before every send and socket subscribe.
	IsMember(ctx context.Context, clubID, userID uuid.UUID) (bool, error)
}

// MessageRepository persists club chat messages.
type MessageRepository interface {
	// Append stores a message and returns it with the id and timestamp the
	// database assigned. Ids are strictly increasing per club.
	Append(ctx context.Context, clubID, authorID uuid.UUID, authorName, authorAvatar, body string) (*models.Message, error)

	GetByID(ctx context.Context, id int64) (*models.Message, error)

	// ListByClub returns messages newest first. before=0 starts at the
	// latest; otherwise only ids below the cursor are returned.
	ListByClub(ctx context.Context, clubID uuid.UUID, before int64, limit int) ([]models.Message, error)

	// UpdateBody replaces the text and stamps edited_at, returning the
	// updated row. (nil, nil) if the id does not exist.
	UpdateBody(ctx context.Context, id int64, body string) (*models.Message, error)

	// MarkDeleted turns the row into a tombstone: deleted flag set, body
	// blanked, deleted_by recorded. Returns the tombstone row.
	MarkDeleted(ctx context.Context, id int64, deletedBy string) (*models.Message, error)

	// Remove hard-deletes the row. Admin purge only.
	Remove(ctx context.Context, id int64) error
}

// CommentRepository handles book discussion notes.
type CommentRepository interface {
	Create(ctx context.Context, bookID, userID uuid.UUID, userName, body string) (*models.Comment, error)

	GetByID(ctx context.Context, commentID uuid.UUID) (*models.Comment, error)

	ListByBook(ctx context.Context, bookID uuid.UUID) ([]models.Comment, error)

	Delete(ctx context.Context, commentID uuid.UUID) error
}

// RatingRepository handles per-user star ratings.
type RatingRepository interface {
	// Rate upserts the caller's rating; a second rating replaces the first.
	Rate(ctx context.Context, bookID, userID uuid.UUID, stars int) error

	Summary(ctx context.Context, bookID uuid.UUID) (*models.RatingSummary, error)

	// UserRating returns 0 when the user has not rated the book.
	UserRating(ctx context.Context, bookID, userID uuid.UUID) (int, error)
}

// BookmarkRepository tracks reading positions.
type BookmarkRepository interface {
	Upsert(ctx context.Context, userID, bookID uuid.UUID, page int) (*models.Bookmark, error)

	Get(ctx context.Context, userID, bookID uuid.UUID) (*models.Bookmark, error)

	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Bookmark, error)
}

// RequestRepository handles reader requests for new catalog titles.
type RequestRepository interface {
	Create(ctx context.Context, userID uuid.UUID, title, author, note string) (*models.BookRequest, error)

	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.BookRequest, error)

	// List filters by status; empty means all. Newest first.
	List(ctx context.Context, status string) ([]models.BookRequest, error)

	Resolve(ctx context.Context, requestID uuid.UUID, status string) (*models.BookRequest, error)
}
