package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a platform account. IsAdmin grants platform-wide moderation
// rights: purging messages, resolving book requests, removing members.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	Avatar       string    `json:"avatar"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Book is a catalog entry. CoverPath and PDFPath are paths under the
// upload directory, empty until the corresponding file is uploaded.
type Book struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Genre       string    `json:"genre"`
	Description string    `json:"description"`
	CoverPath   string    `json:"coverPath"`
	PDFPath     string    `json:"pdfPath"`
	UploaderID  uuid.UUID `json:"uploaderId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Club is a reading group around one featured book. The creator owns the
// club: always a member, can delete any message and remove any member,
// and cannot leave or be removed while the club exists.
type Club struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	BookID      uuid.UUID `json:"bookId"`
	CreatorID   uuid.UUID `json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ClubMember is one row of the club-user relation. Ownership is derived by
// comparing UserID against the club's CreatorID, so there is no role column.
// DisplayName and Avatar are joined in from users when rosters are listed.
type ClubMember struct {
	ClubID      uuid.UUID `json:"clubId"`
	UserID      uuid.UUID `json:"userId"`
	DisplayName string    `json:"displayName,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// Recorded on a tombstone: the right the deleting actor exercised.
const (
	DeletedBySelf  = "self"
	DeletedByOwner = "club-owner"
	DeletedByAdmin = "admin"
)

// Message is one chat message in a club room.
//
// AuthorName and AuthorAvatar are snapshots taken at send time, so a later
// rename does not rewrite history. A deleted message stays as a tombstone:
// Deleted set, DeletedBy recording who removed it, Text blanked. The id and
// its position in the sequence never change.
type Message struct {
	ID           int64      `json:"id"`
	ClubID       uuid.UUID  `json:"clubId"`
	AuthorID     uuid.UUID  `json:"authorId"`
	AuthorName   string     `json:"authorName"`
	AuthorAvatar string     `json:"authorAvatar"`
	Text         string     `json:"text"`
	CreatedAt    time.Time  `json:"createdAt"`
	EditedAt     *time.Time `json:"editedAt,omitempty"`
	Deleted      bool       `json:"deleted"`
	DeletedBy    string     `json:"deletedBy,omitempty"`
}

// Comment is a reader note on a book. UserName is a send-time snapshot like
// the message author fields.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	BookID    uuid.UUID `json:"bookId"`
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// RatingSummary aggregates the per-user star ratings of a book.
type RatingSummary struct {
	BookID  uuid.UUID `json:"bookId"`
	Average float64   `json:"average"`
	Count   int       `json:"count"`
}

// Bookmark marks the page a reader is on in a book, one per (user, book).
type Bookmark struct {
	UserID    uuid.UUID `json:"userId"`
	BookID    uuid.UUID `json:"bookId"`
	Page      int       `json:"page"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Book request lifecycle.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestDenied   = "denied"
)

// BookRequest is a reader's ask for a title to be added to the catalog,
// resolved by an administrator.
type BookRequest struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"userId"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	Note       string     `json:"note"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}
