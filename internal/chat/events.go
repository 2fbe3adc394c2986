package chat

import "github.com/google/uuid"

// Event names carried in the envelope's type field.
const (
	EventMessageCreated = "message-created"
	EventMessageEdited  = "message-edited"
	EventMessageDeleted = "message-deleted"
	EventOnlineUsers    = "online-users"
	EventMemberRemoved  = "member-removed"
)

// MemberRemoved is the member-removed payload, sent on both voluntary
// leaves and moderation removals.
type MemberRemoved struct {
	UserID uuid.UUID `json:"userId"`
}

// PurgedMessage is the message-deleted payload for an admin purge. The row
// is gone, so unlike a tombstone broadcast there is no text or author to
// carry, only enough for clients to drop the message.
type PurgedMessage struct {
	ID        int64     `json:"id"`
	ClubID    uuid.UUID `json:"clubId"`
	Deleted   bool      `json:"deleted"`
	DeletedBy string    `json:"deletedBy"`
}
