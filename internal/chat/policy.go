// Package chat implements club messaging: sending, history, edits,
// tombstone deletes, membership moderation, and event fan-out.
package chat

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Umair-Ahm3d/Club-Lit/internal/fault"
	"github.com/Umair-Ahm3d/Club-Lit/internal/models"
)

// EditWindow is how long after sending a message its author may edit or
// delete it. Outside the window only the club creator or an admin can act.
const EditWindow = 5 * time.Minute

// MaxMessageLen caps message text, counted in runes.
const MaxMessageLen = 2000

// Actor identifies who is performing an operation, as taken from their
// token claims.
type Actor struct {
	ID      uuid.UUID
	IsAdmin bool
}

// ValidateText normalizes message text and rejects blank or oversized
// input. The trimmed form is what gets stored.
func ValidateText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", fault.Validation("message text must not be blank")
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageLen {
		return "", fault.Validation("message text exceeds %d characters", MaxMessageLen)
	}
	return trimmed, nil
}

// CanEditMessage allows only the author, and only while the edit window is
// open. The window is measured from the original send, not the last edit.
func CanEditMessage(actor Actor, msg *models.Message, now time.Time) error {
	if actor.ID != msg.AuthorID {
		return fault.Permission("only the author may edit a message")
	}
	if now.Sub(msg.CreatedAt) > EditWindow {
		return fault.Permission("the edit window has closed")
	}
	return nil
}

// DeleteRole decides whether the actor may delete the message and which
// right they exercise. The most specific right wins: the author acting
// inside the window deletes as themselves even when they also own the club
// or hold the admin flag.
func DeleteRole(actor Actor, club *models.Club, msg *models.Message, now time.Time) (string, error) {
	if actor.ID == msg.AuthorID && now.Sub(msg.CreatedAt) <= EditWindow {
		return models.DeletedBySelf, nil
	}
	if actor.ID == club.CreatorID {
		return models.DeletedByOwner, nil
	}
	if actor.IsAdmin {
		return models.DeletedByAdmin, nil
	}
	if actor.ID == msg.AuthorID {
		return "", fault.Permission("the delete window for your own messages has closed")
	}
	return "", fault.Permission("you may not delete this message")
}

// CanRemoveMember covers both voluntary leaves (actor == target) and
// moderation removals. The club creator is permanent: they can neither
// leave nor be removed while the club exists.
func CanRemoveMember(actor Actor, club *models.Club, targetID uuid.UUID) error {
	if targetID == club.CreatorID {
		if actor.ID == club.CreatorID {
			return fault.Permission("the creator cannot leave their club; delete the club instead")
		}
		return fault.Permission("the club creator cannot be removed")
	}
	if actor.ID == targetID || actor.ID == club.CreatorID || actor.IsAdmin {
		return nil
	}
	return fault.Permission("only the club creator or an admin may remove members")
}
