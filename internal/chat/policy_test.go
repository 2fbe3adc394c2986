package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Umair-Ahm3d/Club-Lit/internal/fault"
	"github.com/Umair-Ahm3d/Club-Lit/internal/models"
)

func TestValidateText(t *testing.T) {
	if _, err := ValidateText("   "); !fault.IsValidation(err) {
		t.Errorf("blank text: err = %v, want validation fault", err)
	}
	if _, err := ValidateText(strings.Repeat("x", MaxMessageLen+1)); !fault.IsValidation(err) {
		t.Errorf("oversized text: err = %v, want validation fault", err)
	}

	got, err := ValidateText("  hello  ")
	if err != nil {
		t.Fatalf("ValidateText: %v", err)
	}
	if got != "hello" {
		t.Errorf("ValidateText = %q, want trimmed %q", got, "hello")
	}
}

func TestCanEditMessageWindow(t *testing.T) {
	author := uuid.New()
	sent := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := &models.Message{AuthorID: author, CreatedAt: sent}
	actor := Actor{ID: author}

	if err := CanEditMessage(actor, msg, sent.Add(EditWindow)); err != nil {
		t.Errorf("edit exactly at window close: %v, want allowed", err)
	}
	if err := CanEditMessage(actor, msg, sent.Add(EditWindow+time.Second)); !fault.IsPermission(err) {
		t.Errorf("edit past window: err = %v, want permission fault", err)
	}
}

func TestCanEditMessageAuthorOnly(t *testing.T) {
	sent := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := &models.Message{AuthorID: uuid.New(), CreatedAt: sent}

	err := CanEditMessage(Actor{ID: uuid.New(), IsAdmin: true}, msg, sent)
	if !fault.IsPermission(err) {
		t.Errorf("admin editing someone else's message: err = %v, want permission fault", err)
	}
}

func TestDeleteRolePrecedence(t *testing.T) {
	creator := uuid.New()
	author := uuid.New()
	sent := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	club := &models.Club{ID: uuid.New(), CreatorID: creator}
	msg := &models.Message{AuthorID: author, ClubID: club.ID, CreatedAt: sent}

	cases := []struct {
		name     string
		actor    Actor
		now      time.Time
		wantRole string
	}{
		{"author inside window", Actor{ID: author}, sent.Add(time.Minute), models.DeletedBySelf},
		{"creator outside author window", Actor{ID: creator}, sent.Add(time.Hour), models.DeletedByOwner},
		{"admin", Actor{ID: uuid.New(), IsAdmin: true}, sent.Add(time.Hour), models.DeletedByAdmin},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			role, err := DeleteRole(tc.actor, club, msg, tc.now)
			if err != nil {
				t.Fatalf("DeleteRole: %v", err)
			}
			if role != tc.wantRole {
				t.Errorf("role = %q, want %q", role, tc.wantRole)
			}
		})
	}
}

func TestDeleteRoleSelfBeatsBroaderRights(t *testing.T) {
	creator := uuid.New()
	sent := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	club := &models.Club{ID: uuid.New(), CreatorID: creator}
	msg := &models.Message{AuthorID: creator, ClubID: club.ID, CreatedAt: sent}

	role, err := DeleteRole(Actor{ID: creator, IsAdmin: true}, club, msg, sent.Add(time.Minute))
	if err != nil {
		t.Fatalf("DeleteRole: %v", err)
	}
	if role != models.DeletedBySelf {
		t.Errorf("creator-admin deleting own fresh message: role = %q, want %q", role, models.DeletedBySelf)
	}
}

func TestDeleteRoleDenied(t *testing.T) {
	club := &models.Club{ID: uuid.New(), CreatorID: uuid.New()}
	author := uuid.New()
	sent := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := &models.Message{AuthorID: author, ClubID: club.ID, CreatedAt: sent}

	if _, err := DeleteRole(Actor{ID: author}, club, msg, sent.Add(time.Hour)); !fault.IsPermission(err) {
		t.Errorf("author past window: err = %v, want permission fault", err)
	}
	if _, err := DeleteRole(Actor{ID: uuid.New()}, club, msg, sent); !fault.IsPermission(err) {
		t.Errorf("unrelated member: err = %v, want permission fault", err)
	}
}

func TestCanRemoveMember(t *testing.T) {
	creator := uuid.New()
	member := uuid.New()
	club := &models.Club{ID: uuid.New(), CreatorID: creator}

	cases := []struct {
		name    string
		actor   Actor
		target  uuid.UUID
		allowed bool
	}{
		{"member leaves", Actor{ID: member}, member, true},
		{"creator removes member", Actor{ID: creator}, member, true},
		{"admin removes member", Actor{ID: uuid.New(), IsAdmin: true}, member, true},
		{"member removes other member", Actor{ID: uuid.New()}, member, false},
		{"creator leaves", Actor{ID: creator}, creator, false},
		{"admin removes creator", Actor{ID: uuid.New(), IsAdmin: true}, creator, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanRemoveMember(tc.actor, club, tc.target)
			if tc.allowed && err != nil {
				t.Errorf("CanRemoveMember = %v, want allowed", err)
			}
			if !tc.allowed && !fault.IsPermission(err) {
				t.Errorf("CanRemoveMember = %v, want permission fault", err)
			}
		})
	}
}
