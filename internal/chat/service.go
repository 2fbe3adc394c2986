package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Umair-Ahm3d/Club-Lit/internal/fault"
	"github.com/Umair-Ahm3d/Club-Lit/internal/models"
	"github.com/Umair-Ahm3d/Club-Lit/internal/presence"
	"github.com/Umair-Ahm3d/Club-Lit/internal/realtime"
	"github.com/Umair-Ahm3d/Club-Lit/internal/repository"
)

// History page sizes. Requests outside the range are clamped, not refused.
const (
	DefaultListLimit = 200
	MaxListLimit     = 500
)

// Hub is the fan-out surface the service needs. *realtime.Hub satisfies it.
type Hub interface {
	Subscribe(clubID uuid.UUID, conn *realtime.Connection)
	Unsubscribe(clubID uuid.UUID, conn *realtime.Connection)
	Broadcast(clubID uuid.UUID, event string, data any) int
	SendTo(conn *realtime.Connection, clubID uuid.UUID, event string, data any) bool
}

// ClubSource and UserSource are the read-only views of their repositories
// the service needs.
type ClubSource interface {
	GetByID(ctx context.Context, clubID uuid.UUID) (*models.Club, error)
}

type UserSource interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// Service ties messages, membership, presence, and fan-out together. Every
// mutation goes through here so the store write and the room broadcast
// cannot drift apart.
type Service struct {
	messages repository.MessageRepository
	members  repository.MembershipRepository
	clubs    ClubSource
	users    UserSource
	presence *presence.Registry
	hub      Hub
	logger   *zap.Logger

	now func() time.Time
}

func NewService(
	messages repository.MessageRepository,
	members repository.MembershipRepository,
	clubs ClubSource,
	users UserSource,
	reg *presence.Registry,
	hub Hub,
	logger *zap.Logger,
) *Service {
	return &Service{
		messages: messages,
		members:  members,
		clubs:    clubs,
		users:    users,
		presence: reg,
		hub:      hub,
		logger:   logger,
		now:      time.Now,
	}
}

// requireClub loads the club or classifies the failure.
func (s *Service) requireClub(ctx context.Context, clubID uuid.UUID) (*models.Club, error) {
	club, err := s.clubs.GetByID(ctx, clubID)
	if err != nil {
		return nil, fault.Transient(err, "load club")
	}
	if club == nil {
		return nil, fault.NotFound("club not found")
	}
	return club, nil
}

// requireMember verifies the club exists and the user belongs to it.
func (s *Service) requireMember(ctx context.Context, clubID, userID uuid.UUID) (*models.Club, error) {
	club, err := s.requireClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	member, err := s.members.IsMember(ctx, clubID, userID)
	if err != nil {
		return nil, fault.Transient(err, "check membership")
	}
	if !member {
		return nil, fault.Permission("only club members may do this")
	}
	return club, nil
}

// SendMessage validates, persists, and fans out a new message. The author
// name and avatar are snapshotted into the row at this point.
func (s *Service) SendMessage(ctx context.Context, clubID uuid.UUID, actor Actor, text string) (*models.Message, error) {
	trimmed, err := ValidateText(text)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireMember(ctx, clubID, actor.ID); err != nil {
		return nil, err
	}

	author, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, fault.Transient(err, "load author")
	}
	if author == nil {
		return nil, fault.NotFound("author account not found")
	}

	msg, err := s.messages.Append(ctx, clubID, actor.ID, author.DisplayName, author.Avatar, trimmed)
	if err != nil {
		return nil, fault.Transient(err, "store message")
	}

	s.hub.Broadcast(clubID, EventMessageCreated, msg)
	return msg, nil
}

// ListMessages returns club history in ascending id order. before=0 means
// the latest page; otherwise only messages older than the cursor. The
// store reads newest first so the limit trims old messages, then the page
// is reversed for chronological rendering.
func (s *Service) ListMessages(ctx context.Context, clubID uuid.UUID, actor Actor, before int64, limit int) ([]models.Message, error) {
	if _, err := s.requireMember(ctx, clubID, actor.ID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	msgs, err := s.messages.ListByClub(ctx, clubID, before, limit)
	if err != nil {
		return nil, fault.Transient(err, "list messages")
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// EditMessage replaces the text of the actor's own message while the edit
// window is open, then fans out the updated message. Tombstones cannot be
// edited; they read as gone.
func (s *Service) EditMessage(ctx context.Context, id int64, actor Actor, text string) (*models.Message, error) {
	trimmed, err := ValidateText(text)
	if err != nil {
		return nil, err
	}

	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, fault.Transient(err, "load message")
	}
	if msg == nil || msg.Deleted {
		return nil, fault.NotFound("message not found")
	}
	if err := CanEditMessage(actor, msg, s.now()); err != nil {
		return nil, err
	}

	updated, err := s.messages.UpdateBody(ctx, id, trimmed)
	if err != nil {
		return nil, fault.Transient(err, "update message")
	}
	if updated == nil {
		return nil, fault.NotFound("message not found")
	}

	s.hub.Broadcast(updated.ClubID, EventMessageEdited, updated)
	return updated, nil
}

// DeleteMessage turns a message into a tombstone and fans the tombstone
// out, so every client renders the same placeholder. Deleting an already
// deleted message returns the existing tombstone without a new broadcast.
func (s *Service) DeleteMessage(ctx context.Context, id int64, actor Actor) (*models.Message, error) {
	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, fault.Transient(err, "load message")
	}
	if msg == nil {
		return nil, fault.NotFound("message not found")
	}
	if msg.Deleted {
		return msg, nil
	}

	club, err := s.requireClub(ctx, msg.ClubID)
	if err != nil {
		return nil, err
	}
	role, err := DeleteRole(actor, club, msg, s.now())
	if err != nil {
		return nil, err
	}

	tomb, err := s.messages.MarkDeleted(ctx, id, role)
	if err != nil {
		return nil, fault.Transient(err, "delete message")
	}
	if tomb == nil {
		return nil, fault.NotFound("message not found")
	}

	s.logger.Info("message deleted",
		zap.Int64("message_id", id),
		zap.String("club_id", tomb.ClubID.String()),
		zap.String("deleted_by", role),
	)
	s.hub.Broadcast(tomb.ClubID, EventMessageDeleted, tomb)
	return tomb, nil
}

// PurgeMessage hard-deletes the row. Admin only; this is the one path that
// erases rather than tombstones, for content that must not stay stored.
func (s *Service) PurgeMessage(ctx context.Context, id int64, actor Actor) error {
	if !actor.IsAdmin {
		return fault.Permission("only admins may purge messages")
	}

	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return fault.Transient(err, "load message")
	}
	if msg == nil {
		return fault.NotFound("message not found")
	}

	if err := s.messages.Remove(ctx, id); err != nil {
		return fault.Transient(err, "purge message")
	}

	s.logger.Info("message purged",
		zap.Int64("message_id", id),
		zap.String("club_id", msg.ClubID.String()),
		zap.String("admin_id", actor.ID.String()),
	)
	s.hub.Broadcast(msg.ClubID, EventMessageDeleted, PurgedMessage{
		ID:        id,
		ClubID:    msg.ClubID,
		Deleted:   true,
		DeletedBy: models.DeletedByAdmin,
	})
	return nil
}

// JoinClub adds the user to the club. Joining twice is a silent success.
func (s *Service) JoinClub(ctx context.Context, clubID uuid.UUID, actor Actor) error {
	if _, err := s.requireClub(ctx, clubID); err != nil {
		return err
	}
	if err := s.members.Add(ctx, clubID, actor.ID); err != nil {
		return fault.Transient(err, "join club")
	}
	return nil
}

// LeaveClub removes the actor from the club, with the same fan-out as a
// moderation removal. The creator cannot leave.
func (s *Service) LeaveClub(ctx context.Context, clubID uuid.UUID, actor Actor) error {
	return s.RemoveMember(ctx, clubID, actor, actor.ID)
}

// RemoveMember removes a member and fans out member-removed. The removed
// user's open sockets stay connected; they lose posting rights on the next
// membership check and drop off presence when they disconnect.
func (s *Service) RemoveMember(ctx context.Context, clubID uuid.UUID, actor Actor, targetID uuid.UUID) error {
	club, err := s.requireClub(ctx, clubID)
	if err != nil {
		return err
	}
	if err := CanRemoveMember(actor, club, targetID); err != nil {
		return err
	}

	member, err := s.members.IsMember(ctx, clubID, targetID)
	if err != nil {
		return fault.Transient(err, "check membership")
	}
	if !member {
		return fault.NotFound("user is not a member of this club")
	}

	if err := s.members.Remove(ctx, clubID, targetID); err != nil {
		return fault.Transient(err, "remove member")
	}

	s.logger.Info("member removed",
		zap.String("club_id", clubID.String()),
		zap.String("user_id", targetID.String()),
		zap.String("actor_id", actor.ID.String()),
	)
	s.hub.Broadcast(clubID, EventMemberRemoved, MemberRemoved{UserID: targetID})
	return nil
}

// OnlineUsers returns the club's current roster, member-visible only.
func (s *Service) OnlineUsers(ctx context.Context, clubID uuid.UUID, actor Actor) ([]uuid.UUID, error) {
	if _, err := s.requireMember(ctx, clubID, actor.ID); err != nil {
		return nil, err
	}
	return s.presence.Online(clubID), nil
}

// SubscribeClub puts a connection into the club room. When this is the
// user's first connection there, everyone gets the new roster; another tab
// of an already online user only gets the roster itself.
func (s *Service) SubscribeClub(ctx context.Context, conn *realtime.Connection, clubID uuid.UUID) error {
	if _, err := s.requireMember(ctx, clubID, conn.UserID); err != nil {
		return err
	}

	s.hub.Subscribe(clubID, conn)
	if s.presence.Join(clubID, conn.UserID) {
		s.hub.Broadcast(clubID, EventOnlineUsers, s.presence.Online(clubID))
	} else {
		s.hub.SendTo(conn, clubID, EventOnlineUsers, s.presence.Online(clubID))
	}
	return nil
}

// UnsubscribeClub takes a connection out of the room. It never fails and
// needs no membership check, so cleanup also works for users removed from
// the club while connected. The roster goes out only when the user's last
// connection left.
func (s *Service) UnsubscribeClub(conn *realtime.Connection, clubID uuid.UUID) {
	s.hub.Unsubscribe(clubID, conn)
	if s.presence.Leave(clubID, conn.UserID) {
		s.hub.Broadcast(clubID, EventOnlineUsers, s.presence.Online(clubID))
	}
}
