package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Envelope is the frame format for every server-to-client event.
type Envelope struct {
	Type   string    `json:"type"`
	ClubID uuid.UUID `json:"clubId"`
	Data   any       `json:"data"`
}

// Hub maps club rooms to the connections subscribed to them. One
// connection may sit in several rooms at once.
type Hub struct {
	logger *zap.Logger

	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*Connection]struct{}
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger,
		rooms:  make(map[uuid.UUID]map[*Connection]struct{}),
	}
}

func (h *Hub) Subscribe(clubID uuid.UUID, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.rooms[clubID]
	if room == nil {
		room = make(map[*Connection]struct{})
		h.rooms[clubID] = room
	}
	room[conn] = struct{}{}
}

func (h *Hub) Unsubscribe(clubID uuid.UUID, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.rooms[clubID]
	if room == nil {
		return
	}
	delete(room, conn)
	if len(room) == 0 {
		delete(h.rooms, clubID)
	}
}

// Broadcast sends one event to every connection in the club room and
// returns how many accepted it. A connection whose buffer is full gets
// closed instead of stalling the room; its reader notices and cleans up.
func (h *Hub) Broadcast(clubID uuid.UUID, event string, data any) int {
	payload, err := json.Marshal(Envelope{Type: event, ClubID: clubID, Data: data})
	if err != nil {
		h.logger.Error("marshal event", zap.String("event", event), zap.Error(err))
		return 0
	}

	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.rooms[clubID]))
	for conn := range h.rooms[clubID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, conn := range conns {
		if conn.Send(payload) {
			delivered++
			continue
		}
		h.logger.Warn("dropping slow client",
			zap.String("club_id", clubID.String()),
			zap.String("user_id", conn.UserID.String()),
		)
		conn.Close()
	}
	return delivered
}

// SendTo delivers one event to a single connection, bypassing the room.
// Used to hand a fresh subscriber state the rest of the room already has.
func (h *Hub) SendTo(conn *Connection, clubID uuid.UUID, event string, data any) bool {
	payload, err := json.Marshal(Envelope{Type: event, ClubID: clubID, Data: data})
	if err != nil {
		h.logger.Error("marshal event", zap.String("event", event), zap.Error(err))
		return false
	}
	return conn.Send(payload)
}

// RoomSize returns the number of connections subscribed to the club.
func (h *Hub) RoomSize(clubID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[clubID])
}
