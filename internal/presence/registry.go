// Package presence tracks which users are online in which club rooms.
package presence

import (
	"bytes"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Registry counts live connections per (club, user). A user with two tabs
// open holds two connections but appears online once; they only go offline
// when the last connection drops. All methods are safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	clubs map[uuid.UUID]map[uuid.UUID]int
}

func NewRegistry() *Registry {
	return &Registry{
		clubs: make(map[uuid.UUID]map[uuid.UUID]int),
	}
}

// Join records one more connection for the user in the club. It reports
// whether the user just came online, meaning this was their first
// connection there. Callers broadcast a roster update only on that edge.
func (r *Registry) Join(clubID, userID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.clubs[clubID]
	if users == nil {
		users = make(map[uuid.UUID]int)
		r.clubs[clubID] = users
	}
	users[userID]++
	return users[userID] == 1
}

// Leave drops one connection for the user in the club. It reports whether
// the user went offline, meaning that was their last connection there.
// Leaving a club or user the registry does not know is a no-op.
func (r *Registry) Leave(clubID, userID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.clubs[clubID]
	if users == nil || users[userID] == 0 {
		return false
	}
	users[userID]--
	if users[userID] > 0 {
		return false
	}
	delete(users, userID)
	return true
}

// Online returns the users currently connected to the club, each listed
// once regardless of connection count, in a stable order.
func (r *Registry) Online(clubID uuid.UUID) []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.clubs[clubID]
	ids := make([]uuid.UUID, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}

// Connections returns the live connection count for one user in one club.
func (r *Registry) Connections(clubID, userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.clubs[clubID][userID]
}
