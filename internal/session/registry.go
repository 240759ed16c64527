package session

import (
	"sync"

	"kol_arena/internal/domain"
)

// Handler receives one room event. Handlers must not block: delivery is
// best-effort fan-out with no back-pressure, so a slow subscriber only
// loses its own events.
type Handler func(update domain.GameUpdate)

// Registry maps room ids to the set of interested subscribers. Read-mostly;
// safe for concurrent fan-out.
type Registry struct {
	mu   sync.RWMutex
	subs map[string]map[int64]Handler
	seq  int64
}

func NewRegistry() *Registry {
	return &Registry{subs: make(map[string]map[int64]Handler)}
}

// Subscribe registers a handler for a room and returns the token that
// removes it again. Multiple subscribers per room are fine (spectators).
func (r *Registry) Subscribe(roomID string, h Handler) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	if r.subs[roomID] == nil {
		r.subs[roomID] = make(map[int64]Handler)
	}
	r.subs[roomID][r.seq] = h
	return r.seq
}

func (r *Registry) Unsubscribe(roomID string, token int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if handlers, ok := r.subs[roomID]; ok {
		delete(handlers, token)
		if len(handlers) == 0 {
			delete(r.subs, roomID)
		}
	}
}

// Publish delivers the update to every current subscriber of its room,
// independent of each handler's outcome.
func (r *Registry) Publish(update domain.GameUpdate) {
	r.mu.RLock()
	handlers := make([]Handler, 0, len(r.subs[update.RoomID]))
	for _, h := range r.subs[update.RoomID] {
		handlers = append(handlers, h)
	}
	r.mu.RUnlock()

	for _, h := range handlers {
		h(update)
	}
}

// DropRoom removes every subscription of a deleted room.
func (r *Registry) DropRoom(roomID string) {
	r.mu.Lock()
	delete(r.subs, roomID)
	r.mu.Unlock()
}

// Subscribers reports how many handlers a room currently has.
func (r *Registry) Subscribers(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs[roomID])
}
