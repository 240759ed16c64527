package session

import (
	"sort"
	"sync"

	"kol_arena/internal/domain"
)

// Store is the authoritative table of active game rooms. It is the single
// shared mutable resource of the subsystem, so every implementation must
// serialize writers per room. Reads return snapshots, never live state.
type Store interface {
	Insert(room *domain.GameRoom) error
	Update(id string, fn func(*domain.GameRoom) error) error
	Snapshot(id string) (*domain.GameRoom, bool)
	Active() []*domain.GameRoom
	Delete(id string)
	Len() int
}

type roomEntry struct {
	mu   sync.Mutex
	room *domain.GameRoom
}

// MemoryStore keeps rooms in memory only. Room state is ephemeral: a restart
// clears the table and clients rebuild from fresh snapshots.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*roomEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*roomEntry)}
}

func (s *MemoryStore) Insert(room *domain.GameRoom) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[room.ID]; exists {
		return ErrRoomExists
	}
	s.rooms[room.ID] = &roomEntry{room: room.Clone()}
	return nil
}

// Update runs fn against a clone of the room under that room's own lock and
// commits the clone only when fn succeeds. A failed update leaves the room
// exactly as it was. Two updates to one room never interleave, updates to
// different rooms never contend.
func (s *MemoryStore) Update(id string, fn func(*domain.GameRoom) error) error {
	s.mu.RLock()
	entry, ok := s.rooms[id]
	s.mu.RUnlock()

	if !ok {
		return ErrRoomNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	next := entry.room.Clone()
	if err := fn(next); err != nil {
		return err
	}
	entry.room = next
	return nil
}

// Snapshot returns a deep copy of the room, or false if it is gone.
func (s *MemoryStore) Snapshot(id string) (*domain.GameRoom, bool) {
	s.mu.RLock()
	entry, ok := s.rooms[id]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.room.Clone(), true
}

// Active returns snapshots of rooms still waiting for players, newest first.
func (s *MemoryStore) Active() []*domain.GameRoom {
	s.mu.RLock()
	entries := make([]*roomEntry, 0, len(s.rooms))
	for _, e := range s.rooms {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	rooms := make([]*domain.GameRoom, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if e.room.Status == domain.StatusWaiting {
			rooms = append(rooms, e.room.Clone())
		}
		e.mu.Unlock()
	}

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})
	return rooms
}

func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	delete(s.rooms, id)
	s.mu.Unlock()
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
