package session

import (
	"sync"
	"testing"
	"time"

	"kol_arena/internal/domain"
)

func newTestRoom(id string) *domain.GameRoom {
	return &domain.GameRoom{
		ID:       id,
		GameType: domain.GameTypeCoinflip,
		Players: []domain.Player{
			{ID: "walletA", BetAmount: 100},
		},
		Status:    domain.StatusWaiting,
		BetAmount: 100,
		Currency:  domain.CurrencySOL,
		Pot:       100,
		CreatedAt: time.Now(),
	}
}

func TestStoreInsertAndSnapshot(t *testing.T) {
	s := NewMemoryStore()

	if err := s.Insert(newTestRoom("r1")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Insert(newTestRoom("r1")); err != ErrRoomExists {
		t.Fatalf("duplicate insert: got %v, want ErrRoomExists", err)
	}

	snap, ok := s.Snapshot("r1")
	if !ok {
		t.Fatal("snapshot: room not found")
	}

	// snapshots must be isolated from the stored room
	snap.Players[0].BetAmount = 9999
	snap.Pot = 9999
	again, _ := s.Snapshot("r1")
	if again.Players[0].BetAmount != 100 || again.Pot != 100 {
		t.Fatal("snapshot mutation leaked into the store")
	}
}

func TestStoreUpdateSingleWriter(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Insert(newTestRoom("r1")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Update("r1", func(room *domain.GameRoom) error {
				room.Pot += 10
				return nil
			})
		}()
	}
	wg.Wait()

	snap, _ := s.Snapshot("r1")
	if snap.Pot != 100+writers*10 {
		t.Fatalf("pot = %d, want %d", snap.Pot, 100+writers*10)
	}
}

func TestStoreUpdateErrorLeavesRoomUntouched(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Insert(newTestRoom("r1")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	err := s.Update("r1", func(room *domain.GameRoom) error {
		room.Pot = 777
		return ErrRoomClosed
	})
	if err != ErrRoomClosed {
		t.Fatalf("update: got %v, want ErrRoomClosed", err)
	}

	snap, _ := s.Snapshot("r1")
	if snap.Pot != 100 {
		t.Fatalf("failed update mutated the room: pot = %d", snap.Pot)
	}

	if err := s.Update("missing", func(*domain.GameRoom) error { return nil }); err != ErrRoomNotFound {
		t.Fatalf("update missing: got %v, want ErrRoomNotFound", err)
	}
}

func TestStoreActiveNewestFirst(t *testing.T) {
	s := NewMemoryStore()

	r1 := newTestRoom("r1")
	r1.CreatedAt = time.Now().Add(-time.Minute)
	r2 := newTestRoom("r2")
	r3 := newTestRoom("r3")
	r3.CreatedAt = time.Now().Add(-2 * time.Minute)
	r3.Status = domain.StatusFinished

	for _, r := range []*domain.GameRoom{r1, r2, r3} {
		if err := s.Insert(r); err != nil {
			t.Fatalf("insert %s: %v", r.ID, err)
		}
	}

	active := s.Active()
	if len(active) != 2 {
		t.Fatalf("active rooms = %d, want 2", len(active))
	}
	if active[0].ID != "r2" || active[1].ID != "r1" {
		t.Fatalf("order = [%s %s], want [r2 r1]", active[0].ID, active[1].ID)
	}

	s.Delete("r2")
	s.Delete("r2") // idempotent
	if got := s.Len(); got != 2 {
		t.Fatalf("len after delete = %d, want 2", got)
	}
}
