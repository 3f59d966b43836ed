package room

import (
	"errors"
	"testing"
	"time"
)

func TestCreateRoom(t *testing.T) {
	reg := NewRegistry()

	reg.Create("r1", "alice")

	got, ok := reg.Get("r1")
	if !ok {
		t.Fatal("room not found after Create")
	}
	if got.Status != StatusWaiting {
		t.Errorf("status = %q, want %q", got.Status, StatusWaiting)
	}
	if len(got.Scores) != 1 {
		t.Fatalf("expected 1 score slot, got %d", len(got.Scores))
	}
	if got.Scores[0].ClientID != "alice" || got.Scores[0].Value != 0 {
		t.Errorf("slot = %+v, want {alice 0}", got.Scores[0])
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set")
	}
}

func TestCreateOverwritesExistingRoom(t *testing.T) {
	reg := NewRegistry()

	reg.Create("r1", "alice")
	if err := reg.Join("r1", "bob"); err != nil {
		t.Fatalf("Join: %v", err)
	}

	// A second create for the same hash silently resets the room.
	reg.Create("r1", "carol")

	got, _ := reg.Get("r1")
	if got.Status != StatusWaiting {
		t.Errorf("status after re-create = %q, want %q", got.Status, StatusWaiting)
	}
	if len(got.Scores) != 1 || got.Scores[0].ClientID != "carol" {
		t.Errorf("scores after re-create = %+v, want single carol slot", got.Scores)
	}
}

func TestJoinRoom(t *testing.T) {
	reg := NewRegistry()
	reg.Create("r1", "alice")

	if err := reg.Join("r1", "bob"); err != nil {
		t.Fatalf("Join: %v", err)
	}

	got, _ := reg.Get("r1")
	if got.Status != StatusPlaying {
		t.Errorf("status = %q, want %q", got.Status, StatusPlaying)
	}
	if len(got.Scores) != 2 {
		t.Fatalf("expected 2 score slots, got %d", len(got.Scores))
	}
	if got.Scores[1].ClientID != "bob" {
		t.Errorf("second slot = %+v, want bob", got.Scores[1])
	}
}

func TestJoinMissingRoom(t *testing.T) {
	reg := NewRegistry()

	err := reg.Join("nope", "bob")
	if !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
	if reg.Count() != 0 {
		t.Error("failed join must not mutate the registry")
	}
}

func TestUpdateScore(t *testing.T) {
	reg := NewRegistry()
	reg.Create("r1", "alice")
	reg.Join("r1", "bob")

	if err := reg.UpdateScore("r1", "alice", 1.5); err != nil {
		t.Fatalf("UpdateScore: %v", err)
	}

	got, _ := reg.Get("r1")
	if got.Scores[0].Value != 1.5 {
		t.Errorf("alice value = %v, want 1.5", got.Scores[0].Value)
	}
	if got.Scores[1].Value != 0 {
		t.Errorf("bob value = %v, want 0", got.Scores[1].Value)
	}
}

func TestUpdateScoreUnknownClientStillTouchesRoom(t *testing.T) {
	reg := NewRegistry()
	reg.Create("r1", "alice")
	reg.Join("r1", "bob")

	before, _ := reg.Get("r1")
	stale := time.Now().Add(-time.Minute)
	before.UpdatedAt = stale

	if err := reg.UpdateScore("r1", "mallory", 2.0); err != nil {
		t.Fatalf("UpdateScore: %v", err)
	}

	got, _ := reg.Get("r1")
	for _, slot := range got.Scores {
		if slot.Value != 0 {
			t.Errorf("slot %+v mutated by unknown client", slot)
		}
	}
	if !got.UpdatedAt.After(stale) {
		t.Error("UpdatedAt not refreshed")
	}
}

func TestUpdateScoreGuards(t *testing.T) {
	reg := NewRegistry()
	reg.Create("waiting-room", "alice")

	tests := []struct {
		name string
		hash string
	}{
		{"missing room", "nope"},
		{"waiting room", "waiting-room"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.UpdateScore(tt.hash, "alice", 1.0)
			if !errors.Is(err, ErrRoomNotPlaying) {
				t.Fatalf("err = %v, want ErrRoomNotPlaying", err)
			}
		})
	}

	got, _ := reg.Get("waiting-room")
	if got.Scores[0].Value != 0 {
		t.Error("rejected update must not mutate the room")
	}
}

func TestUpdateScoreFinishedRoom(t *testing.T) {
	reg := NewRegistry()
	reg.Create("r1", "alice")

	got, _ := reg.Get("r1")
	got.Status = StatusFinished

	if err := reg.UpdateScore("r1", "alice", 1.0); !errors.Is(err, ErrRoomNotPlaying) {
		t.Fatalf("err = %v, want ErrRoomNotPlaying", err)
	}
}

func TestSnapshotPreservesJoinOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Create("r1", "alice")
	reg.Join("r1", "bob")
	reg.Join("r1", "carol")
	reg.UpdateScore("r1", "bob", 2.5)

	scores, ok := reg.Snapshot("r1")
	if !ok {
		t.Fatal("Snapshot: room not found")
	}

	want := []ScoreSlot{{"alice", 0}, {"bob", 2.5}, {"carol", 0}}
	if len(scores) != len(want) {
		t.Fatalf("got %d slots, want %d", len(scores), len(want))
	}
	for i := range want {
		if scores[i] != want[i] {
			t.Errorf("slot %d = %+v, want %+v", i, scores[i], want[i])
		}
	}

	// The snapshot is a copy; mutating it must not leak into the room.
	scores[0].Value = 99
	live, _ := reg.Get("r1")
	if live.Scores[0].Value != 0 {
		t.Error("Snapshot returned live storage")
	}
}

func TestSnapshotMissingRoom(t *testing.T) {
	reg := NewRegistry()
	if _, ok := reg.Snapshot("nope"); ok {
		t.Error("Snapshot of missing room should report absence")
	}
}

func TestEvictStale(t *testing.T) {
	reg := NewRegistry()
	reg.Create("old", "alice")
	reg.Create("fresh", "bob")

	old, _ := reg.Get("old")
	old.UpdatedAt = time.Now().Add(-10 * time.Minute)

	removed := reg.EvictStale(time.Now(), DefaultTTL)
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, ok := reg.Get("old"); ok {
		t.Error("stale room survived eviction")
	}
	if _, ok := reg.Get("fresh"); !ok {
		t.Error("fresh room evicted")
	}
}

func TestEvictStaleBoundary(t *testing.T) {
	reg := NewRegistry()
	reg.Create("edge", "alice")

	now := time.Now()
	r, _ := reg.Get("edge")
	r.UpdatedAt = now.Add(-DefaultTTL)

	// Exactly at the TTL boundary the room stays; it must be strictly older.
	if removed := reg.EvictStale(now, DefaultTTL); removed != 0 {
		t.Errorf("removed = %d, want 0 at exact TTL", removed)
	}

	r.UpdatedAt = now.Add(-DefaultTTL - time.Nanosecond)
	if removed := reg.EvictStale(now, DefaultTTL); removed != 1 {
		t.Errorf("removed = %d, want 1 past TTL", removed)
	}
}

func TestList(t *testing.T) {
	reg := NewRegistry()
	reg.Create("r1", "alice")
	reg.Create("r2", "bob")
	reg.Join("r2", "carol")

	infos := reg.List()
	if len(infos) != 2 {
		t.Fatalf("got %d rooms, want 2", len(infos))
	}

	byHash := make(map[string]Info, len(infos))
	for _, info := range infos {
		byHash[info.RoomHash] = info
	}
	if byHash["r1"].Status != StatusWaiting || byHash["r1"].Participants != 1 {
		t.Errorf("r1 info = %+v", byHash["r1"])
	}
	if byHash["r2"].Status != StatusPlaying || byHash["r2"].Participants != 2 {
		t.Errorf("r2 info = %+v", byHash["r2"])
	}
}
