package room

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomNotPlaying = errors.New("room not playing")
)

// Info is a read-only summary of one room, used by listings.
type Info struct {
	RoomHash     string    `json:"roomHash"`
	Status       Status    `json:"status"`
	Participants int       `json:"participants"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Registry owns the process-wide room map. Created empty at startup and
// never persisted; rooms leave only through eviction.
type Registry struct {
	rooms map[string]*Room
	mu    sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// Get retrieves a room by hash. Absence is not an error; callers branch on
// the second return value.
func (r *Registry) Get(hash string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[hash]
	return room, ok
}

// Create inserts a waiting room with a single zero score slot for the
// creator. An existing room under the same hash is overwritten; a second
// create silently resets the room.
func (r *Registry) Create(hash, clientID string) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := &Room{
		Status:    StatusWaiting,
		Scores:    []ScoreSlot{{ClientID: clientID}},
		UpdatedAt: time.Now(),
	}
	r.rooms[hash] = room

	return room
}

// Join appends a score slot for clientID and moves the room to playing.
// A missing room leaves the registry untouched and returns ErrRoomNotFound.
func (r *Registry) Join(hash, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[hash]
	if !ok {
		return ErrRoomNotFound
	}

	room.Scores = append(room.Scores, ScoreSlot{ClientID: clientID})
	room.Status = StatusPlaying
	room.UpdatedAt = time.Now()

	return nil
}

// UpdateScore writes value into every slot held by clientID (at most one
// per room). The room must exist and be playing; otherwise nothing is
// mutated and ErrRoomNotPlaying is returned. A client with no slot is not
// an error: the update still refreshes the room.
func (r *Registry) UpdateScore(hash, clientID string, value float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[hash]
	if !ok || room.Status != StatusPlaying {
		return ErrRoomNotPlaying
	}

	for i := range room.Scores {
		if room.Scores[i].ClientID == clientID {
			room.Scores[i].Value = value
		}
	}
	room.UpdatedAt = time.Now()

	return nil
}

// Snapshot returns a copy of the room's score slots in join order.
func (r *Registry) Snapshot(hash string) ([]ScoreSlot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[hash]
	if !ok {
		return nil, false
	}

	scores := make([]ScoreSlot, len(room.Scores))
	copy(scores, room.Scores)

	return scores, true
}

// EvictStale removes every room whose last mutation is older than ttl and
// returns the number removed. It runs after each processed message, not on
// a timer, so an idle process never evicts.
func (r *Registry) EvictStale(now time.Time, ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for hash, room := range r.rooms {
		if room.UpdatedAt.Add(ttl).Before(now) {
			delete(r.rooms, hash)
			removed++
		}
	}

	return removed
}

// List returns a summary of every room.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Info, 0, len(r.rooms))
	for hash, room := range r.rooms {
		result = append(result, Info{
			RoomHash:     hash,
			Status:       room.Status,
			Participants: len(room.Scores),
			UpdatedAt:    room.UpdatedAt,
		})
	}

	return result
}

// Count returns the number of live rooms.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
