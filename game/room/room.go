package room

import "time"

// Status is the lifecycle state of a room.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// DefaultTTL is how long a room may sit without a mutation before the
// eviction sweep removes it.
const DefaultTTL = 5 * time.Minute

// ScoreSlot binds one participant to its current score. The JSON shape
// doubles as the read endpoint's response entry.
type ScoreSlot struct {
	ClientID string  `json:"clientid"`
	Value    float64 `json:"value"`
}

// Room is a single game session.
type Room struct {
	Status    Status      `json:"status"`
	Scores    []ScoreSlot `json:"scores"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// HasClient reports whether the client owns a score slot in this room.
func (r *Room) HasClient(clientID string) bool {
	for _, slot := range r.Scores {
		if slot.ClientID == clientID {
			return true
		}
	}
	return false
}
