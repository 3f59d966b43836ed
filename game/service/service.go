package service

import (
	"context"
	"errors"
	"time"

	"github.com/hackz-rabuka/room-server/game/room"
)

// ErrInvalidFormat reports that a room's score table violates the read
// endpoint's output contract.
var ErrInvalidFormat = errors.New("invalid data format")

// Publisher delivers one serialized event to every subscriber of the
// global topic. Delivery is fire-and-forget.
type Publisher interface {
	PublishGlobal(data []byte)
}

// RoomService defines all room coordination operations.
type RoomService interface {
	// Dispatch processes one inbound frame: classify, route, broadcast,
	// then sweep stale rooms. It never fails the caller; per-frame
	// problems surface as broadcasts or log lines.
	Dispatch(ctx context.Context, raw []byte)

	// Result returns the room's scores in join order.
	// room.ErrRoomNotFound when the hash is unknown, ErrInvalidFormat
	// when a score slot violates the output contract.
	Result(ctx context.Context, roomHash string) ([]room.ScoreSlot, error)

	// ListRooms returns a summary of every live room.
	ListRooms(ctx context.Context) ([]room.Info, error)

	// RoomCount returns the number of live rooms.
	RoomCount(ctx context.Context) (int, error)
}

// Options tunes the dispatcher. Zero values select the defaults.
type Options struct {
	// WinThreshold is the score that triggers the finish announcement
	// when exceeded. Defaults to 3.0.
	WinThreshold float64

	// EvictTTL is how long a room may sit idle before the sweep removes
	// it. Defaults to room.DefaultTTL.
	EvictTTL time.Duration
}
