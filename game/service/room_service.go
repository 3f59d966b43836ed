package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hackz-rabuka/room-server/game/protocol"
	"github.com/hackz-rabuka/room-server/game/room"
)

// DefaultWinThreshold ends the game once a reported score exceeds it.
const DefaultWinThreshold = 3.0

// roomService implements the RoomService interface.
type roomService struct {
	registry     *room.Registry
	pub          Publisher
	winThreshold float64
	evictTTL     time.Duration
	now          func() time.Time
}

// NewRoomService creates a dispatcher over the given registry, emitting
// broadcasts through pub.
func NewRoomService(registry *room.Registry, pub Publisher, opts Options) RoomService {
	if opts.WinThreshold == 0 {
		opts.WinThreshold = DefaultWinThreshold
	}
	if opts.EvictTTL == 0 {
		opts.EvictTTL = room.DefaultTTL
	}

	return &roomService{
		registry:     registry,
		pub:          pub,
		winThreshold: opts.WinThreshold,
		evictTTL:     opts.EvictTTL,
		now:          time.Now,
	}
}

// Dispatch processes one inbound frame.
func (s *roomService) Dispatch(ctx context.Context, raw []byte) {
	dec := protocol.Decode(raw)
	if !dec.Recognized() {
		log.Debug().Str("frame", string(raw)).Msg("dropping unrecognized frame")
	}

	if dec.Connect != nil {
		s.handleConnect(dec.Connect)
	}
	if dec.Update != nil {
		s.handleUpdate(dec.Update, raw)
	}

	// The sweep rides on inbound traffic; an idle process never evicts.
	if removed := s.registry.EvictStale(s.now(), s.evictTTL); removed > 0 {
		log.Info().Int("removed", removed).Msg("evicted stale rooms")
	}
}

// handleConnect routes the create/join rows of the transition table.
func (s *roomService) handleConnect(msg *protocol.ConnectRoom) {
	switch msg.Message {
	case protocol.ActionCreate:
		s.registry.Create(msg.RoomHash, msg.ClientID)
		log.Info().Str("room", msg.RoomHash).Str("client", msg.ClientID).Msg("room created")

	case protocol.ActionJoin:
		if err := s.registry.Join(msg.RoomHash, msg.ClientID); err != nil {
			s.publish(protocol.NewErrorMessage(msg.RoomHash, protocol.MsgRoomNotExist))
			return
		}
		log.Info().Str("room", msg.RoomHash).Str("client", msg.ClientID).Msg("room joined")
		s.publish(protocol.NewSystemMessage(msg.RoomHash, protocol.SystemStart))
	}
}

// handleUpdate routes the update rows. The raw frame is re-published
// verbatim so subscribers see exactly what the sender sent. Crossing the
// win threshold announces the finish but does not lock the room; further
// updates keep flowing until the room is evicted.
func (s *roomService) handleUpdate(msg *protocol.UpdateFire, raw []byte) {
	if err := s.registry.UpdateScore(msg.RoomHash, msg.ClientID, msg.Value); err != nil {
		s.publish(protocol.NewErrorMessage(msg.RoomHash, protocol.MsgRoomNotPlaying))
		return
	}

	s.pub.PublishGlobal(raw)

	if msg.Value > s.winThreshold {
		log.Info().Str("room", msg.RoomHash).Str("client", msg.ClientID).
			Float64("value", msg.Value).Msg("game finished")
		s.publish(protocol.NewSystemMessage(msg.RoomHash, protocol.SystemFinish))
	}
}

// publish marshals a broadcast and hands it to the publisher.
func (s *roomService) publish(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal broadcast")
		return
	}
	s.pub.PublishGlobal(data)
}

// Result returns the room's scores in join order.
func (s *roomService) Result(ctx context.Context, roomHash string) ([]room.ScoreSlot, error) {
	scores, ok := s.registry.Snapshot(roomHash)
	if !ok {
		return nil, room.ErrRoomNotFound
	}

	for _, slot := range scores {
		if slot.ClientID == "" {
			return nil, ErrInvalidFormat
		}
	}

	return scores, nil
}

// ListRooms returns a summary of every live room.
func (s *roomService) ListRooms(ctx context.Context) ([]room.Info, error) {
	return s.registry.List(), nil
}

// RoomCount returns the number of live rooms.
func (s *roomService) RoomCount(ctx context.Context) (int, error) {
	return s.registry.Count(), nil
}
