package protocol

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Actions carried by the ConnectRoom message.
const (
	ActionCreate = "create"
	ActionJoin   = "join"
)

// Outbound message types.
const (
	TypeSystem = "system"
	TypeError  = "error"
)

// System broadcast payloads.
const (
	SystemStart  = "start"
	SystemFinish = "finish"
)

// Error broadcast payloads. The wording is part of the wire contract.
const (
	MsgRoomNotExist   = "room is not exist"
	MsgRoomNotPlaying = "room is not playing"
)

// ConnectRoom is the inbound create/join message.
type ConnectRoom struct {
	Message  string `json:"message"`
	RoomHash string `json:"roomHash"`
	ClientID string `json:"clientId"`
}

// UpdateFire is the inbound score update. It has no message field; it is
// recognized purely by field shape.
type UpdateFire struct {
	RoomHash string  `json:"roomHash"`
	ClientID string  `json:"clientId"`
	Value    float64 `json:"value"`
}

// SystemMessage announces a room lifecycle event (start/finish) to the
// global topic.
type SystemMessage struct {
	Type     string `json:"type"`
	RoomHash string `json:"roomHash"`
	Message  string `json:"message"`
}

// NewSystemMessage builds a system broadcast for the given room.
func NewSystemMessage(roomHash, message string) SystemMessage {
	return SystemMessage{Type: TypeSystem, RoomHash: roomHash, Message: message}
}

// ErrorMessage reports a protocol violation to the global topic.
type ErrorMessage struct {
	Type     string `json:"type"`
	RoomHash string `json:"roomHash"`
	Message  string `json:"message"`
}

// NewErrorMessage builds an error broadcast for the given room.
func NewErrorMessage(roomHash, message string) ErrorMessage {
	return ErrorMessage{Type: TypeError, RoomHash: roomHash, Message: message}
}

// RelayEnvelope wraps a raw frame fanned out by the peer echo endpoint.
type RelayEnvelope struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// WrapRelay assigns a fresh message ID to a raw frame.
func WrapRelay(raw []byte) RelayEnvelope {
	return RelayEnvelope{ID: uuid.NewString(), Content: string(raw)}
}

// Decoded is the outcome of classifying one inbound frame. Both pointers
// may be set when a frame matches both shapes; both nil means the frame is
// unrecognized and must be ignored.
type Decoded struct {
	Connect *ConnectRoom
	Update  *UpdateFire
}

// Recognized reports whether the frame matched at least one shape.
func (d Decoded) Recognized() bool {
	return d.Connect != nil || d.Update != nil
}

// Decode classifies a raw JSON frame against the known inbound shapes.
// Invalid JSON and frames matching no shape yield a zero Decoded.
func Decode(raw []byte) Decoded {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Decoded{}
	}

	var dec Decoded

	if action, ok := stringField(fields, "message"); ok && (action == ActionCreate || action == ActionJoin) {
		roomHash, okRoom := stringField(fields, "roomHash")
		clientID, okClient := stringField(fields, "clientId")
		if okRoom && okClient {
			dec.Connect = &ConnectRoom{Message: action, RoomHash: roomHash, ClientID: clientID}
		}
	}

	if value, ok := numberField(fields, "value"); ok {
		roomHash, okRoom := stringField(fields, "roomHash")
		clientID, okClient := stringField(fields, "clientId")
		if okRoom && okClient {
			dec.Update = &UpdateFire{RoomHash: roomHash, ClientID: clientID, Value: value}
		}
	}

	return dec
}

func stringField(fields map[string]any, key string) (string, bool) {
	s, ok := fields[key].(string)
	return s, ok
}

func numberField(fields map[string]any, key string) (float64, bool) {
	// encoding/json decodes every JSON number into float64.
	n, ok := fields[key].(float64)
	return n, ok
}
