// Package protocol defines the wire messages for the Rabuka room server.
//
// The protocol package implements:
//   - Inbound message shapes (ConnectRoom, UpdateFire)
//   - Outbound broadcast shapes (SystemMessage, ErrorMessage)
//   - The relay envelope used by the peer echo endpoint
//   - Shape-based classification of raw JSON frames
//
// Classification:
//
// Inbound frames carry no single discriminant field. A frame is a
// ConnectRoom when it has message ("create" or "join"), roomHash and
// clientId; it is an UpdateFire when it has roomHash, clientId and a
// numeric value. The two checks are independent: a frame may match both,
// neither, or one of them. Frames matching neither shape are dropped
// without a response, so malformed input never reaches the dispatcher.
//
// Usage:
//
//	dec := protocol.Decode(raw)
//	if dec.Connect != nil {
//		// route create/join
//	}
//	if dec.Update != nil {
//		// route score update
//	}
package protocol
