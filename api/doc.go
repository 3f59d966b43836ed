// Package api exposes the HTTP surface of the Rabuka room server.
//
// The api package implements:
//   - GET /result: the read-only score table for one room
//   - GET /ws: the game WebSocket (global topic subscriber)
//   - GET /relay: the peer echo WebSocket
//   - GET /api/rooms: a summary listing of live rooms
//   - GET /healthz: liveness probe
//
// Routing is built on gorilla/mux. All JSON responses go through the
// respondJSON/respondError helpers so error bodies share one shape.
//
// The /result endpoint mirrors the game client's contract exactly: an
// ordered list of {clientid, value} pairs, 404 for an unknown room, and a
// 500 with a generic message when the score table violates the output
// contract.
package api
