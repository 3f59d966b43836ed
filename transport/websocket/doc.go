// Package websocket provides the WebSocket transport for the Rabuka room
// server.
//
// The websocket package implements:
//   - The central Hub owning all connection membership
//   - The global topic every game connection is subscribed to
//   - The peer echo relay used by the lightweight /relay endpoint
//   - Per-connection read/write pumps with ping/pong keepalive
//
// Architecture:
//
// The package uses a hub-and-spoke model. A single run loop owns the
// subscription maps; registration, unregistration and fan-out all flow
// through channels into that loop, so membership is never iterated while
// it is being mutated. Each connection gets a read goroutine and a write
// goroutine.
//
// Broadcast scopes:
//
// Game connections (/ws) are subscribed to the global topic on open and
// unsubscribed on close. Every game broadcast publishes to that one
// topic, so all connected clients see all rooms' traffic. Relay
// connections (/relay) form a separate pool: an inbound relay frame is
// wrapped in an id/content envelope and fanned out to every other relay
// connection, never back to the sender.
//
// Delivery:
//
// Sends are fire-and-forget through buffered per-client channels. A
// client whose buffer is full is dropped rather than stalling the
// fan-out.
package websocket
