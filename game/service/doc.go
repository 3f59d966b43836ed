// Package service provides the event dispatch layer for the Rabuka room
// server.
//
// The service package implements:
//   - The single entry point for validated inbound frames (Dispatch)
//   - Routing into the room registry per the lifecycle rules
//   - Broadcast emission through an injected Publisher
//   - The opportunistic eviction sweep after every processed frame
//   - The read-side score query backing GET /result
//
// Dispatch order:
//
// Each inbound frame is classified once at the boundary, then the
// create/join branch and the update branch run independently (a frame may
// match both shapes), and finally the eviction sweep removes rooms idle
// past the TTL. No outcome of a single frame is fatal: malformed frames
// are dropped quietly and protocol violations become error broadcasts on
// the global topic.
//
// Usage:
//
//	registry := room.NewRegistry()
//	svc := service.NewRoomService(registry, hub, service.Options{})
//	svc.Dispatch(ctx, frame)
package service
