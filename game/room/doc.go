// Package room holds the in-memory room state for the Rabuka room server.
//
// The room package implements:
//   - The Room model: lifecycle status, ordered score slots, last update time
//   - The Registry: a process-wide, mutex-guarded map from room hash to Room
//   - Time-based eviction of idle rooms
//
// Lifecycle:
//
// A room moves waiting -> playing -> finished and never backward. It is
// created in waiting with a single score slot for the creator, switches to
// playing when a second client joins, and is announced finished when a
// score crosses the win threshold. The finished state is an announcement,
// not a lock: the registry keeps accepting updates for a finished room's
// hash until the room is evicted.
//
// Score slots:
//
// Each participant owns exactly one slot, appended in join order. Slots
// are deliberately kept as separate entries rather than one shared map so
// the read side can return scores in join order.
//
// Concurrency:
//
// All registry state is guarded by a sync.RWMutex because HTTP reads run
// concurrently with the dispatch path. Rooms handed out by Get share the
// registry's storage; mutate them through registry methods only.
package room
