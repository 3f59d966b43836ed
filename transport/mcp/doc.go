// Package mcp exposes the Rabuka room server to MCP clients.
//
// The mcp package implements a thin read-only client that proxies every
// tool call to the REST API, so MCP traffic observes exactly what HTTP
// clients observe and no game logic is duplicated here.
//
// Tools:
//   - list_rooms: summary of all live rooms
//   - get_result: the ordered score table for one room
//   - server_status: health and room count
//
// The underlying server can be mounted on an HTTP endpoint
// (HandleMessage) or served over stdio.
package mcp
