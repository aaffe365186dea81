// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package gateway is the websocket edge of the server.

# Components

  - Server accepts connections on /ws and runs one Client per connection
  - Client owns a send queue, a writer goroutine with keepalive pings, and a
    reader loop with a per-connection rate limit
  - Hub maps connection ids to clients and rooms to subscribers, and is the
    session.Publisher handed to the session manager
  - Dispatcher decodes command frames, calls the session manager and builds
    exactly one reply per command
  - Metrics counts connections, frames and errors for /metrics and /health

# Wire Format

Inbound:

	{"id": "c1", "type": "join_room", "payload": {"roomId": "...", "studentId": "s1", "studentName": "Alice"}}

Reply, sent only to the caller:

	{"type": "reply", "id": "c1", "command": "join_room", "success": true, "data": {...}}
	{"type": "reply", "id": "c1", "command": "join_room", "success": false, "error": "Room not found", "code": "room_not_found"}

Events, pushed to every subscriber of a room:

	{"type": "poll_created", "roomId": "...", "payload": {...}}

Frames that are not valid JSON commands, and frames over the rate limit, get
an error event instead of a reply.

# Disconnects

When a connection ends the Server unregisters it from the Hub and calls
session.Manager.Disconnect, which tears down any room the connection owned.
*/
package gateway
