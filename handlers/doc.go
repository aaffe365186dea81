// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the plain HTTP endpoints that sit beside the
websocket gateway.

# Handler Types

  - HealthHandler: liveness and traffic counters
  - ArchiveHandler: closed polls read back from the database

Handlers take their dependencies through constructors:

	health := handlers.NewHealthHandler(metrics, mgr)
	archive := handlers.NewArchiveHandler(pollArchive)

# Health

	GET /health  → Health (503 when critical)
	GET /metrics → Metrics

Health is derived from gateway.Metrics and the live room count. Above 90%
of the connection or room limits the status is critical.

# Archive

	GET /archive/rooms/{id}/polls → RoomPolls

The archive is optional. With no database configured NewArchiveHandler
is given a nil archive and RoomPolls answers 404.
*/
package handlers
