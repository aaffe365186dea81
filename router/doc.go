// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the livepoll server.

# Route Registration

NewRouter creates a configured http.ServeMux:

	mux := router.NewRouter(mgr, wsServer, metrics, archive)

archive may be nil when no database is configured.

# Endpoints

	GET /                          - Banner
	GET /health                    - Health summary
	GET /metrics                   - Traffic counters
	GET /ws                        - Websocket upgrade
	GET /archive/rooms/{id}/polls  - Archived closed polls

All room and poll operations travel over /ws; see package gateway for the
command set.
*/
package router
