// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the livepoll server.

livepoll runs classroom rooms over websockets. A teacher opens a room,
students join with its id, and the teacher pushes timed
multiple choice polls whose tallies stream back live.

# Starting the Server

No configuration is required; rooms live in memory:

	go run .

Or with flags:

	go run . -p 5000 -origin https://class.example.com -d ./polls.db

# Configuration

All settings are optional:

  - PORT (-p): Server port (default: 5000)
  - FRONTEND_ORIGIN (-origin): Allowed browser origin
  - DATABASE_URL (-d): Enables the closed poll archive
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - LOG_LEVEL (-log-level): slog level (default: info)

A .env file in the working directory is loaded before flags are parsed.

# Architecture

  - session: rooms, polls, countdowns and chat; all room state
  - gateway: websocket connections, the command dispatcher and fan-out
  - handlers: health, metrics and archive endpoints
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: wire payloads and response types
  - db: schema and the closed poll archive
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
