// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 5000)
  - FrontendOrigin: Origin allowed for CORS and websocket upgrades (default: http://localhost:3000)
  - DatabaseURL: Closed-poll archive connection string (optional)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - LogLevel: debug, info, warn or error (default: info)

# CLI Flags

	-p          Server port
	-origin     Allowed frontend origin, or * for any
	-d          Archive database URL
	-t          Database type
	-log-level  Log level

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	FRONTEND_ORIGIN → -origin
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	LOG_LEVEL       → -log-level

CLI flags take precedence over environment variables. main loads a .env
file first, so values there behave like real environment variables.

# Validation

ParseFlags returns an error when:

  - PORT is not a number or is outside 1-65535
  - the database type is not sqlite or postgres
  - the log level is unknown

Without DATABASE_URL the server runs purely in memory and the archive
endpoint reports 404.

# Example

	// In main.go
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	level, _ := cliparse.ParseLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
*/
package cliparse
