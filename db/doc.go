// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db keeps an optional archive of closed polls.

Live room state never touches the database. When a poll closes, the session
manager hands its summary to an Archive, which writes it in the background so
teachers can pull results after class.

# Connecting

Open supports sqlite (modernc.org/sqlite, pure Go) and postgres (lib/pq):

	conn, err := db.Open(db.TypeSQLite, "livepoll.db")
	if err != nil {
		log.Fatal(err)
	}
	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

CreateSchema is safe to call multiple times - uses IF NOT EXISTS.

# Writing

	archive := db.NewArchive(conn, db.TypeSQLite)
	defer archive.Close()

Archive never blocks. Summaries are dropped with a warning when the queue is
full or the archive is closed. Close flushes what is already queued. A poll id
is written at most once.

# Reading

	polls, err := archive.ListRoomPolls(ctx, roomID)

Results come back in closing order.

# Tables

  - closed_poll: one row per closed poll; options and results are JSON
    arrays, created_at and closed_at are unix milliseconds

# Queries

Queries are written with ? placeholders. Rebind converts them to $N for
postgres.
*/
package db
