// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session owns every room, student and poll in the process.

# Overview

A Manager is the only entry point. Transport code translates inbound
commands into Manager calls and implements Publisher so the Manager can push
events back out:

	hub := gateway.NewHub(metrics)
	mgr := session.NewManager(hub, session.WithArchiver(archive))

	roomID, err := mgr.CreateRoom(teacherConn)
	_, err = mgr.JoinRoom(roomID, "s1", "Alice", studentConn)

# Concurrency

Rooms are independent. Each room carries its own mutex, and every operation
on a room (commands, countdown ticks, teardown) runs while holding it. The
Store index is a separate RWMutex that is only held long enough to look a room
up.

Publisher calls happen while the room lock is held, which keeps the event
order identical to the order of state changes. Publishers must therefore
queue and return.

# Poll Lifecycle

	Idle ──CreatePoll──▶ PollOpen ──timeout / all answered──▶ Idle

CreatePoll is refused with ErrPollInProgress while the current poll is active
and some student has not answered. An empty room never blocks a new poll.

Each active poll has exactly one countdown. Closure goes through a single
path that checks the poll status and clears the countdown under the room
lock, so a tick and the last answer racing each other close the poll once.

# Errors

Failures are *Error values with a stable Code and one of four kinds:

  - not_found: ErrRoomNotFound, ErrPollNotFound, ErrStudentNotFound
  - unauthorized: ErrUnauthorized
  - invalid_state: ErrPollNotActive, ErrAlreadyAnswered, ErrPollInProgress
  - invalid_input: ErrInvalidOption, ErrInvalidInput

Use errors.Is against the sentinels, or CodeOf for the wire code.

# Teardown

When a teacher connection drops, Disconnect removes every room it owns and
cancels the countdowns. Student disconnects change nothing; a student can
rejoin with the same studentId and keeps its answers.
*/
package session
