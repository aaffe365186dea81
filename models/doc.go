// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines wire envelopes, request, response, view and event
payload types shared by the session manager and the gateway.

# Envelopes

Every websocket frame is one of:

  - Command: inbound {id, type, payload}
  - Reply: outbound answer to exactly one Command, sent to its sender only
  - Event: outbound broadcast {type, roomId, payload}

# Request Types

  - RoomRequest: roomId (get_past_polls, get_room_state)
  - JoinRoomRequest: roomId, studentId, studentName
  - CreatePollRequest: roomId, question, options, timeLimit
  - SubmitAnswerRequest: roomId, pollId, studentId, selectedOption
  - RemoveStudentRequest: roomId, studentId
  - SendMessageRequest: roomId, author, text, role

# Views

Views are copies; none of them expose connection references or the
manager's internal maps:

  - StudentView: id, name, answered, answeredAt, joinedAt
  - PollView: full poll including tallies (create_poll reply)
  - CurrentPollView: open poll without tallies (room snapshot)
  - RoomSnapshot: students + current poll
  - ClosedPollSummary: final results of a closed poll

# Constants

Poll status:

	StatusActive = "active"
	StatusClosed = "closed"

Commands and events are listed as Cmd* and Event* constants.
*/
package models
