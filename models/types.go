// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "encoding/json"

// Poll status constants
const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// Chat roles
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Client → server commands
const (
	CmdCreateRoom    = "create_room"
	CmdJoinRoom      = "join_room"
	CmdCreatePoll    = "create_poll"
	CmdSubmitAnswer  = "submit_answer"
	CmdRemoveStudent = "remove_student"
	CmdGetPastPolls  = "get_past_polls"
	CmdGetRoomState  = "get_room_state"
	CmdSendMessage   = "send_message"
)

// Server → client events
const (
	EventReply           = "reply"
	EventError           = "error"
	EventStudentsUpdated = "students_updated"
	EventStudentJoined   = "student_joined"
	EventPollCreated     = "poll_created"
	EventResultsUpdate   = "results_update"
	EventStudentAnswered = "student_answered"
	EventAnswerSubmitted = "answer_submitted"
	EventTimerUpdate     = "timer_update"
	EventPollClosed      = "poll_closed"
	EventKickedOut       = "kicked_out"
	EventMessageReceived = "message_received"
)

// Wire envelopes

// Command is one inbound frame. ID is echoed back on the reply so clients can
// correlate requests.
type Command struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Reply struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Command string `json:"command"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

type Event struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// Request types

type RoomRequest struct {
	RoomID string `json:"roomId"`
}

type JoinRoomRequest struct {
	RoomID      string `json:"roomId"`
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
}

type CreatePollRequest struct {
	RoomID    string   `json:"roomId"`
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	TimeLimit int      `json:"timeLimit"`
}

// SelectedOption is a pointer so a missing field is distinguishable from 0.
type SubmitAnswerRequest struct {
	RoomID         string `json:"roomId"`
	PollID         string `json:"pollId"`
	StudentID      string `json:"studentId"`
	SelectedOption *int   `json:"selectedOption"`
}

type RemoveStudentRequest struct {
	RoomID    string `json:"roomId"`
	StudentID string `json:"studentId"`
}

type SendMessageRequest struct {
	RoomID    string `json:"roomId"`
	StudentID string `json:"studentId,omitempty"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	Role      string `json:"role"`
}

// Response types

type CreateRoomResponse struct {
	RoomID string `json:"roomId"`
}

type JoinRoomResponse struct {
	Students []StudentView `json:"students"`
	Message  string        `json:"message"`
}

type CreatePollResponse struct {
	PollID string   `json:"pollId"`
	Poll   PollView `json:"poll"`
}

type PastPollsResponse struct {
	PastPolls []ClosedPollSummary `json:"pastPolls"`
}

type RoomStateResponse struct {
	Room RoomSnapshot `json:"room"`
}

// Domain views. None of these carry connection references.

type StudentView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Answered   bool   `json:"answered"`
	AnsweredAt *int64 `json:"answeredAt,omitempty"` // unix millis
	JoinedAt   int64  `json:"joinedAt"`
}

// PollView is the public shape of a poll as returned to its creator.
type PollView struct {
	PollID     string   `json:"pollId"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	TimeLimit  int      `json:"timeLimit"`
	Results    []int    `json:"results"`
	Status     string   `json:"status"`
	AnsweredBy []string `json:"answeredBy"`
	CreatedAt  int64    `json:"createdAt"`
}

// CurrentPollView is what late joiners see of the open poll. Tallies are only
// delivered over the broadcast channel.
type CurrentPollView struct {
	PollID        string   `json:"pollId"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	TimeLimit     int      `json:"timeLimit"`
	RemainingTime int      `json:"remainingTime"`
}

type RoomSnapshot struct {
	RoomID      string           `json:"roomId"`
	Students    []StudentView    `json:"students"`
	CurrentPoll *CurrentPollView `json:"currentPoll"`
	CreatedAt   int64            `json:"createdAt"`
}

type ClosedPollSummary struct {
	PollID        string   `json:"pollId"`
	RoomID        string   `json:"roomId"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Results       []int    `json:"results"`
	TotalAnswered int      `json:"totalAnswered"`
	TimeLimit     int      `json:"timeLimit"`
	CreatedAt     int64    `json:"createdAt"`
	ClosedAt      int64    `json:"closedAt"`
}

// Event payloads

type StudentsUpdatedPayload struct {
	Students []StudentView `json:"students"`
}

type StudentJoinedPayload struct {
	StudentID     string `json:"studentId"`
	StudentName   string `json:"studentName"`
	TotalStudents int    `json:"totalStudents"`
}

type PollCreatedPayload struct {
	PollID    string   `json:"pollId"`
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	TimeLimit int      `json:"timeLimit"`
}

type ResultsUpdatePayload struct {
	PollID        string   `json:"pollId"`
	Results       []int    `json:"results"`
	TotalAnswered int      `json:"totalAnswered"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
}

type StudentAnsweredPayload struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
}

type AnswerSubmittedPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type TimerUpdatePayload struct {
	PollID        string `json:"pollId"`
	RemainingTime int    `json:"remainingTime"`
}

type PollClosedPayload struct {
	PollID        string   `json:"pollId"`
	Question      string   `json:"question"`
	Results       []int    `json:"results"`
	TotalAnswered int      `json:"totalAnswered"`
	Options       []string `json:"options"`
}

type KickedOutPayload struct {
	Reason string `json:"reason"`
}

type MessageReceivedPayload struct {
	Author    string `json:"author"`
	Text      string `json:"text"`
	Role      string `json:"role"`
	Timestamp int64  `json:"timestamp"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HTTP responses

type HealthResponse struct {
	Status            string `json:"status"`
	Health            string `json:"health"`
	ActiveRooms       int    `json:"activeRooms"`
	ActiveConnections int64  `json:"activeConnections"`
	UptimeSeconds     int64  `json:"uptimeSeconds"`
	Timestamp         string `json:"timestamp"`
}

type ArchivedPollsResponse struct {
	RoomID string              `json:"roomId"`
	Polls  []ClosedPollSummary `json:"polls"`
}
