// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/session"
)

// Codes that do not come from the session package.
const (
	CodeUnknownCommand = "unknown_command"
	CodeInternal       = "internal"
)

var (
	rateLimitFrame = mustEncode(models.Event{
		Type:    models.EventError,
		Payload: models.ErrorPayload{Message: "Rate limit exceeded. Please slow down."},
	})
	malformedFrame = mustEncode(models.Event{
		Type:    models.EventError,
		Payload: models.ErrorPayload{Message: "Invalid message format"},
	})
)

func mustEncode(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

var errMalformedPayload = &session.Error{
	Kind:    session.KindInvalidInput,
	Code:    session.ErrInvalidInput.Code,
	Message: "Malformed payload",
}

type handlerFunc func(connID string, payload json.RawMessage) (any, error)

// Dispatcher turns one inbound frame into one Manager call and one reply.
type Dispatcher struct {
	mgr      *session.Manager
	handlers map[string]handlerFunc
}

func NewDispatcher(mgr *session.Manager) *Dispatcher {
	d := &Dispatcher{mgr: mgr}
	d.handlers = map[string]handlerFunc{
		models.CmdCreateRoom:    d.createRoom,
		models.CmdJoinRoom:      d.joinRoom,
		models.CmdCreatePoll:    d.createPoll,
		models.CmdSubmitAnswer:  d.submitAnswer,
		models.CmdRemoveStudent: d.removeStudent,
		models.CmdGetPastPolls:  d.getPastPolls,
		models.CmdGetRoomState:  d.getRoomState,
		models.CmdSendMessage:   d.sendMessage,
	}
	return d
}

// Handle processes one frame from connID and returns the encoded response:
// a reply for well-formed commands, an error event otherwise.
func (d *Dispatcher) Handle(connID string, frame []byte) []byte {
	var cmd models.Command
	if err := json.Unmarshal(frame, &cmd); err != nil || cmd.Type == "" {
		slog.Warn("malformed frame", "conn_id", connID, "bytes", len(frame))
		return malformedFrame
	}

	reply := d.dispatch(connID, cmd)
	data, err := json.Marshal(reply)
	if err != nil {
		slog.Error("failed to encode reply", "command", cmd.Type, "conn_id", connID, "error", err)
		return mustEncode(failure(cmd, CodeInternal, "Internal server error"))
	}
	return data
}

func (d *Dispatcher) dispatch(connID string, cmd models.Command) (reply models.Reply) {
	h, ok := d.handlers[cmd.Type]
	if !ok {
		return failure(cmd, CodeUnknownCommand, "Unknown command: "+cmd.Type)
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("command panicked", "command", cmd.Type, "conn_id", connID, "panic", r)
			reply = failure(cmd, CodeInternal, "Internal server error")
		}
	}()

	data, err := h(connID, cmd.Payload)
	if err != nil {
		var se *session.Error
		if errors.As(err, &se) {
			slog.Debug("command rejected", "command", cmd.Type, "conn_id", connID, "code", se.Code)
			return failure(cmd, se.Code, se.Message)
		}
		slog.Error("command failed", "command", cmd.Type, "conn_id", connID, "error", err)
		return failure(cmd, CodeInternal, "Internal server error")
	}

	return models.Reply{
		Type:    models.EventReply,
		ID:      cmd.ID,
		Command: cmd.Type,
		Success: true,
		Data:    data,
	}
}

func failure(cmd models.Command, code, msg string) models.Reply {
	return models.Reply{
		Type:    models.EventReply,
		ID:      cmd.ID,
		Command: cmd.Type,
		Error:   msg,
		Code:    code,
	}
}

func decode[T any](payload json.RawMessage) (T, error) {
	var v T
	if len(payload) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, errMalformedPayload
	}
	return v, nil
}

func (d *Dispatcher) createRoom(connID string, _ json.RawMessage) (any, error) {
	roomID, err := d.mgr.CreateRoom(connID)
	if err != nil {
		return nil, err
	}
	return models.CreateRoomResponse{RoomID: roomID}, nil
}

func (d *Dispatcher) joinRoom(connID string, payload json.RawMessage) (any, error) {
	req, err := decode[models.JoinRoomRequest](payload)
	if err != nil {
		return nil, err
	}
	res, err := d.mgr.JoinRoom(req.RoomID, req.StudentID, req.StudentName, connID)
	if err != nil {
		return nil, err
	}
	msg := "Joined room successfully"
	if res.Rejoined {
		msg = "Rejoined room successfully"
	}
	return models.JoinRoomResponse{Students: res.Students, Message: msg}, nil
}

func (d *Dispatcher) createPoll(connID string, payload json.RawMessage) (any, error) {
	req, err := decode[models.CreatePollRequest](payload)
	if err != nil {
		return nil, err
	}
	p, err := d.mgr.CreatePoll(req.RoomID, connID, req.Question, req.Options, req.TimeLimit)
	if err != nil {
		return nil, err
	}
	return models.CreatePollResponse{PollID: p.PollID, Poll: p}, nil
}

func (d *Dispatcher) submitAnswer(_ string, payload json.RawMessage) (any, error) {
	req, err := decode[models.SubmitAnswerRequest](payload)
	if err != nil {
		return nil, err
	}
	option := -1
	if req.SelectedOption != nil {
		option = *req.SelectedOption
	}
	if _, err := d.mgr.SubmitAnswer(req.RoomID, req.PollID, req.StudentID, option); err != nil {
		return nil, err
	}
	return nil, nil
}

func (d *Dispatcher) removeStudent(connID string, payload json.RawMessage) (any, error) {
	req, err := decode[models.RemoveStudentRequest](payload)
	if err != nil {
		return nil, err
	}
	return nil, d.mgr.RemoveStudent(req.RoomID, connID, req.StudentID)
}

func (d *Dispatcher) getPastPolls(_ string, payload json.RawMessage) (any, error) {
	req, err := decode[models.RoomRequest](payload)
	if err != nil {
		return nil, err
	}
	past, err := d.mgr.PastPolls(req.RoomID)
	if err != nil {
		return nil, err
	}
	return models.PastPollsResponse{PastPolls: past}, nil
}

func (d *Dispatcher) getRoomState(_ string, payload json.RawMessage) (any, error) {
	req, err := decode[models.RoomRequest](payload)
	if err != nil {
		return nil, err
	}
	snap, err := d.mgr.RoomSnapshot(req.RoomID)
	if err != nil {
		return nil, err
	}
	return models.RoomStateResponse{Room: snap}, nil
}

func (d *Dispatcher) sendMessage(_ string, payload json.RawMessage) (any, error) {
	req, err := decode[models.SendMessageRequest](payload)
	if err != nil {
		return nil, err
	}
	return nil, d.mgr.SendMessage(req.RoomID, req.Author, req.Text, req.Role)
}
