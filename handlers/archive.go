// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
)

// PollArchive is the read side of the closed poll archive.
type PollArchive interface {
	ListRoomPolls(ctx context.Context, roomID string) ([]models.ClosedPollSummary, error)
}

type ArchiveHandler struct {
	archive PollArchive
}

// NewArchiveHandler accepts a nil archive; every request then gets 404.
func NewArchiveHandler(archive PollArchive) *ArchiveHandler {
	return &ArchiveHandler{archive: archive}
}

// RoomPolls handles GET /archive/rooms/{id}/polls
// Unlike get_past_polls this works after the room itself is gone
func (h *ArchiveHandler) RoomPolls(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll archive is not enabled")
		return
	}

	roomID := r.PathValue("id")
	if roomID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room id is required")
		return
	}

	polls, err := h.archive.ListRoomPolls(r.Context(), roomID)
	if err != nil {
		slog.Error("failed to list archived polls", "room_id", roomID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ArchivedPollsResponse{
		RoomID: roomID,
		Polls:  polls,
	})
}
