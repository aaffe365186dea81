// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gateway

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/danielhkuo/livepoll/models"
)

// Hub maps connection ids to clients and rooms to their subscribers. It
// implements session.Publisher; every method only queues frames and returns.
type Hub struct {
	mu sync.RWMutex

	clients map[string]*Client
	// rooms: roomID -> set of connIDs
	rooms map[string]map[string]struct{}
	// memberships: connID -> set of roomIDs, for cleanup on disconnect
	memberships map[string]map[string]struct{}

	metrics *Metrics
}

func NewHub(metrics *Metrics) *Hub {
	return &Hub{
		clients:     make(map[string]*Client),
		rooms:       make(map[string]map[string]struct{}),
		memberships: make(map[string]map[string]struct{}),
		metrics:     metrics,
	}
}

// Register makes c addressable by its id.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

// Unregister forgets connID and removes it from every room.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for roomID := range h.memberships[connID] {
		h.leave(roomID, connID)
	}
	delete(h.memberships, connID)
	delete(h.clients, connID)
}

func (h *Hub) Subscribe(roomID, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[string]struct{})
	}
	h.rooms[roomID][connID] = struct{}{}

	if h.memberships[connID] == nil {
		h.memberships[connID] = make(map[string]struct{})
	}
	h.memberships[connID][roomID] = struct{}{}

	slog.Debug("connection subscribed", "room_id", roomID, "conn_id", connID, "subscribers", len(h.rooms[roomID]))
}

func (h *Hub) Unsubscribe(roomID, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leave(roomID, connID)
	if m := h.memberships[connID]; m != nil {
		delete(m, roomID)
		if len(m) == 0 {
			delete(h.memberships, connID)
		}
	}
}

// leave removes connID from the room set. Caller holds h.mu.
func (h *Hub) leave(roomID, connID string) {
	conns, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(conns, connID)
	if len(conns) == 0 {
		delete(h.rooms, roomID)
	}
}

// DropRoom unsubscribes everyone from roomID. Connections stay open.
func (h *Hub) DropRoom(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for connID := range h.rooms[roomID] {
		if m := h.memberships[connID]; m != nil {
			delete(m, roomID)
			if len(m) == 0 {
				delete(h.memberships, connID)
			}
		}
	}
	delete(h.rooms, roomID)
}

// Publish sends ev to every subscriber of roomID. The frame is encoded once.
func (h *Hub) Publish(roomID string, ev models.Event) {
	data, ok := h.encode(ev)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for connID := range h.rooms[roomID] {
		if c, ok := h.clients[connID]; ok {
			c.Send(data)
		}
	}
}

// SendTo sends ev to one connection only.
func (h *Hub) SendTo(connID string, ev models.Event) {
	data, ok := h.encode(ev)
	if !ok {
		return
	}
	h.SendRaw(connID, data)
}

// SendRaw queues an already encoded frame for connID.
func (h *Hub) SendRaw(connID string, data []byte) bool {
	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	return c.Send(data)
}

// Subscribers returns how many connections receive events for roomID.
func (h *Hub) Subscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) encode(ev models.Event) ([]byte, bool) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("failed to encode event", "type", ev.Type, "room_id", ev.RoomID, "error", err)
		h.metrics.IncrementBroadcastErrors()
		return nil, false
	}
	return data, true
}
