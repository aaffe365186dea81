// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gateway

import (
	"time"

	"github.com/danielhkuo/livepoll/session"
)

// Connection limits
const (
	MaxTotalConnections = 10000
	MaxRooms            = session.DefaultMaxRooms

	// ReadLimit caps a single inbound frame.
	ReadLimit = 64 << 10
)

// Rate limiting
const (
	MaxMessagesPerSecond = 10
	RateLimitWindow      = time.Second
)

// Timeouts
const (
	WriteTimeout = 10 * time.Second
	PingInterval = 30 * time.Second
)

// Buffers
const (
	ClientSendBufferSize = 256
)
