package network

import (
	"time"

	"github.com/lixenwraith/planar/parameter"
)

// Config holds broadcaster configuration
type Config struct {
	// Address to bind, used by ListenAndServe
	Address string
	// Path the websocket endpoint is mounted on
	Path string

	// Connection limits
	MaxClients int

	// Timing
	WriteTimeout time.Duration
	PingInterval time.Duration
	PongTimeout  time.Duration

	// Buffer sizes
	ReadBufferSize  int
	WriteBufferSize int
	SendQueueSize   int // per viewer, raised to 1 when smaller
	// ReadLimit caps inbound command frames
	ReadLimit int64
}

// DefaultConfig returns loopback defaults
func DefaultConfig() *Config {
	return &Config{
		Address:         "127.0.0.1:8765",
		Path:            "/ws",
		MaxClients:      16,
		WriteTimeout:    parameter.SnapshotWriteTimeout,
		PingInterval:    10 * time.Second,
		PongTimeout:     30 * time.Second,
		ReadBufferSize:  1024,
		WriteBufferSize: 64 * 1024,
		SendQueueSize:   parameter.SnapshotQueueSize,
		ReadLimit:       4096,
	}
}
