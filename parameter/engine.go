package parameter

import "time"

// Simulation Loop & Timing
const (
	// StepRate is the default fixed simulation rate in steps per second
	StepRate = 60

	// StepInterval is the fixed timestep matching StepRate
	StepInterval = time.Second / StepRate

	// MaxSubSteps caps steps taken per Advance to avoid the spiral of death after a stall
	MaxSubSteps = 8

	// FrameUpdateInterval is the sandbox rendering interval (~30 FPS)
	FrameUpdateInterval = 33 * time.Millisecond
)

// Event Queue Limits
const (
	// EventQueueSize is the fixed capacity of the contact event ring buffer
	EventQueueSize = 2048

	// EventBufferMask is the bitmask for fast modulo operations (2048 - 1)
	EventBufferMask = EventQueueSize - 1
)

// Broad Phase Defaults
const (
	// GridCellSize is the default uniform grid cell edge in world units
	GridCellSize = 4.0

	// GridCellCapacity is the initial per-cell slice capacity
	GridCellCapacity = 8
)

// Network Snapshot Streaming
const (
	// SnapshotInterval is the number of steps between broadcast snapshots
	SnapshotInterval = 4

	// SnapshotQueueSize is the per-spectator send buffer
	SnapshotQueueSize = 32

	// SnapshotWriteTimeout bounds a single websocket write
	SnapshotWriteTimeout = 2 * time.Second
)
