package loadtest

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	DefaultPollInterval  = 50 * time.Millisecond
	DefaultWaitTimeout   = 2 * time.Minute
	PercentageMultiplier = 100
)

// Result states reported by GET /chats/{id}.
const (
	statusPending = "pending"
	statusDone    = "done"
)
