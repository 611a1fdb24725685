package domain

import "time"

const (
	// BlockInterval is the target block production interval.
	BlockInterval = 500 * time.Millisecond

	BlocksPerSecond = int64(time.Second / BlockInterval)
	BlocksPerDay    = BlocksPerSecond * 60 * 60 * 24

	// MaxBlockCPUMs is the CPU budget of one block in milliseconds.
	MaxBlockCPUMs = 200

	// MsPerDay is the total CPU time the network offers per day.
	MsPerDay = float64(MaxBlockCPUMs * BlocksPerDay)

	// PowerUpFrac is the fixed-point denominator of PowerUp weight ratios.
	PowerUpFrac = 1e15

	DefaultAccountMaxAge = 60 * time.Second
)
