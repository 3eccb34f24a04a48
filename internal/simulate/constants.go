package simulate

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	SettlePollInterval   = 250 * time.Millisecond
	PercentageMultiplier = 100
	displayTopN          = 10
)

// Spoofed readings: a round heart rate far above what the reported movement
// explains.
const (
	spoofHeartRate = 150
	spoofMovement  = 0.01
)
