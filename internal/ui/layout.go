package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the status column and
	// the header counters are shortened.
	LayoutCompactWidth = 100

	// LayoutExtraWideWidth is the threshold for showing the last refresh time.
	LayoutExtraWideWidth = 140
)

// Log display limits.
const (
	// LogTailLines is how many lines of the log file the log view reads.
	LogTailLines = 2000
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// ToastDuration is how long a notification stays on screen.
	ToastDuration = 4 * time.Second
)
