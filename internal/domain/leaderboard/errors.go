package leaderboard

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrUnknownTieBreak = errors.New("unknown reps tie-break")
)
