package sampledata

import (
	"errors"
	"time"
)

// Default configuration constants.
const (
	DefaultPractices        = 24
	DefaultPlayers          = 18
	DefaultTeamsPerPractice = 3
	DefaultStartDate        = "2025-09-01"
	DefaultTimeout          = 10 * time.Second
)

// Errors returned by seeding runs.
var (
	ErrInvalidConfig = errors.New("invalid seed configuration")
	ErrVerification  = errors.New("leaderboard verification failed")
	ErrService       = errors.New("service request failed")
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o644
)

// Practice shape constants.
const (
	recordDir    = "practices"
	attendance   = 0.8
	minReps      = 10
	repsRange    = 16
	shortGapDays = 3
	longGapDays  = 4
)
