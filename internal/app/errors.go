package service

import "errors"

// Sentinel errors for the service.
var (
	ErrNoRecordStore = errors.New("no record store configured")
)
