package loader

import "errors"

// Sentinel errors for this package.
var (
	ErrManifestUnavailable = errors.New("manifest unavailable")
	ErrNoStore             = errors.New("no record store configured")
)
