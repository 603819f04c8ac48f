package records

import "errors"

// Sentinel errors returned by record stores.
var (
	ErrManifest      = errors.New("read manifest failed")
	ErrRecord        = errors.New("record unavailable")
	ErrDecode        = errors.New("record decode failed")
	ErrOutsideRoot   = errors.New("path outside data root")
	ErrNotConfigured = errors.New("record store not configured")
)
