package lifecycle

import "errors"

// Sentinel categories for everything the registrar and escalation engine
// can fail with. Callers branch with errors.Is; messages carry the detail.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage failure")
)
