package probe

import "errors"

// Sentinel errors returned by Run.
var (
	ErrUnhealthy   = errors.New("service unhealthy")
	ErrCalibration = errors.New("calibration unavailable")
	ErrMismatch    = errors.New("responses disagree with the local model")
	ErrConfig      = errors.New("invalid probe config")
)
