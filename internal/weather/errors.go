package weather

import "errors"

var (
	// ErrSourceUnavailable is returned when the weather or forecast source
	// cannot be reached or returns a payload that cannot be decoded.
	ErrSourceUnavailable = errors.New("weather source unavailable")

	// ErrSinkFailure is returned when the best-effort outbound post fails.
	ErrSinkFailure = errors.New("weather sink failure")

	ErrRefreshInProgress = errors.New("weather refresh already in progress")
	ErrAlreadySimulated  = errors.New("simulation already ran for this session")
	ErrInvalidUnit       = errors.New("invalid temperature unit")
	ErrInvalidDays       = errors.New("simulation days must not be negative")
)
