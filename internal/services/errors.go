package services

import (
	"errors"
	"fmt"
)

// ErrMarketNotFound is returned when a market id is not in the live snapshot
var ErrMarketNotFound = errors.New("market not found")

// UpstreamError reports a refresh that failed while no snapshot was available to fall back to
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream feed unavailable: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
