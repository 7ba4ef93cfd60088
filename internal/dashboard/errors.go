package dashboard

import (
	"errors"
	"fmt"
)

var (
	// ErrStationNotFound means the station is not in the latest report.
	ErrStationNotFound = errors.New("station not found")
	// ErrDataUnavailable means no report exists yet, or the station has no
	// data for today.
	ErrDataUnavailable = errors.New("data unavailable for this station")
)

// InvalidInputError is returned for out-of-range request parameters.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

func newInvalidInput(format string, args ...interface{}) *InvalidInputError {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
