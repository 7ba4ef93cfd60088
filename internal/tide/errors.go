package tide

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when the upstream answered well-formed but had no
// readings for the requested day.
var ErrNoData = errors.New("no tide data for day")

// UpstreamAPIError represents an error from the tide prediction API
type UpstreamAPIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamAPIError) Error() string {
	prefix := "tide API error"
	if e.Endpoint != "" {
		prefix = fmt.Sprintf("tide API error (%s)", e.Endpoint)
	}
	if e.StatusCode != 0 {
		prefix = fmt.Sprintf("%s: status %d", prefix, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *UpstreamAPIError) Unwrap() error {
	return e.Err
}

// NewUpstreamAPIError creates a new upstream API error
func NewUpstreamAPIError(endpoint, message string, err error) *UpstreamAPIError {
	return &UpstreamAPIError{
		Endpoint: endpoint,
		Message:  message,
		Err:      err,
	}
}

// InsufficientDataError is returned when there are too few readings to
// build an hourly series.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient tide data: have %d points, need at least %d", e.Have, e.Need)
}
