package routing

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable tags network-level failures reaching the engine
	ErrUnavailable = errors.New("routing engine unavailable")

	// ErrDecode tags malformed engine responses
	ErrDecode = errors.New("routing engine response decode failure")
)

// NonOkStatusError reports a non-200 HTTP response from the engine
type NonOkStatusError struct {
	StatusCode int
	BodySample string
}

func (e *NonOkStatusError) Error() string {
	return fmt.Sprintf("routing engine returned HTTP %d", e.StatusCode)
}

// EngineCodeError reports an engine-level failure code (anything but "Ok")
type EngineCodeError struct {
	Code string
}

func (e *EngineCodeError) Error() string {
	return fmt.Sprintf("routing engine returned code %q", e.Code)
}
