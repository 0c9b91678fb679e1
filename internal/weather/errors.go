package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrURL indicates that no valid request URL could be built
	ErrURL = errors.New("invalid forecast URL")

	// ErrResponse indicates a transport failure before an HTTP response arrived
	ErrResponse = errors.New("forecast request failed")

	// ErrNilData indicates a successful response with an empty body
	ErrNilData = errors.New("forecast response has no data")

	// ErrWrongDataFormat indicates a body that is not the expected JSON shape
	ErrWrongDataFormat = errors.New("forecast response has wrong data format")
)

// StatusError reports an unexpected HTTP status code.
type StatusError struct {
	Expected int
	Received int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("expected status %d, but received %d", e.Expected, e.Received)
}
