package ai

import "errors"

var (
	// ErrDecode marks a response body that does not match the CityInfo contract.
	ErrDecode = errors.New("malformed city info")

	// ErrEmptyResponse is returned when the model produced no usable text.
	ErrEmptyResponse = errors.New("empty response from model")
)

// ServiceError is the single failure kind surfaced by a CityInfoProvider.
// Callers collapse it into one apology; Err keeps the cause for logs and tests.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return "city info " + e.Op + ": " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
