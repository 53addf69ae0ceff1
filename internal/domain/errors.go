package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCity is returned when an operation references a city id
	// not present in the market. Indicates a caller/topology mismatch.
	ErrUnknownCity = errors.New("unknown city")

	// ErrDuplicateCity is returned when a city id is registered twice.
	ErrDuplicateCity = errors.New("duplicate city")

	// ErrInvalidScenario is returned when a scenario file fails validation
	ErrInvalidScenario = errors.New("invalid scenario")
)

// CityError wraps a city-scoped failure with the operation and id that
// triggered it.
type CityError struct {
	Op     string // Operation that failed (e.g., "add_producer")
	CityID int
	Err    error
}

func (e *CityError) Error() string {
	return fmt.Sprintf("%s: city %d: %v", e.Op, e.CityID, e.Err)
}

func (e *CityError) Unwrap() error {
	return e.Err
}

// NewCityError creates a city-scoped error.
func NewCityError(op string, cityID int, err error) *CityError {
	return &CityError{Op: op, CityID: cityID, Err: err}
}
