package emissions

import "fmt"

// InvalidRouteError reports a malformed route specification: fewer than two
// codes, an empty segment, or a non-positive trip count.
type InvalidRouteError struct {
	Input  string
	Reason string
}

func (e *InvalidRouteError) Error() string {
	return fmt.Sprintf("invalid route %q: %s", e.Input, e.Reason)
}

// LegError tags an endpoint resolution failure with the leg it belongs to.
type LegError struct {
	Leg  int
	Code string
	Err  error
}

func (e *LegError) Error() string {
	return fmt.Sprintf("leg %d: %v", e.Leg, e.Err)
}

func (e *LegError) Unwrap() error {
	return e.Err
}
