package production

import "fmt"

// ErrInvalidRequestTransition indicates an invalid request state transition
type ErrInvalidRequestTransition struct {
	RequestID int
	From      RequestState
	To        RequestState
}

func (e *ErrInvalidRequestTransition) Error() string {
	return fmt.Sprintf("invalid request transition for %d: %s -> %s", e.RequestID, e.From, e.To)
}
