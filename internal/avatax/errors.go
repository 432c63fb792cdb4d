package avatax

import "fmt"

// ServiceError means AvaTax was reachable but rejected or flagged the request.
type ServiceError struct {
	Message    string
	StatusCode int
}

func (e *ServiceError) Error() string {
	return e.Message
}

// TransportError means the request never produced a usable response
// (connection failure, timeout, unreadable body).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("avatax %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
