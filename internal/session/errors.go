package session

import "fmt"

// OperationError is a rejected register, login, logout or reset call. It is
// returned to the caller and never written into the Session.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }
