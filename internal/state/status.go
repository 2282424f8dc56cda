package state

import (
	"github.com/jacksmith/kanban/internal/observable"
)

// status holds the loading flag and error message shared by all
// operations of one store.
//
// The flags carry no per-operation identity: when two operations of the
// same store overlap, whichever finishes last decides the final values.
type status struct {
	loading *observable.Value[bool]
	err     *observable.Value[string]
}

func newStatus() status {
	return status{
		loading: observable.New(false),
		err:     observable.New(""),
	}
}

// Loading is true while an operation of the store is in flight.
func (s *status) Loading() *observable.Value[bool] {
	return s.loading
}

// Err holds the message of the most recent failed operation, "" if none.
func (s *status) Err() *observable.Value[string] {
	return s.err
}

// ClearError resets the error message.
func (s *status) ClearError() {
	s.err.Set("")
}

func (s *status) begin() {
	s.loading.Set(true)
	s.err.Set("")
}

func (s *status) end() {
	s.loading.Set(false)
}

// fail records the user-facing message for cause and returns it as an *OpError.
func (s *status) fail(op Op, cause error) *OpError {
	msg := userMessage(op, cause)
	s.err.Set(msg)
	return &OpError{Op: op, Message: msg, Err: cause}
}

func (s *status) close() {
	s.loading.Close()
	s.err.Close()
}
