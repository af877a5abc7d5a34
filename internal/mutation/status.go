// Package mutation runs writes against the rental API, tracks their status
// and invalidates the cached queries they affect.
package mutation

// Status is the lifecycle state of a coordinator.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

var transitions = map[Status]map[Status]struct{}{
	StatusIdle:    {StatusPending: {}},
	StatusPending: {StatusSuccess: {}, StatusError: {}},
	StatusSuccess: {StatusIdle: {}},
	StatusError:   {StatusIdle: {}},
}

// CanTransition reports whether moving from one status to another is allowed.
func CanTransition(from, to Status) bool {
	next, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// Done reports whether s is a terminal status of a run.
func (s Status) Done() bool {
	return s == StatusSuccess || s == StatusError
}
