package sched

import "fmt"

// registrationError is a small sentinel-style error type for the
// Register/Whereis bookkeeping layer described in SPEC_FULL.md §5. It
// carries no behavior beyond a formatted message; this is not part of
// the bytecode Value domain and nothing in the interpreter ever sees it.
type registrationError struct {
	msg string
}

func (e *registrationError) Error() string { return e.msg }

func errAlreadyRegistered(name string) error {
	return &registrationError{msg: fmt.Sprintf("sched: name %q already registered", name)}
}

func errUnknownPid(pid uint64) error {
	return &registrationError{msg: fmt.Sprintf("sched: pid %d is not a known process", pid)}
}

// Unregister removes a name from the registry, if present. It is a
// no-op if the name was never registered; there is nothing in the
// suspended process's control flow that depends on it, so this never
// needs to be called automatically on process exit.
func (s *Scheduler) Unregister(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.names, name)
}
