package mock

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrLockTimeout is returned when the mock file lock is not acquired in time.
	ErrLockTimeout = errors.New("mock: lock timeout")
	// ErrIO is returned when the mock file cannot be read or written.
	ErrIO = errors.New("mock: i/o failure")
	// ErrParse is returned when the mock file is not a JSON object of strings.
	ErrParse = errors.New("mock: parse failure")
	// ErrNotFound is returned when removing a prefix the store does not hold.
	ErrNotFound = errors.New("mock: prefix not found")
)

// LockTimeoutError reports lock contention on a scope.
type LockTimeoutError struct {
	Scope  Scope
	Path   string
	Waited time.Duration
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("mock: failed to lock %s mock file %s after %s", e.Scope, e.Path, e.Waited.Round(time.Millisecond))
}

func (e *LockTimeoutError) Is(target error) bool { return target == ErrLockTimeout }

// IOError wraps a filesystem failure on the mock or lock file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("mock: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// ParseError wraps a JSON decoding failure.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("mock: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// NotFoundError names the prefix missing from a scope.
type NotFoundError struct {
	Scope  Scope
	Path   string
	Prefix string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("mock: target ID prefix %q is not present in %s mock file %s", e.Prefix, e.Scope, e.Path)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
