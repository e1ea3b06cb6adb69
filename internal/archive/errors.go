// file: internal/archive/errors.go
// version: 1.0.0
// guid: b5e83f17-0a6d-4c29-8f41-e7d2a0c96b38

package archive

import (
	"errors"
	"fmt"
)

// Error classes, matched with errors.Is
var (
	// ErrFormat means the archive or one of its entries is malformed
	ErrFormat = errors.New("container format error")
	// ErrMissingEntry means a required entry is absent
	ErrMissingEntry = errors.New("missing container entry")
	// ErrValidation means the playlist breaks a schema rule
	ErrValidation = errors.New("playlist validation error")
	// ErrIO means the underlying storage failed
	ErrIO = errors.New("container i/o error")
)

const (
	opRead  = "read"
	opWrite = "write"
)

// Error describes a failed read or write. Kind is one of the error
// classes above; Err is the cause and stays reachable through errors.As.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to %s playlist: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the error class
func (e *Error) Is(target error) bool { return target == e.Kind }

func newError(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}
