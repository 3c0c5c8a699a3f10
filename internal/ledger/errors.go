package ledger

import (
	"errors"
	"fmt"
)

// Error kinds. Every rejection returned by the ledger wraps exactly one of them,
// so callers can branch with errors.Is.
var (
	// ErrUnauthorized: the actor lacks the required relationship
	// (not the admin, not the responsible party, not the share owner).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidTransition: the entity is not in the state the operation requires.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrAlreadyMember: household creation or join while already affiliated.
	ErrAlreadyMember = errors.New("already a household member")

	// ErrNotFound: a referenced id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument: the input failed validation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrProtected: the deletion is blocked by records that depend on the target.
	ErrProtected = errors.New("protected")
)

// Rejection is an aborted operation. Its message is meant for the end user.
type Rejection struct {
	Kind    error
	Message string
}

func (r *Rejection) Error() string { return r.Message }

func (r *Rejection) Unwrap() error { return r.Kind }

// Level is the notice level the rejection should be shown with.
func (r *Rejection) Level() Level {
	if r.Kind == ErrInvalidTransition {
		return LevelWarning
	}
	return LevelError
}

func reject(kind error, format string, args ...any) error {
	return &Rejection{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// LevelOf returns the notice level for err: the rejection's level, or error.
func LevelOf(err error) Level {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Level()
	}
	return LevelError
}
