// internal/form/submit.go
//
// Contact form – submit gate.
//
// Context
//   Submit marks the form as submitted, then either blocks (any validation
//   error present) or accepts.  A blocked submit leaves every field as it
//   was and returns *BlockedError so callers can show an inline notice
//   instead of a modal.  An accepted submit captures an immutable Snapshot
//   and resets the State.
//
//   Emitting the Snapshot is the caller's job (see Sink), which keeps State
//   free of I/O and lets tests drive the clock.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"time"
)

// NoticeBlocked is the message shown when a submit is refused.
const NoticeBlocked = "Correct form errors to submit"

// Snapshot is the record produced by an accepted submit.
type Snapshot struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PhoneType    PhoneType `json:"phoneType"`
	Role         Role      `json:"role"`
	Bio          string    `json:"bio"`
	EmailUpdates bool      `json:"emailUpdates"`
	SubmittedOn  time.Time `json:"submittedOn"`
}

// BlockedError reports a refused submit.  Errors holds the validation
// messages that caused it, in validator order.
type BlockedError struct {
	Errors []string
}

func (e *BlockedError) Error() string { return NoticeBlocked }

// IsBlocked reports whether err came from a refused Submit.
func IsBlocked(err error) bool {
	var be *BlockedError
	return errors.As(err, &be)
}

// Submit runs the gate.  now stamps SubmittedOn on acceptance.
func (s *State) Submit(now time.Time) (Snapshot, error) {
	s.hasSubmitted = true

	if len(s.errs) > 0 {
		return Snapshot{}, &BlockedError{Errors: s.Errors()}
	}

	// A stale phone type never survives an empty phone.
	if s.v.Phone == "" {
		s.v.PhoneType = PhoneUnset
	}

	snap := Snapshot{
		Name:         s.v.Name,
		Email:        s.v.Email,
		Phone:        s.v.Phone,
		PhoneType:    s.v.PhoneType,
		Role:         s.v.Role,
		Bio:          s.v.Bio,
		EmailUpdates: s.v.EmailUpdates,
		SubmittedOn:  now,
	}

	s.Reset()
	return snap, nil
}
