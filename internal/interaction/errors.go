// internal/interaction/errors.go
package interaction

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrConditionNotMet is matched by every failed wait, whatever the condition.
	ErrConditionNotMet = errors.New("condition not met")
	// ErrFileNotFound is returned when an upload source does not exist.
	ErrFileNotFound = errors.New("file does not exist")
)

// Error is the terminal failure of an interaction. It names the operation, the
// target and how many attempts were made so failures are diagnosable from a
// test report alone.
type Error struct {
	Op       Op
	Target   Locator
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s on %s failed after %d attempt(s): %v", e.Op, e.Target, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ConditionError reports an element that never reached a required state
// within its timeout slice.
type ConditionError struct {
	Condition Condition
	Target    Locator
	Timeout   time.Duration
	Err       error
}

func (e *ConditionError) Error() string {
	msg := fmt.Sprintf("element %s %s within %s", e.Target, e.Condition.failure(), e.Timeout)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConditionError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrConditionNotMet) match any ConditionError.
func (e *ConditionError) Is(target error) bool { return target == ErrConditionNotMet }
