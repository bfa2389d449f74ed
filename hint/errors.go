package hint

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownHint is matched by errors.Is for any *UnknownHintError.
	ErrUnknownHint = errors.New("unknown hint")
	// ErrDuplicateHint is returned when two hints of a registry share a code or a name.
	ErrDuplicateHint = errors.New("duplicate hint")
)

// UnknownHintError reports a hint code no registry recognizes.
//
// Providers return it unwrapped to signal "not mine"; the chain then tries
// the next provider. Wrapped, it is an ordinary handler failure.
type UnknownHintError struct {
	Code string
	// Suggestion is the closest registered code, if any is close. It is a
	// diagnostic only and never used for matching.
	Suggestion string
}

func (e *UnknownHintError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown hint %q (closest registered hint: %q)", e.Code, e.Suggestion)
	}
	return fmt.Sprintf("unknown hint %q", e.Code)
}

func (e *UnknownHintError) Is(target error) bool {
	return target == ErrUnknownHint
}
