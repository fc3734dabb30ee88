package narrative

import (
	"errors"
	"fmt"
)

// ErrEmptyNarrative means the model answered with JSON that carried no
// activities summary.
var ErrEmptyNarrative = errors.New("narrative has no activities summary")

// ExternalServiceError wraps any failure of the language-model call. The
// report is still usable when this error is returned.
type ExternalServiceError struct {
	Op       string // "generate" or "decode"
	Provider string
	Err      error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("narrative %s via %s: %v", e.Op, e.Provider, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }
