package wizard

import (
	"errors"
	"fmt"
)

// ErrNoSession signals input arriving for a user with no active wizard.
var ErrNoSession = errors.New("wizard: no active session")

// ExtractionError wraps a failed external extraction call. The session is
// preserved; the user may retry the upload.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string { return fmt.Sprintf("wizard: extraction: %v", e.Err) }
func (e *ExtractionError) Unwrap() error { return e.Err }

// GenerationError wraps a failed external generation call. The session is
// preserved; the user may retry the input.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("wizard: generation: %v", e.Err) }
func (e *GenerationError) Unwrap() error { return e.Err }

// RenderError wraps a failed document render. The session is cleared:
// render failure has no retry path, so collected values do not survive it.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return fmt.Sprintf("wizard: render: %v", e.Err) }
func (e *RenderError) Unwrap() error { return e.Err }
