package scaffold

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrPathCollision means two template entries rewrite to the same output path.
	ErrPathCollision = errors.New("output path collision")
	// ErrInvalidPath means a substituted path segment is empty, "." or "..",
	// or contains a separator.
	ErrInvalidPath = errors.New("invalid output path")
)

// WriteError reports a failure to materialize output. When Partial is true,
// OutputDir holds a partially written tree that the caller must clean up.
type WriteError struct {
	Path      string // file or directory being written when the failure happened
	OutputDir string
	Partial   bool
	Err       error
}

func (e *WriteError) Error() string {
	msg := fmt.Sprintf("writing %s: %v", e.Path, e.Err)
	if e.Partial {
		msg += fmt.Sprintf(" (partial output left at %s)", e.OutputDir)
	}
	return msg
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// RemovePartial deletes the output directory named by a partial WriteError.
// Other errors are ignored.
func RemovePartial(err error) error {
	var we *WriteError
	if !errors.As(err, &we) || !we.Partial || we.OutputDir == "" {
		return nil
	}
	if rmErr := os.RemoveAll(we.OutputDir); rmErr != nil {
		return fmt.Errorf("removing partial output %s: %w", we.OutputDir, rmErr)
	}
	return nil
}
