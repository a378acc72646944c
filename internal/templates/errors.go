package templates

import "fmt"

// NotFoundError reports a template root that is missing or unreadable, or a
// template name that no source provides.
type NotFoundError struct {
	Template string
	Root     string
	Err      error
}

func (e *NotFoundError) Error() string {
	if e.Root == "" {
		return fmt.Sprintf("template %q not found", e.Template)
	}
	if e.Err != nil {
		return fmt.Sprintf("template %q not found at %s: %v", e.Template, e.Root, e.Err)
	}
	return fmt.Sprintf("template %q not found at %s", e.Template, e.Root)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}
