package cli

import (
	"fmt"

	"github.com/kottz/ekman/internal/api"
)

type notFoundError struct {
	kind string
	ref  string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.ref)
}

func (e notFoundError) Unwrap() error { return api.ErrNotFound }

func errNotFound(kind, ref string) error {
	return notFoundError{kind: kind, ref: ref}
}

func errUsage(format string, args ...any) error {
	return fmt.Errorf("%w: %s", api.ErrInvalid, fmt.Sprintf(format, args...))
}

// describe adds a next step to errors the user can fix.
func describe(err error) error {
	if api.Classify(err) == api.KindUnauthorized {
		return fmt.Errorf("%w (run: ekman login)", err)
	}
	return err
}
