package util

import (
	"fmt"

	"github.com/pkg/errors"
)

// RecoveredError turns a value from recover() into an error carrying a stack trace.
func RecoveredError(recovered interface{}) error {
	switch v := recovered.(type) {
	case nil:
		return nil
	case error:
		return errors.WithStack(v)
	case string:
		return errors.New(v)
	case fmt.Stringer:
		return errors.New(v.String())
	default:
		return errors.Errorf("panic: %v", v)
	}
}
