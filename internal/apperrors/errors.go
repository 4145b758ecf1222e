// Package apperrors defines the error kinds the service layer is allowed to
// return. Handlers map them onto HTTP status codes and never expose the
// wrapped detail of anything else.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

func NotFound(msg string) error   { return fmt.Errorf("%w: %s", ErrNotFound, msg) }
func Conflict(msg string) error   { return fmt.Errorf("%w: %s", ErrConflict, msg) }
func Validation(msg string) error { return fmt.Errorf("%w: %s", ErrValidation, msg) }

func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool   { return errors.Is(err, ErrConflict) }
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// Reason strips the sentinel prefix, leaving the user-facing message.
func Reason(err error) string {
	for _, sentinel := range []error{ErrNotFound, ErrConflict, ErrValidation} {
		if errors.Is(err, sentinel) {
			msg := err.Error()
			prefix := sentinel.Error() + ": "
			if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
				return msg[len(prefix):]
			}
			return msg
		}
	}
	return err.Error()
}
