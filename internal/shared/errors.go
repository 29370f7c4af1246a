package shared

import (
	"context"
	"errors"

	"github.com/halocare/halocare-admin/internal/platform/httpx"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// UserSafeMessage converts an error into text that can be shown to a manager
// without leaking internals.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, httpx.ErrNotFound), errors.Is(err, ErrNotFound):
		return "The record no longer exists. It may have been deleted by someone else."
	case errors.Is(err, httpx.ErrDuplicate):
		return "A record with the same identifier already exists."
	case errors.Is(err, httpx.ErrValidation):
		var detailed interface{ UserMessage() string }
		if errors.As(err, &detailed) && detailed.UserMessage() != "" {
			return detailed.UserMessage()
		}
		return "Some fields are invalid. Please review the form."
	case errors.Is(err, httpx.ErrUnauthorized), errors.Is(err, httpx.ErrForbidden):
		return "You are not allowed to perform this action."
	case errors.Is(err, context.DeadlineExceeded):
		return "The booking service took too long to answer. Please try again."
	default:
		return "The booking service is unavailable right now. Please try again."
	}
}
