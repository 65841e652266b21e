package models

import "errors"

// Common errors used throughout the application
var (
	ErrClassNotFound       = errors.New("class not found")
	ErrEmptyCart           = errors.New("no items in cart")
	ErrFreeClass           = errors.New("free classes cannot be purchased")
	ErrCheckoutInProgress  = errors.New("checkout already in progress")
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	ErrSessionNotFound     = errors.New("checkout session not found")
	ErrDuplicateSession    = errors.New("order for this checkout session already exists")
	ErrInvalidInput        = errors.New("invalid input")
)

// ErrNotFound represents a not found error
type ErrNotFound struct {
	Message string
}

func (e *ErrNotFound) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "not found"
}

// IsNotFound reports whether err is, or wraps, a not found error
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	return errors.As(err, &nf) || errors.Is(err, ErrClassNotFound) || errors.Is(err, ErrSessionNotFound)
}
