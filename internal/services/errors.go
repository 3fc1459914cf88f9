package services

import "errors"

var (
	// ErrUnauthorized means the request carried no credential at all.
	ErrUnauthorized = errors.New("unauthorized access")
	// ErrForbidden covers bad or expired tokens, role and identity mismatches.
	ErrForbidden       = errors.New("forbidden access")
	ErrInvalidInput    = errors.New("invalid input")
	ErrPaymentProvider = errors.New("payment provider error")
)
