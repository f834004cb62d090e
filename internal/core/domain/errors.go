package domain

import "errors"

// Sentinel errors returned by services and repositories. The SOAP layer owns
// the single mapping from these to wire fault codes; nothing below it ever
// encodes a fault.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidOrderStatus = errors.New("invalid order status")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("not authorized to perform this action")

	// Token validation outcomes, distinguished so callers can report an
	// expired token differently from a forged or garbled one.
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")
)
