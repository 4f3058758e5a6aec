package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP status codes.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrConflict      = errors.New("conflict")
	ErrBadRequest    = errors.New("bad request")
	ErrForbidden     = errors.New("forbidden")
	ErrInternal      = errors.New("internal server error")
	ErrConfiguration = errors.New("invalid configuration")
)

// Error is a business-rule violation that unwraps to one of the kinds above
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Internal wraps an unexpected lower-layer failure
func Internal(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
}

// User errors
var (
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrAdminNotFound      = newError(ErrNotFound, "admin not found")
	ErrUserAlreadyExists  = newError(ErrConflict, "username or email already exists")
	ErrInvalidCredentials = newError(ErrBadRequest, "invalid credentials")
	ErrUserInactive       = newError(ErrForbidden, "user account is inactive")
	ErrNotAdmin           = newError(ErrForbidden, "approver is not an administrator")
)

// VIP errors
var (
	ErrVipAlreadyVerified  = newError(ErrBadRequest, "VIP identity already verified")
	ErrVipIDMissing        = newError(ErrBadRequest, "no VIP ID number submitted")
	ErrVipIDRequired       = newError(ErrBadRequest, "VIP ID number is required")
	ErrVipRequestPending   = newError(ErrConflict, "a VIP request is already pending")
	ErrVipNotVerified      = newError(ErrBadRequest, "user VIP identity is not verified")
	ErrInvalidStatusFilter = newError(ErrBadRequest, "invalid status, use pending, active, expired or inactive")
)

// Membership errors
var (
	ErrMembershipTypeNotFound = newError(ErrNotFound, "membership type not found")
	ErrMembershipTypeExists   = newError(ErrConflict, "membership type name already exists")
	ErrMembershipTypeInvalid  = newError(ErrBadRequest, "invalid membership type")
	ErrMembershipTypeInUse    = newError(ErrConflict, "membership type has memberships and cannot be deleted")
	ErrMembershipNotFound     = newError(ErrNotFound, "membership not found")
	ErrActiveMembershipExists = newError(ErrConflict, "user already has an active membership")
	ErrMembershipNotPending   = newError(ErrBadRequest, "membership is not pending")
	ErrInvalidTransition      = newError(ErrBadRequest, "invalid membership status transition")
)

// Notification errors
var (
	ErrNotificationNotFound  = newError(ErrNotFound, "notification not found")
	ErrNotificationForbidden = newError(ErrForbidden, "you are not allowed to modify this notification")
)
