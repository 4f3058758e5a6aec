package domain

import "fmt"

// Role represents user role in the system
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// MembershipCategory groups membership types; VIP types are gated on identity verification
type MembershipCategory string

const (
	CategoryVIP      MembershipCategory = "VIP"
	CategoryStandard MembershipCategory = "STANDARD"
)

// Valid reports whether c is a known category
func (c MembershipCategory) Valid() bool {
	return c == CategoryVIP || c == CategoryStandard
}

// BillingCycle of a membership type
type BillingCycle string

const (
	BillingMonthly   BillingCycle = "MONTHLY"
	BillingQuarterly BillingCycle = "QUARTERLY"
	BillingYearly    BillingCycle = "YEARLY"
	BillingOneTime   BillingCycle = "ONE_TIME"
)

// Valid reports whether b is a known billing cycle
func (b BillingCycle) Valid() bool {
	switch b {
	case BillingMonthly, BillingQuarterly, BillingYearly, BillingOneTime:
		return true
	}
	return false
}

// MembershipStatus is the single authoritative state of a user membership.
// A membership is usable (isActive) only in StatusActive.
type MembershipStatus string

const (
	StatusNone    MembershipStatus = ""
	StatusPending MembershipStatus = "pending"
	StatusActive  MembershipStatus = "active"
	StatusExpired MembershipStatus = "expired"
)

// MembershipEvent drives a status transition
type MembershipEvent string

const (
	// EventIssue creates a usable membership with a signed QR code
	EventIssue MembershipEvent = "issue"
	// EventHold creates a membership that waits for VIP verification
	EventHold MembershipEvent = "hold"
	// EventApprove activates a pending membership
	EventApprove MembershipEvent = "approve"
	// EventExpire ends an active membership past its end date
	EventExpire MembershipEvent = "expire"
)

var transitions = map[MembershipStatus]map[MembershipEvent]MembershipStatus{
	StatusNone: {
		EventIssue: StatusActive,
		EventHold:  StatusPending,
	},
	StatusPending: {
		EventApprove: StatusActive,
	},
	StatusActive: {
		EventExpire: StatusExpired,
	},
}

// Transition returns the status reached from `from` on `event`.
// Every state change of a membership goes through here.
func Transition(from MembershipStatus, event MembershipEvent) (MembershipStatus, error) {
	if next, ok := transitions[from][event]; ok {
		return next, nil
	}
	return from, fmt.Errorf("%w: %q on %q", ErrInvalidTransition, event, from)
}

// IsActive reports whether the status grants a usable entitlement
func (s MembershipStatus) IsActive() bool {
	return s == StatusActive
}

// StatusFilter selects memberships for administrative listing
type StatusFilter string

const (
	FilterPending  StatusFilter = "pending"
	FilterActive   StatusFilter = "active"
	FilterExpired  StatusFilter = "expired"
	FilterInactive StatusFilter = "inactive"
)

// ParseStatusFilter parses a filter; "inactive" covers pending and expired
func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch f := StatusFilter(raw); f {
	case FilterPending, FilterActive, FilterExpired, FilterInactive:
		return f, nil
	}
	return "", ErrInvalidStatusFilter
}

// Statuses expands the filter into the concrete statuses it matches
func (f StatusFilter) Statuses() []MembershipStatus {
	switch f {
	case FilterPending:
		return []MembershipStatus{StatusPending}
	case FilterActive:
		return []MembershipStatus{StatusActive}
	case FilterExpired:
		return []MembershipStatus{StatusExpired}
	case FilterInactive:
		return []MembershipStatus{StatusPending, StatusExpired}
	}
	return nil
}

// VerifyReason explains why a QR verification was rejected
type VerifyReason string

const (
	ReasonNone             VerifyReason = ""
	ReasonInvalidFormat    VerifyReason = "invalid_format"
	ReasonMissingFields    VerifyReason = "missing_fields"
	ReasonTimestampExpired VerifyReason = "timestamp_expired"
	ReasonInvalidSignature VerifyReason = "invalid_signature"
	ReasonNotFound         VerifyReason = "not_found"
	ReasonExpired          VerifyReason = "expired"
	ReasonMismatch         VerifyReason = "mismatch"
)

// Message returns the human-readable text for a rejection reason
func (r VerifyReason) Message() string {
	switch r {
	case ReasonInvalidFormat:
		return "Invalid QR code format"
	case ReasonMissingFields:
		return "Missing required QR data fields"
	case ReasonTimestampExpired:
		return "QR code is no longer fresh, please generate a new one"
	case ReasonInvalidSignature:
		return "Invalid QR signature"
	case ReasonNotFound:
		return "Membership not found"
	case ReasonExpired:
		return "Membership expired"
	case ReasonMismatch:
		return "QR code mismatch"
	}
	return ""
}
