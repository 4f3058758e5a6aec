package services

import (
	"context"
	"time"
)

// Note: MembershipService implementation is in membership_service.go
// Note: ExpirationService implementation is in expiration_service.go

// Notifier persists a message for a user to read later
type Notifier interface {
	Notify(ctx context.Context, userID, message string) error
}

// QRRenderer turns a signed payload into a scannable image
type QRRenderer interface {
	Render(payload string) (string, error)
}

// PayloadSigner signs and verifies the canonical QR message
type PayloadSigner interface {
	Sign(userID, membershipID, timestamp string) string
	Verify(userID, membershipID, timestamp, signatureHex string) bool
}

// Clock returns the current time
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}
