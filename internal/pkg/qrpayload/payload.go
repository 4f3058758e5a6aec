// Package qrpayload encodes and decodes the signed membership QR payload.
package qrpayload

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Version of the payload layout
const Version = "1.0"

// TimestampLayout is RFC3339 in UTC with millisecond precision
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Fields is the payload carried inside a membership QR code.
// Field order is fixed so encoding is byte-stable.
type Fields struct {
	Version          string `json:"version"`
	UserID           string `json:"userId"`
	MembershipID     string `json:"membershipId"`
	MembershipTypeID string `json:"membershipTypeId"`
	Timestamp        string `json:"timestamp"`
	Signature        string `json:"signature"`
}

// ErrorKind classifies a decode failure; callers only see "invalid QR code"
type ErrorKind string

const (
	MalformedPayload ErrorKind = "malformed_payload"
	MissingField     ErrorKind = "missing_field"
)

// DecodeError is returned by Decode
type DecodeError struct {
	Kind  ErrorKind
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Kind == MissingField {
		return fmt.Sprintf("invalid QR code: missing field %q", e.Field)
	}
	return fmt.Sprintf("invalid QR code: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Signer stamps payloads
type Signer interface {
	Sign(userID, membershipID, timestamp string) string
}

// FormatTimestamp renders t the way it is embedded and signed
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses an embedded timestamp
func ParseTimestamp(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, raw)
}

// Stamp builds a signed payload for a membership at issuedAt
func Stamp(s Signer, userID, membershipID, membershipTypeID string, issuedAt time.Time) Fields {
	ts := FormatTimestamp(issuedAt)
	return Fields{
		Version:          Version,
		UserID:           userID,
		MembershipID:     membershipID,
		MembershipTypeID: membershipTypeID,
		Timestamp:        ts,
		Signature:        s.Sign(userID, membershipID, ts),
	}
}

// Encode serializes the payload to its transport string
func Encode(f Fields) (string, error) {
	if f.Version == "" {
		f.Version = Version
	}
	b, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses a transport string and checks the required fields
func Decode(raw string) (Fields, error) {
	var f Fields
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return f, &DecodeError{Kind: MalformedPayload, Err: fmt.Errorf("empty payload")}
	}
	// null, arrays and scalars unmarshal without error but are not payloads
	if !strings.HasPrefix(trimmed, "{") {
		return f, &DecodeError{Kind: MalformedPayload, Err: fmt.Errorf("payload is not a JSON object")}
	}
	if err := json.Unmarshal([]byte(trimmed), &f); err != nil {
		return Fields{}, &DecodeError{Kind: MalformedPayload, Err: err}
	}

	required := []struct {
		name  string
		value string
	}{
		{"userId", f.UserID},
		{"membershipId", f.MembershipID},
		{"timestamp", f.Timestamp},
		{"signature", f.Signature},
	}
	for _, r := range required {
		if r.value == "" {
			return f, &DecodeError{Kind: MissingField, Field: r.name}
		}
	}
	return f, nil
}
