package qrpayload

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSigner struct{}

func (stubSigner) Sign(userID, membershipID, timestamp string) string {
	return "sig:" + userID + ":" + membershipID + ":" + timestamp
}

func TestStampAndEncode(t *testing.T) {
	issuedAt := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)

	f := Stamp(stubSigner{}, "u1", "m1", "t1", issuedAt)
	assert.Equal(t, Version, f.Version)
	assert.Equal(t, "2024-03-01T12:00:00.123Z", f.Timestamp)
	assert.Equal(t, "sig:u1:m1:2024-03-01T12:00:00.123Z", f.Signature)

	raw, err := Encode(f)
	require.NoError(t, err)
	assert.Equal(t,
		`{"version":"1.0","userId":"u1","membershipId":"m1","membershipTypeId":"t1","timestamp":"2024-03-01T12:00:00.123Z","signature":"sig:u1:m1:2024-03-01T12:00:00.123Z"}`,
		raw)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, f, decoded)
}

func TestFormatTimestamp_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)
	ts := time.Date(2024, 3, 1, 19, 0, 0, 0, loc)
	assert.Equal(t, "2024-03-01T12:00:00.000Z", FormatTimestamp(ts))

	parsed, err := ParseTimestamp(FormatTimestamp(ts))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts))
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		kind  ErrorKind
		field string
	}{
		{"empty", "", MalformedPayload, ""},
		{"blank", "   ", MalformedPayload, ""},
		{"not json", "hello", MalformedPayload, ""},
		{"wrong shape", `[1,2,3]`, MalformedPayload, ""},
		{"null", `null`, MalformedPayload, ""},
		{"padded null", "  null\n", MalformedPayload, ""},
		{"json string", `"userId"`, MalformedPayload, ""},
		{"json number", `42`, MalformedPayload, ""},
		{"missing user", `{"membershipId":"m","timestamp":"t","signature":"s"}`, MissingField, "userId"},
		{"missing membership", `{"userId":"u","timestamp":"t","signature":"s"}`, MissingField, "membershipId"},
		{"missing timestamp", `{"userId":"u","membershipId":"m","signature":"s"}`, MissingField, "timestamp"},
		{"missing signature", `{"userId":"u","membershipId":"m","timestamp":"t"}`, MissingField, "signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			require.Error(t, err)

			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, tt.kind, decodeErr.Kind)
			assert.Equal(t, tt.field, decodeErr.Field)
		})
	}
}

func TestDecode_MembershipTypeIsOptional(t *testing.T) {
	f, err := Decode(`{"userId":"u","membershipId":"m","timestamp":"t","signature":"s"}`)
	require.NoError(t, err)
	assert.Empty(t, f.MembershipTypeID)
}
