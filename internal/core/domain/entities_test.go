package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from  MembershipStatus
		event MembershipEvent
		want  MembershipStatus
		ok    bool
	}{
		{StatusNone, EventIssue, StatusActive, true},
		{StatusNone, EventHold, StatusPending, true},
		{StatusPending, EventApprove, StatusActive, true},
		{StatusActive, EventExpire, StatusExpired, true},

		{StatusNone, EventApprove, StatusNone, false},
		{StatusPending, EventExpire, StatusPending, false},
		{StatusActive, EventApprove, StatusActive, false},
		{StatusExpired, EventIssue, StatusExpired, false},
		{StatusExpired, EventApprove, StatusExpired, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.event), func(t *testing.T) {
			got, err := Transition(tt.from, tt.event)
			assert.Equal(t, tt.want, got)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.ErrorIs(t, err, ErrBadRequest)
		})
	}
}

func TestStatusIsActive(t *testing.T) {
	assert.True(t, StatusActive.IsActive())
	assert.False(t, StatusPending.IsActive())
	assert.False(t, StatusExpired.IsActive())
}

func TestParseStatusFilter(t *testing.T) {
	f, err := ParseStatusFilter("inactive")
	require.NoError(t, err)
	assert.Equal(t, []MembershipStatus{StatusPending, StatusExpired}, f.Statuses())

	f, err = ParseStatusFilter("active")
	require.NoError(t, err)
	assert.Equal(t, []MembershipStatus{StatusActive}, f.Statuses())

	_, err = ParseStatusFilter("ACTIVE")
	assert.ErrorIs(t, err, ErrInvalidStatusFilter)

	_, err = ParseStatusFilter("cancelled")
	assert.True(t, errors.Is(err, ErrBadRequest))
}

func TestCategoryAndBillingCycle(t *testing.T) {
	assert.True(t, CategoryVIP.Valid())
	assert.False(t, MembershipCategory("GOLD").Valid())
	assert.True(t, BillingOneTime.Valid())
	assert.False(t, BillingCycle("WEEKLY").Valid())
}

func TestVerifyReasonMessage(t *testing.T) {
	for _, r := range []VerifyReason{
		ReasonInvalidFormat, ReasonMissingFields, ReasonTimestampExpired,
		ReasonInvalidSignature, ReasonNotFound, ReasonExpired, ReasonMismatch,
	} {
		assert.NotEmpty(t, r.Message(), r)
	}
	assert.Empty(t, ReasonNone.Message())
}

func TestInternal(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("load user", cause)
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "load user")
}
