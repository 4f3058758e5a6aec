package services

import (
	"context"
	"testing"

	"dinehub/internal/adapters/persistence/models"
	"dinehub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture() (*UserService, *memUserRepo, *fakeClock, *models.User, *models.User) {
	users := newMemUserRepo()
	clock := newFakeClock()
	user := users.add(&models.User{Username: "somchai", Email: "somchai@example.com", IsActive: true})
	admin := users.add(&models.User{Username: "admin", Email: "admin@example.com", Role: string(domain.RoleAdmin), IsActive: true})
	return NewUserService(users).WithClock(clock.Now), users, clock, user, admin
}

func TestSubmitVipRequest(t *testing.T) {
	svc, users, _, user, _ := newUserFixture()
	ctx := context.Background()

	_, err := svc.SubmitVipRequest(ctx, user.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrVipIDRequired)

	resp, err := svc.SubmitVipRequest(ctx, user.ID, " VIP-123 ")
	require.NoError(t, err)
	assert.True(t, resp.VipRequest)
	assert.False(t, resp.VipVerified)
	require.NotNil(t, resp.VipIDNumber)
	assert.Equal(t, "VIP-123", *resp.VipIDNumber)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.VipRequest)

	_, err = svc.SubmitVipRequest(ctx, user.ID, "VIP-456")
	assert.ErrorIs(t, err, domain.ErrVipRequestPending)

	_, err = svc.SubmitVipRequest(ctx, "missing", "VIP-1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestApproveVipIdentity(t *testing.T) {
	svc, _, clock, user, admin := newUserFixture()
	ctx := context.Background()

	_, err := svc.ApproveVipIdentity(ctx, user.ID, admin.ID)
	assert.ErrorIs(t, err, domain.ErrVipIDMissing)

	_, err = svc.SubmitVipRequest(ctx, user.ID, "VIP-123")
	require.NoError(t, err)

	_, err = svc.ApproveVipIdentity(ctx, user.ID, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotAdmin)

	_, err = svc.ApproveVipIdentity(ctx, user.ID, "missing-admin")
	assert.ErrorIs(t, err, domain.ErrAdminNotFound)

	resp, err := svc.ApproveVipIdentity(ctx, user.ID, admin.ID)
	require.NoError(t, err)
	assert.True(t, resp.VipVerified)
	assert.False(t, resp.VipRequest)
	require.NotNil(t, resp.VipVerifiedAt)
	assert.Equal(t, clock.Now(), *resp.VipVerifiedAt)

	_, err = svc.ApproveVipIdentity(ctx, user.ID, admin.ID)
	assert.ErrorIs(t, err, domain.ErrVipAlreadyVerified)

	_, err = svc.SubmitVipRequest(ctx, user.ID, "VIP-999")
	assert.ErrorIs(t, err, domain.ErrVipAlreadyVerified)
}

func TestListVipRequests(t *testing.T) {
	svc, users, _, user, admin := newUserFixture()
	ctx := context.Background()
	other := users.add(&models.User{Username: "malee", Email: "malee@example.com"})

	_, err := svc.SubmitVipRequest(ctx, user.ID, "VIP-1")
	require.NoError(t, err)
	_, err = svc.SubmitVipRequest(ctx, other.ID, "VIP-2")
	require.NoError(t, err)
	_, err = svc.ApproveVipIdentity(ctx, other.ID, admin.ID)
	require.NoError(t, err)

	requests, total, err := svc.ListVipRequests(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, requests, 1)
	assert.Equal(t, user.ID, requests[0].ID)
}

func TestGetProfile(t *testing.T) {
	svc, _, _, user, _ := newUserFixture()

	resp, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "somchai", resp.Username)

	_, err = svc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	svc, users, _, _, _ := newUserFixture()
	users.add(&models.User{Username: "malee", Email: "malee@example.com", IsActive: true})
	ctx := context.Background()

	all, total, err := svc.ListUsers(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	second, total, err := svc.ListUsers(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, second, 1)
}
