package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"dinehub/internal/adapters/persistence/models"
	"dinehub/internal/adapters/persistence/repositories"
	"dinehub/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	_ repositories.UserRepository           = (*memUserRepo)(nil)
	_ repositories.MembershipTypeRepository = (*memTypeRepo)(nil)
	_ repositories.UserMembershipRepository = (*memMembershipRepo)(nil)
	_ repositories.NotificationRepository   = (*memNotificationRepo)(nil)
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// ============================================================
// Users
// ============================================================

type memUserRepo struct {
	mu   sync.Mutex
	byID map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: make(map[string]*models.User)}
}

func (r *memUserRepo) add(u *models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = string(domain.RoleUser)
	}
	cp := *u
	r.byID[u.ID] = &cp
	return u
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	for _, u := range r.byID {
		if u.Username == user.Username || u.Email == user.Email {
			r.mu.Unlock()
			return gorm.ErrDuplicatedKey
		}
	}
	r.mu.Unlock()
	r.add(user)
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *memUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *memUserRepo) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	users, _ := r.filter(func(*models.User) bool { return true })
	return page(users, offset, limit), int64(len(users)), nil
}

func (r *memUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *memUserRepo) ListVipRequests(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	users, _ := r.filter(func(u *models.User) bool { return u.VipRequest && !u.VipVerified })
	return page(users, offset, limit), int64(len(users)), nil
}

func (r *memUserRepo) SubmitVipRequest(ctx context.Context, id, vipIDNumber string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok || u.VipVerified || u.VipRequest {
		return gorm.ErrRecordNotFound
	}
	u.VipIDNumber = &vipIDNumber
	u.VipRequest = true
	return nil
}

func (r *memUserRepo) ApproveVip(ctx context.Context, id, adminID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok || u.VipVerified || u.VipIDNumber == nil {
		return gorm.ErrRecordNotFound
	}
	u.VipVerified = true
	u.VipRequest = false
	u.VipVerifiedBy = &adminID
	u.VipVerifiedAt = &at
	return nil
}

func (r *memUserRepo) filter(match func(*models.User) bool) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.byID {
		if match(u) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// ============================================================
// Membership types
// ============================================================

type memTypeRepo struct {
	mu   sync.Mutex
	byID map[string]*models.MembershipType
}

func newMemTypeRepo() *memTypeRepo {
	return &memTypeRepo{byID: make(map[string]*models.MembershipType)}
}

func (r *memTypeRepo) add(t *models.MembershipType) *models.MembershipType {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	cp := *t
	r.byID[t.ID] = &cp
	return t
}

func (r *memTypeRepo) Create(ctx context.Context, t *models.MembershipType) error {
	if exists, _ := r.ExistsByName(ctx, t.Name, ""); exists {
		return gorm.ErrDuplicatedKey
	}
	r.add(t)
	return nil
}

func (r *memTypeRepo) GetByID(ctx context.Context, id string) (*models.MembershipType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTypeRepo) List(ctx context.Context, category string) ([]*models.MembershipType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.MembershipType
	for _, t := range r.byID {
		if category == "" || t.Category == category {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (r *memTypeRepo) Update(ctx context.Context, t *models.MembershipType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *t
	r.byID[t.ID] = &cp
	return nil
}

func (r *memTypeRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memTypeRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.byID {
		if t.Name == name && t.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// ============================================================
// User memberships
// ============================================================

// memMembershipRepo mirrors the SQL guards, including the one-active-per-user index
type memMembershipRepo struct {
	mu    sync.Mutex
	rows  map[string]*models.UserMembership
	types *memTypeRepo
	seq   int
}

func newMemMembershipRepo(types *memTypeRepo) *memMembershipRepo {
	return &memMembershipRepo{rows: make(map[string]*models.UserMembership), types: types}
}

func (r *memMembershipRepo) get(id string) *models.UserMembership {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok {
		return nil
	}
	cp := *m
	return &cp
}

// withType copies m and attaches its membership type; caller holds r.mu
func (r *memMembershipRepo) withType(m *models.UserMembership) *models.UserMembership {
	cp := *m
	if r.types != nil {
		if t, err := r.types.GetByID(context.Background(), m.MembershipTypeID); err == nil {
			cp.MembershipType = t
		}
	}
	return &cp
}

func (r *memMembershipRepo) expireLocked(userID string, now time.Time) int64 {
	var n int64
	for _, m := range r.rows {
		if (userID == "" || m.UserID == userID) && m.Status == statusActiveTest && m.EndDate.Before(now) {
			at := now
			m.Status = string(domain.StatusExpired)
			m.ActiveSlot = nil
			m.ExpiredAt = &at
			n++
		}
	}
	return n
}

func (r *memMembershipRepo) hasActiveLocked(userID, exceptID string) bool {
	for _, m := range r.rows {
		if m.UserID == userID && m.ID != exceptID && m.Status == statusActiveTest {
			return true
		}
	}
	return false
}

const statusActiveTest = string(domain.StatusActive)

func (r *memMembershipRepo) FindActiveFor(ctx context.Context, userID string, now time.Time) (*models.UserMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if m.UserID == userID && m.Status == statusActiveTest && !m.EndDate.Before(now) {
			return r.withType(m), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memMembershipRepo) CreateMembership(ctx context.Context, m *models.UserMembership, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.expireLocked(m.UserID, now)
	if m.Status == statusActiveTest {
		if r.hasActiveLocked(m.UserID, "") {
			return gorm.ErrDuplicatedKey
		}
		slot := m.UserID
		m.ActiveSlot = &slot
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	r.seq++
	m.CreatedAt = now.Add(time.Duration(r.seq) * time.Nanosecond)
	cp := *m
	cp.MembershipType = nil
	r.rows[m.ID] = &cp
	return nil
}

func (r *memMembershipRepo) Activate(ctx context.Context, m *models.UserMembership, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.expireLocked(m.UserID, now)
	row, ok := r.rows[m.ID]
	if !ok || row.Status != string(domain.StatusPending) {
		return gorm.ErrRecordNotFound
	}
	if r.hasActiveLocked(m.UserID, m.ID) {
		return gorm.ErrDuplicatedKey
	}

	slot := m.UserID
	row.Status = statusActiveTest
	row.ActiveSlot = &slot
	row.StartDate = m.StartDate
	row.EndDate = m.EndDate
	row.QRCode = m.QRCode
	m.Status = statusActiveTest
	m.ActiveSlot = &slot
	return nil
}

func (r *memMembershipRepo) MarkExpiredBatch(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.expireLocked("", now), nil
}

func (r *memMembershipRepo) FindRecentlyExpired(ctx context.Context, since time.Time) ([]*models.UserMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.UserMembership
	for _, m := range r.rows {
		if m.Status == string(domain.StatusExpired) && m.ExpiredAt != nil &&
			!m.ExpiredAt.Before(since) && m.ExpiryNotifiedAt == nil {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memMembershipRepo) MarkExpiryNotified(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok || m.ExpiryNotifiedAt != nil {
		return gorm.ErrRecordNotFound
	}
	m.ExpiryNotifiedAt = &at
	return nil
}

func (r *memMembershipRepo) findLocked(match func(*models.UserMembership) bool) (*models.UserMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if match(m) {
			return r.withType(m), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memMembershipRepo) FindByID(ctx context.Context, id string) (*models.UserMembership, error) {
	return r.findLocked(func(m *models.UserMembership) bool { return m.ID == id })
}

func (r *memMembershipRepo) FindByIDForUser(ctx context.Context, id, userID string) (*models.UserMembership, error) {
	return r.findLocked(func(m *models.UserMembership) bool { return m.ID == id && m.UserID == userID })
}

func (r *memMembershipRepo) FindActiveByIDForUser(ctx context.Context, id, userID string) (*models.UserMembership, error) {
	return r.findLocked(func(m *models.UserMembership) bool {
		return m.ID == id && m.UserID == userID && m.Status == statusActiveTest
	})
}

func (r *memMembershipRepo) UpdateQRCode(ctx context.Context, id, userID, qrCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok || m.UserID != userID || m.Status != statusActiveTest {
		return gorm.ErrRecordNotFound
	}
	m.QRCode = &qrCode
	return nil
}

func (r *memMembershipRepo) list(match func(*models.UserMembership) bool) []*models.UserMembership {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.UserMembership
	for _, m := range r.rows {
		if match(m) {
			out = append(out, r.withType(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memMembershipRepo) ListByStatus(ctx context.Context, statuses []string, offset, limit int) ([]*models.UserMembership, int64, error) {
	all := r.list(func(m *models.UserMembership) bool {
		for _, s := range statuses {
			if m.Status == s {
				return true
			}
		}
		return false
	})
	return page(all, offset, limit), int64(len(all)), nil
}

func (r *memMembershipRepo) ListByUser(ctx context.Context, userID string) ([]*models.UserMembership, error) {
	return r.list(func(m *models.UserMembership) bool { return m.UserID == userID }), nil
}

func (r *memMembershipRepo) ListAll(ctx context.Context, offset, limit int) ([]*models.UserMembership, int64, error) {
	all := r.list(func(*models.UserMembership) bool { return true })
	return page(all, offset, limit), int64(len(all)), nil
}

func (r *memMembershipRepo) CountByType(ctx context.Context, membershipTypeID string) (int64, error) {
	return int64(len(r.list(func(m *models.UserMembership) bool { return m.MembershipTypeID == membershipTypeID }))), nil
}

// ============================================================
// Notifications
// ============================================================

type memNotificationRepo struct {
	mu   sync.Mutex
	rows []*models.Notification
	err  error
}

func (r *memNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now()
	cp := *n
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *memNotificationRepo) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.rows {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memNotificationRepo) forUser(userID string) []*models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserID == userID {
			cp := *r.rows[i]
			out = append(out, &cp)
		}
	}
	return out
}

func (r *memNotificationRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*models.Notification, int64, error) {
	all := r.forUser(userID)
	return page(all, offset, limit), int64(len(all)), nil
}

func (r *memNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	for _, row := range r.forUser(userID) {
		if !row.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *memNotificationRepo) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.rows {
		if n.ID == id {
			n.IsRead = true
		}
	}
	return nil
}

func (r *memNotificationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.rows {
		if n.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
