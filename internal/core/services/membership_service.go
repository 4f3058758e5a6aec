package services

import (
	"context"
	"errors"
	"log"
	"time"

	"dinehub/internal/adapters/persistence/models"
	"dinehub/internal/adapters/persistence/repositories"
	"dinehub/internal/config"
	"dinehub/internal/core/domain"
	"dinehub/internal/pkg/metrics"
	"dinehub/internal/pkg/qrpayload"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipService handles subscription, QR issuing and QR verification
type MembershipService struct {
	membershipRepo repositories.UserMembershipRepository
	typeRepo       repositories.MembershipTypeRepository
	userRepo       repositories.UserRepository
	signer         PayloadSigner
	renderer       QRRenderer
	metrics        *metrics.Metrics
	cfg            config.QRConfig
	now            Clock
}

// NewMembershipService creates a new membership service
func NewMembershipService(
	membershipRepo repositories.UserMembershipRepository,
	typeRepo repositories.MembershipTypeRepository,
	userRepo repositories.UserRepository,
	signer PayloadSigner,
	renderer QRRenderer,
	m *metrics.Metrics,
	cfg config.QRConfig,
) *MembershipService {
	if cfg.FreshnessWindow <= 0 {
		cfg.FreshnessWindow = 10 * time.Minute
	}
	if cfg.FutureSkew < 0 {
		cfg.FutureSkew = 0
	}
	return &MembershipService{
		membershipRepo: membershipRepo,
		typeRepo:       typeRepo,
		userRepo:       userRepo,
		signer:         signer,
		renderer:       renderer,
		metrics:        m,
		cfg:            cfg,
		now:            systemClock,
	}
}

// WithClock replaces the time source
func (s *MembershipService) WithClock(now Clock) *MembershipService {
	s.now = now
	return s
}

// SubscribeResult is returned when a membership is created or activated
type SubscribeResult struct {
	Membership *models.UserMembershipResponse `json:"membership"`
	QRCode     *string                        `json:"qrCode"`
	QRImage    string                         `json:"qrImage,omitempty"`
	Message    string                         `json:"message"`
}

// TemporaryQR is a freshly signed payload for display at the point of use
type TemporaryQR struct {
	MembershipID string    `json:"membershipId"`
	QRCode       string    `json:"qrCode"`
	QRImage      string    `json:"qrImage,omitempty"`
	IssuedAt     time.Time `json:"issuedAt"`
	ValidUntil   time.Time `json:"validUntil"`
}

// VerifyResult is the outcome of a QR verification. Rejections are values, not errors.
type VerifyResult struct {
	Valid      bool                           `json:"valid"`
	Reason     domain.VerifyReason            `json:"reason,omitempty"`
	Message    string                         `json:"message"`
	Membership *models.UserMembershipResponse `json:"membership,omitempty"`
}

// Subscribe creates a membership of the given type for the user.
// VIP types for unverified users are held as pending with no QR code.
func (s *MembershipService) Subscribe(ctx context.Context, userID, membershipTypeID string) (*SubscribeResult, error) {
	// 1. Load membership type and user
	mt, err := s.typeRepo.GetByID(ctx, membershipTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMembershipTypeNotFound
		}
		return nil, domain.Internal("load membership type", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal("load user", err)
	}

	// 2. One live membership per user
	now := s.now()
	if err := s.ensureNoActive(ctx, userID, now); err != nil {
		return nil, err
	}

	// 3. Decide the initial state
	event := domain.EventIssue
	if domain.MembershipCategory(mt.Category) == domain.CategoryVIP && !user.VipVerified {
		event = domain.EventHold
	}
	status, err := domain.Transition(domain.StatusNone, event)
	if err != nil {
		return nil, err
	}

	m := &models.UserMembership{
		ID:               uuid.NewString(),
		UserID:           userID,
		MembershipTypeID: mt.ID,
		StartDate:        now,
		EndDate:          now.AddDate(0, 0, mt.DurationInDays),
		Status:           string(status),
		VipIDNumber:      user.VipIDNumber,
	}

	// 4. Attach the signed payload before the insert so record and code land together
	if status.IsActive() {
		payload, err := s.mint(m.UserID, m.ID, m.MembershipTypeID, now)
		if err != nil {
			return nil, err
		}
		m.QRCode = &payload
	}

	if err := s.membershipRepo.CreateMembership(ctx, m, now); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrActiveMembershipExists
		}
		return nil, domain.Internal("create membership", err)
	}
	m.MembershipType = mt
	s.metrics.ObserveSubscription(m.Status)

	result := &SubscribeResult{
		Membership: m.ToResponse(),
		QRCode:     m.QRCode,
	}
	if status == domain.StatusPending {
		result.Message = "Membership is pending until your VIP identity is verified"
		log.Printf("⏳ Membership %s pending VIP verification for user %s", m.ID, userID)
		return result, nil
	}

	result.QRImage = s.render(*m.QRCode)
	result.Message = "Membership subscribed successfully"
	log.Printf("✅ Membership %s subscribed by user %s (type: %s)", m.ID, userID, mt.Name)
	return result, nil
}

// ApprovePendingMembership activates a pending VIP membership once the owner is verified.
// The term restarts at approval time and a new QR code is issued.
func (s *MembershipService) ApprovePendingMembership(ctx context.Context, membershipID, adminID string) (*SubscribeResult, error) {
	if err := s.ensureAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	m, err := s.membershipRepo.FindByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, domain.Internal("load membership", err)
	}

	next, err := domain.Transition(domain.MembershipStatus(m.Status), domain.EventApprove)
	if err != nil {
		return nil, domain.ErrMembershipNotPending
	}

	mt, err := s.typeRepo.GetByID(ctx, m.MembershipTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMembershipTypeNotFound
		}
		return nil, domain.Internal("load membership type", err)
	}

	user, err := s.userRepo.GetByID(ctx, m.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal("load user", err)
	}
	if domain.MembershipCategory(mt.Category) == domain.CategoryVIP && !user.VipVerified {
		return nil, domain.ErrVipNotVerified
	}

	now := s.now()
	if err := s.ensureNoActive(ctx, m.UserID, now); err != nil {
		return nil, err
	}

	payload, err := s.mint(m.UserID, m.ID, m.MembershipTypeID, now)
	if err != nil {
		return nil, err
	}
	m.StartDate = now
	m.EndDate = now.AddDate(0, 0, mt.DurationInDays)
	m.QRCode = &payload
	m.VipIDNumber = user.VipIDNumber

	if err := s.membershipRepo.Activate(ctx, m, now); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, domain.ErrMembershipNotPending
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, domain.ErrActiveMembershipExists
		}
		return nil, domain.Internal("activate membership", err)
	}
	m.Status = string(next)
	m.MembershipType = mt

	log.Printf("✅ Membership %s approved by admin %s", m.ID, adminID)
	return &SubscribeResult{
		Membership: m.ToResponse(),
		QRCode:     m.QRCode,
		QRImage:    s.render(payload),
		Message:    "Membership approved successfully",
	}, nil
}

// GenerateTemporaryQrCode re-signs the QR payload of an active membership.
// The new payload replaces the stored one, so older codes stop verifying.
func (s *MembershipService) GenerateTemporaryQrCode(ctx context.Context, userID, membershipID string) (*TemporaryQR, error) {
	m, err := s.membershipRepo.FindActiveByIDForUser(ctx, membershipID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, domain.Internal("load membership", err)
	}

	now := s.now()
	if now.After(m.EndDate) {
		return nil, domain.ErrMembershipNotFound
	}

	payload, err := s.mint(m.UserID, m.ID, m.MembershipTypeID, now)
	if err != nil {
		return nil, err
	}

	if err := s.membershipRepo.UpdateQRCode(ctx, m.ID, userID, payload); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, domain.Internal("store reissued QR code", err)
	}

	return &TemporaryQR{
		MembershipID: m.ID,
		QRCode:       payload,
		QRImage:      s.render(payload),
		IssuedAt:     now,
		ValidUntil:   now.Add(s.cfg.FreshnessWindow),
	}, nil
}

// VerifyQrCode checks a scanned payload. It never returns an error:
// every rejection is reported through the result.
func (s *MembershipService) VerifyQrCode(ctx context.Context, raw string) *VerifyResult {
	now := s.now()

	// 1-2. Decode and required fields
	fields, err := qrpayload.Decode(raw)
	if err != nil {
		log.Printf("⚠️ QR rejected: %v", err)
		var decodeErr *qrpayload.DecodeError
		if errors.As(err, &decodeErr) && decodeErr.Kind == qrpayload.MissingField {
			return s.reject(domain.ReasonMissingFields)
		}
		return s.reject(domain.ReasonInvalidFormat)
	}

	// 3. Freshness
	issuedAt, err := qrpayload.ParseTimestamp(fields.Timestamp)
	if err != nil {
		return s.reject(domain.ReasonInvalidFormat)
	}
	age := now.Sub(issuedAt)
	if age > s.cfg.FreshnessWindow || age < -s.cfg.FutureSkew {
		return s.reject(domain.ReasonTimestampExpired)
	}

	// 4. Signature
	if !s.signer.Verify(fields.UserID, fields.MembershipID, fields.Timestamp, fields.Signature) {
		return s.reject(domain.ReasonInvalidSignature)
	}

	// 5. Active membership owned by the payload's user
	m, err := s.membershipRepo.FindActiveByIDForUser(ctx, fields.MembershipID, fields.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("❌ QR verification lookup failed for membership %s: %v", fields.MembershipID, err)
		}
		return s.reject(domain.ReasonNotFound)
	}

	// 6. Expiration
	if now.After(m.EndDate) {
		return s.reject(domain.ReasonExpired)
	}

	// 7. Only the last issued payload is accepted
	if m.QRCode == nil || *m.QRCode != raw {
		return s.reject(domain.ReasonMismatch)
	}

	s.metrics.ObserveVerification("")
	return &VerifyResult{
		Valid:      true,
		Message:    "QR code is valid",
		Membership: m.ToResponse(),
	}
}

// ListMembershipsByStatus lists memberships matching pending, active, expired or inactive
func (s *MembershipService) ListMembershipsByStatus(ctx context.Context, status string, offset, limit int) ([]*models.UserMembership, int64, error) {
	filter, err := domain.ParseStatusFilter(status)
	if err != nil {
		return nil, 0, err
	}

	statuses := make([]string, 0, 2)
	for _, st := range filter.Statuses() {
		statuses = append(statuses, string(st))
	}

	memberships, total, err := s.membershipRepo.ListByStatus(ctx, statuses, offset, limit)
	if err != nil {
		return nil, 0, domain.Internal("list memberships by status", err)
	}
	return memberships, total, nil
}

// ListUserMemberships lists the caller's memberships with their types
func (s *MembershipService) ListUserMemberships(ctx context.Context, userID string) ([]*models.UserMembership, error) {
	memberships, err := s.membershipRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.Internal("list user memberships", err)
	}
	return memberships, nil
}

// ListAllMemberships lists every membership
func (s *MembershipService) ListAllMemberships(ctx context.Context, offset, limit int) ([]*models.UserMembership, int64, error) {
	memberships, total, err := s.membershipRepo.ListAll(ctx, offset, limit)
	if err != nil {
		return nil, 0, domain.Internal("list memberships", err)
	}
	return memberships, total, nil
}

// GetUserMembership gets one of the caller's memberships
func (s *MembershipService) GetUserMembership(ctx context.Context, userID, membershipID string) (*models.UserMembership, error) {
	m, err := s.membershipRepo.FindByIDForUser(ctx, membershipID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, domain.Internal("load membership", err)
	}
	return m, nil
}

func (s *MembershipService) ensureNoActive(ctx context.Context, userID string, now time.Time) error {
	_, err := s.membershipRepo.FindActiveFor(ctx, userID, now)
	if err == nil {
		return domain.ErrActiveMembershipExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Internal("check active membership", err)
	}
	return nil
}

func (s *MembershipService) ensureAdmin(ctx context.Context, adminID string) error {
	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAdminNotFound
		}
		return domain.Internal("load admin", err)
	}
	if !admin.IsAdmin() {
		return domain.ErrNotAdmin
	}
	return nil
}

// mint stamps and encodes a signed payload
func (s *MembershipService) mint(userID, membershipID, membershipTypeID string, at time.Time) (string, error) {
	payload, err := qrpayload.Encode(qrpayload.Stamp(s.signer, userID, membershipID, membershipTypeID, at))
	if err != nil {
		return "", domain.Internal("encode QR payload", err)
	}
	return payload, nil
}

// render draws the QR image; the payload is the entitlement, so a failure only drops the image
func (s *MembershipService) render(payload string) string {
	if s.renderer == nil {
		return ""
	}
	img, err := s.renderer.Render(payload)
	if err != nil {
		log.Printf("⚠️ Failed to render QR image: %v", err)
		return ""
	}
	return img
}

func (s *MembershipService) reject(reason domain.VerifyReason) *VerifyResult {
	s.metrics.ObserveVerification(string(reason))
	return &VerifyResult{
		Valid:   false,
		Reason:  reason,
		Message: reason.Message(),
	}
}
