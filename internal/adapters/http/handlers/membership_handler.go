package handlers

import (
	"errors"

	"dinehub/internal/adapters/persistence/models"
	"dinehub/internal/core/services"
	"dinehub/internal/pkg/pagination"
	"dinehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MembershipHandler handles membership subscription and QR endpoints
type MembershipHandler struct {
	membershipService *services.MembershipService
	expirationService *services.ExpirationService
}

// NewMembershipHandler creates a new membership handler
func NewMembershipHandler(
	membershipService *services.MembershipService,
	expirationService *services.ExpirationService,
) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
		expirationService: expirationService,
	}
}

// SubscribeRequest represents subscribe request body
type SubscribeRequest struct {
	MembershipTypeID string `json:"membershipTypeId"`
}

// VerifyRequest represents verify request body
type VerifyRequest struct {
	QRCode string `json:"qrCode"`
}

// Subscribe subscribes the caller to a membership type
// @Summary Subscribe to a membership
// @Description Creates an active membership with a signed QR code, or a pending one for unverified VIP subscribers
// @Tags Memberships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubscribeRequest true "Membership type"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /memberships/subscribe [post]
func (h *MembershipHandler) Subscribe(c *fiber.Ctx) error {
	var req SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.MembershipTypeID == "" {
		return response.BadRequest(c, "membershipTypeId is required")
	}

	result, err := h.membershipService.Subscribe(c.Context(), GetUserID(c), req.MembershipTypeID)
	if err != nil {
		return handleError(c, err, "Failed to subscribe")
	}

	return response.Created(c, result.Message, result)
}

// MyMemberships lists the caller's memberships
// @Summary List my memberships
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /memberships/me [get]
func (h *MembershipHandler) MyMemberships(c *fiber.Ctx) error {
	memberships, err := h.membershipService.ListUserMemberships(c.Context(), GetUserID(c))
	if err != nil {
		return handleError(c, err, "Failed to list memberships")
	}

	return response.Success(c, "Memberships retrieved successfully", fiber.Map{
		"memberships": toMembershipResponses(memberships),
	})
}

// GetMembership gets one of the caller's memberships
// @Summary Get my membership
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Param id path string true "Membership ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /memberships/{id} [get]
func (h *MembershipHandler) GetMembership(c *fiber.Ctx) error {
	m, err := h.membershipService.GetUserMembership(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return handleError(c, err, "Failed to get membership")
	}

	return response.Success(c, "Membership retrieved successfully", m.ToResponse())
}

// TemporaryQR issues a fresh QR code for one of the caller's active memberships
// @Summary Generate temporary QR code
// @Description Re-signs the membership QR payload; older codes stop verifying
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Param id path string true "Membership ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /memberships/{id}/qr [get]
func (h *MembershipHandler) TemporaryQR(c *fiber.Ctx) error {
	qr, err := h.membershipService.GenerateTemporaryQrCode(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return handleError(c, err, "Failed to generate QR code")
	}

	return response.Success(c, "QR code generated successfully", qr)
}

// Verify verifies a scanned QR payload
// @Summary Verify QR code
// @Description Checks format, freshness, signature, membership state and exact payload match. Rejections return 200 with valid=false.
// @Tags Memberships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body VerifyRequest true "Scanned payload"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /memberships/verify [post]
func (h *MembershipHandler) Verify(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result := h.membershipService.VerifyQrCode(c.Context(), req.QRCode)
	return response.Success(c, result.Message, result)
}

// List lists memberships, optionally filtered by status
// @Summary List memberships
// @Description status is one of pending, active, expired, inactive (pending and expired)
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /memberships [get]
func (h *MembershipHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	var (
		memberships []*models.UserMembership
		total       int64
		err         error
	)
	if status := c.Query("status"); status != "" {
		memberships, total, err = h.membershipService.ListMembershipsByStatus(c.Context(), status, params.Offset, params.Limit)
	} else {
		memberships, total, err = h.membershipService.ListAllMemberships(c.Context(), params.Offset, params.Limit)
	}
	if err != nil {
		return handleError(c, err, "Failed to list memberships")
	}

	return response.Success(c, "Memberships retrieved successfully",
		pagination.NewResponse(toMembershipResponses(memberships), params, total))
}

// Approve activates a pending membership
// @Summary Approve pending membership
// @Description Activates a pending VIP membership of a verified user and issues its QR code
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Param id path string true "Membership ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /memberships/{id}/approve [put]
func (h *MembershipHandler) Approve(c *fiber.Ctx) error {
	result, err := h.membershipService.ApprovePendingMembership(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return handleError(c, err, "Failed to approve membership")
	}

	return response.Success(c, result.Message, result)
}

// Sweep runs the expiration sweep now
// @Summary Run expiration sweep
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /memberships/sweep [post]
func (h *MembershipHandler) Sweep(c *fiber.Ctx) error {
	result, err := h.expirationService.RunOnce(c.Context())
	if err != nil {
		if errors.Is(err, services.ErrSweepRunning) {
			return response.Conflict(c, "An expiration sweep is already running")
		}
		return handleError(c, err, "Failed to run expiration sweep")
	}

	return response.Success(c, "Expiration sweep completed", result)
}

func toMembershipResponses(memberships []*models.UserMembership) []*models.UserMembershipResponse {
	responses := make([]*models.UserMembershipResponse, len(memberships))
	for i, m := range memberships {
		responses[i] = m.ToResponse()
	}
	return responses
}
