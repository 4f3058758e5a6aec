package handlers

import (
	"dinehub/internal/core/services"
	"dinehub/internal/pkg/pagination"
	"dinehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles profile and VIP identity endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// VipRequest represents VIP request body
type VipRequest struct {
	VipIDNumber string `json:"vipIdNumber"`
}

// GetProfile gets current user's profile
// @Summary Get my profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	user, err := h.userService.GetProfile(c.Context(), GetUserID(c))
	if err != nil {
		return handleError(c, err, "Failed to get profile")
	}

	return response.Success(c, "Profile retrieved successfully", fiber.Map{
		"user": user,
	})
}

// SubmitVipRequest submits the caller's VIP identity for review
// @Summary Submit VIP request
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body VipRequest true "VIP identity number"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/vip-request [post]
func (h *UserHandler) SubmitVipRequest(c *fiber.Ctx) error {
	var req VipRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.SubmitVipRequest(c.Context(), GetUserID(c), req.VipIDNumber)
	if err != nil {
		return handleError(c, err, "Failed to submit VIP request")
	}

	return response.Success(c, "VIP request submitted successfully", fiber.Map{
		"user": user,
	})
}

// List lists all users
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.ListUsers(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return handleError(c, err, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully", pagination.NewResponse(users, params, total))
}

// ListVipRequests lists users waiting for VIP approval
// @Summary List VIP requests
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response
// @Router /users/vip-requests [get]
func (h *UserHandler) ListVipRequests(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.ListVipRequests(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return handleError(c, err, "Failed to list VIP requests")
	}

	return response.Success(c, "VIP requests retrieved successfully", pagination.NewResponse(users, params, total))
}

// ApproveVip approves a user's VIP identity
// @Summary Approve VIP identity
// @Description Verifies the user's submitted VIP id. Pending memberships are approved separately.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/vip-approve [put]
func (h *UserHandler) ApproveVip(c *fiber.Ctx) error {
	user, err := h.userService.ApproveVipIdentity(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return handleError(c, err, "Failed to approve VIP identity")
	}

	return response.Success(c, "VIP identity approved successfully", fiber.Map{
		"user": user,
	})
}
