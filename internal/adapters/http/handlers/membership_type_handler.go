package handlers

import (
	"dinehub/internal/core/services"
	"dinehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MembershipTypeHandler handles membership catalog endpoints
type MembershipTypeHandler struct {
	typeService *services.MembershipTypeService
}

// NewMembershipTypeHandler creates a new membership type handler
func NewMembershipTypeHandler(typeService *services.MembershipTypeService) *MembershipTypeHandler {
	return &MembershipTypeHandler{typeService: typeService}
}

// ============================================================
// Read
// ============================================================

// List lists membership types
// @Summary List membership types
// @Tags Membership Types
// @Produce json
// @Param type query string false "VIP or STANDARD"
// @Success 200 {object} response.Response
// @Router /membership-types [get]
func (h *MembershipTypeHandler) List(c *fiber.Ctx) error {
	types, err := h.typeService.List(c.Context(), c.Query("type"))
	if err != nil {
		return handleError(c, err, "Failed to list membership types")
	}

	return response.Success(c, "Membership types retrieved successfully", fiber.Map{
		"membership_types": types,
	})
}

// Get gets a membership type
// @Summary Get membership type
// @Tags Membership Types
// @Produce json
// @Param id path string true "Membership type ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /membership-types/{id} [get]
func (h *MembershipTypeHandler) Get(c *fiber.Ctx) error {
	mt, err := h.typeService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err, "Failed to get membership type")
	}

	return response.Success(c, "Membership type retrieved successfully", mt)
}

// ============================================================
// Admin
// ============================================================

// Create creates a membership type
// @Summary Create membership type
// @Tags Membership Types
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.MembershipTypeInput true "Membership type"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /membership-types [post]
func (h *MembershipTypeHandler) Create(c *fiber.Ctx) error {
	var input services.MembershipTypeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	mt, err := h.typeService.Create(c.Context(), &input)
	if err != nil {
		return handleError(c, err, "Failed to create membership type")
	}

	return response.Created(c, "Membership type created successfully", mt)
}

// Update updates a membership type
// @Summary Update membership type
// @Tags Membership Types
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Membership type ID"
// @Param body body services.MembershipTypeInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /membership-types/{id} [put]
func (h *MembershipTypeHandler) Update(c *fiber.Ctx) error {
	var input services.MembershipTypeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	mt, err := h.typeService.Update(c.Context(), c.Params("id"), &input)
	if err != nil {
		return handleError(c, err, "Failed to update membership type")
	}

	return response.Success(c, "Membership type updated successfully", mt)
}

// Delete deletes a membership type
// @Summary Delete membership type
// @Tags Membership Types
// @Produce json
// @Security BearerAuth
// @Param id path string true "Membership type ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /membership-types/{id} [delete]
func (h *MembershipTypeHandler) Delete(c *fiber.Ctx) error {
	if err := h.typeService.Delete(c.Context(), c.Params("id")); err != nil {
		return handleError(c, err, "Failed to delete membership type")
	}

	return response.Success(c, "Membership type deleted successfully", nil)
}
