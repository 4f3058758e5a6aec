package handlers

import (
	"dinehub/internal/core/services"
	"dinehub/internal/pkg/pagination"
	"dinehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles the caller's notifications
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List lists the caller's notifications
// @Summary List my notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response
// @Router /notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	list, err := h.notificationService.List(c.Context(), GetUserID(c), params.Offset, params.Limit)
	if err != nil {
		return handleError(c, err, "Failed to list notifications")
	}

	return response.Success(c, "Notifications retrieved successfully", fiber.Map{
		"notifications": list.Notifications,
		"unread":        list.Unread,
		"meta":          pagination.GetMeta(params, list.Total),
	})
}

// MarkRead marks a notification as read
// @Summary Mark notification read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	n, err := h.notificationService.MarkRead(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return handleError(c, err, "Failed to update notification")
	}

	return response.Success(c, "Notification marked as read", n)
}

// Delete deletes a notification
// @Summary Delete notification
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	if err := h.notificationService.Delete(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return handleError(c, err, "Failed to delete notification")
	}

	return response.Success(c, "Notification deleted successfully", nil)
}
