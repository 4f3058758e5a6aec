package services

import (
	"context"
	"errors"

	"dinehub/internal/adapters/persistence/models"
	"dinehub/internal/adapters/persistence/repositories"
	"dinehub/internal/core/domain"

	"gorm.io/gorm"
)

// NotificationService persists in-app notifications. It is the Notifier used by the sweeper.
type NotificationService struct {
	repo repositories.NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Notify stores a message for userID
func (s *NotificationService) Notify(ctx context.Context, userID, message string) error {
	n := &models.Notification{
		UserID:  userID,
		Message: message,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return domain.Internal("create notification", err)
	}
	return nil
}

// NotificationList is a page of a user's notifications
type NotificationList struct {
	Notifications []*models.Notification `json:"notifications"`
	Total         int64                  `json:"total"`
	Unread        int64                  `json:"unread"`
}

// List lists a user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID string, offset, limit int) (*NotificationList, error) {
	notifications, total, err := s.repo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, domain.Internal("list notifications", err)
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, domain.Internal("count unread notifications", err)
	}
	return &NotificationList{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
	}, nil
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) (*models.Notification, error) {
	n, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return nil, domain.Internal("mark notification read", err)
	}
	n.IsRead = true
	return n, nil
}

// Delete deletes one of the user's notifications
func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotificationNotFound
		}
		return domain.Internal("delete notification", err)
	}
	return nil
}

func (s *NotificationService) owned(ctx context.Context, userID, id string) (*models.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, domain.Internal("load notification", err)
	}
	if n.UserID != userID {
		return nil, domain.ErrNotificationForbidden
	}
	return n, nil
}
