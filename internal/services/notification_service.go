package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"
	"carpool/internal/utils"
	"carpool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventPublisher hands finished notification records to the external
// delivery pipeline. Publishing is best-effort; the record in the store
// is the source of truth.
type EventPublisher interface {
	Publish(ctx context.Context, event *NotificationEvent) error
}

type NotificationEvent struct {
	ID          string                  `json:"id"`
	RecipientID string                  `json:"recipient_id"`
	SenderID    string                  `json:"sender_id,omitempty"`
	Type        models.NotificationType `json:"type"`
	Message     string                  `json:"message"`
	CreatedAt   time.Time               `json:"created_at"`
}

// NotificationService appends notification records as a side effect of
// ledger and catalog transitions. Nothing but the read flag ever
// mutates; retention belongs to an external concern.
//
// Notify only writes the record and hands back the delivery event.
// Callers running inside a transaction flush the events with
// PublishEvents after the transaction commits, so an aborted unit never
// leaks an event to the queue and a retried one never publishes twice.
type NotificationService interface {
	Notify(ctx context.Context, recipientID primitive.ObjectID, senderID *primitive.ObjectID, nType models.NotificationType, message string) (*NotificationEvent, error)
	PublishEvents(ctx context.Context, events ...*NotificationEvent)
	List(ctx context.Context, recipientID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error)
	UnreadCount(ctx context.Context, recipientID primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, notificationID, callerID primitive.ObjectID) error
}

type notificationService struct {
	notifications interfaces.NotificationRepository
	publisher     EventPublisher
	log           *logger.Logger
}

func NewNotificationService(
	notifications interfaces.NotificationRepository,
	publisher EventPublisher,
	log *logger.Logger,
) NotificationService {
	return &notificationService{
		notifications: notifications,
		publisher:     publisher,
		log:           log,
	}
}

func (s *notificationService) Notify(ctx context.Context, recipientID primitive.ObjectID, senderID *primitive.ObjectID, nType models.NotificationType, message string) (*NotificationEvent, error) {
	notification := &models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        nType,
		Message:     message,
		Status:      models.NotificationStatusUnread,
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	event := &NotificationEvent{
		ID:          notification.ID.Hex(),
		RecipientID: recipientID.Hex(),
		Type:        nType,
		Message:     message,
		CreatedAt:   notification.CreatedAt,
	}
	if senderID != nil {
		event.SenderID = senderID.Hex()
	}
	return event, nil
}

// PublishEvents hands events to the queue, best effort. Failures are
// logged; the stored record stays the source of truth.
func (s *notificationService) PublishEvents(ctx context.Context, events ...*NotificationEvent) {
	if s.publisher == nil {
		return
	}
	for _, event := range events {
		if event == nil {
			continue
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.log.WithError(err).WithField("notification_id", event.ID).Warn("notification event publish failed")
		}
	}
}

func (s *notificationService) List(ctx context.Context, recipientID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	notifications, total, err := s.notifications.GetByRecipient(ctx, recipientID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	count, err := s.notifications.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, callerID primitive.ObjectID) error {
	notification, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return translateRepoError(err)
	}
	if notification.RecipientID != callerID {
		return ErrNotOwner
	}

	err = s.notifications.MarkRead(ctx, notificationID)
	if errors.Is(err, interfaces.ErrStatusChanged) {
		// Already read; marking again is a no-op.
		return nil
	}
	if err != nil {
		return translateRepoError(err)
	}
	return nil
}
