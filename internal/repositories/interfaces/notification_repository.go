package interfaces

import (
	"context"

	"carpool/internal/models"
	"carpool/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	GetByRecipient(ctx context.Context, recipientID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error)

	// MarkRead flips an unread notification to read. ErrStatusChanged is
	// returned when it was already read.
	MarkRead(ctx context.Context, id primitive.ObjectID) error

	CountUnread(ctx context.Context, recipientID primitive.ObjectID) (int64, error)
}
