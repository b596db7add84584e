package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"
	"carpool/internal/services"
	"carpool/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type notificationRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewNotificationRepository(db *mongo.Database, cache services.CacheService) interfaces.NotificationRepository {
	return &notificationRepository{
		collection: db.Collection("notifications"),
		cache:      cache,
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	if notification.Status == "" {
		notification.Status = models.NotificationStatusUnread
	}

	_, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	r.invalidateUnreadCountCache(ctx, notification.RecipientID)
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var notification models.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &notification, nil
}

func (r *notificationRepository) GetByRecipient(ctx context.Context, recipientID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	filter := bson.M{"recipient_id": recipientID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []*models.Notification
	for cursor.Next(ctx) {
		var notification models.Notification
		if err := cursor.Decode(&notification); err != nil {
			return nil, 0, fmt.Errorf("failed to decode notification: %w", err)
		}
		notifications = append(notifications, &notification)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("notification cursor failed: %w", err)
	}

	return notifications, total, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": models.NotificationStatusUnread},
		bson.M{"$set": bson.M{
			"status":  models.NotificationStatusRead,
			"read_at": now,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.ModifiedCount == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return interfaces.ErrStatusChanged
	}

	notification, err := r.GetByID(ctx, id)
	if err == nil {
		r.invalidateUnreadCountCache(ctx, notification.RecipientID)
	}
	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	cacheKey := unreadCountCacheKey(recipientID)
	if r.cache != nil {
		var count int64
		if err := r.cache.Get(ctx, cacheKey, &count); err == nil {
			return count, nil
		}
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"recipient_id": recipientID,
		"status":       models.NotificationStatusUnread,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	if r.cache != nil {
		_ = r.cache.Set(ctx, cacheKey, count, utils.UnreadCountCacheTTL)
	}
	return count, nil
}

func (r *notificationRepository) invalidateUnreadCountCache(ctx context.Context, recipientID primitive.ObjectID) {
	if r.cache != nil {
		_ = r.cache.Delete(ctx, unreadCountCacheKey(recipientID))
	}
}

func unreadCountCacheKey(recipientID primitive.ObjectID) string {
	return fmt.Sprintf("unread_count_%s", recipientID.Hex())
}
