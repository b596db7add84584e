package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type rideRequestRepository struct {
	collection *mongo.Collection
}

func NewRideRequestRepository(db *mongo.Database) interfaces.RideRequestRepository {
	return &rideRequestRepository{
		collection: db.Collection("ride_requests"),
	}
}

func (r *rideRequestRepository) Create(ctx context.Context, request *models.RideRequest) error {
	request.ID = primitive.NewObjectID()
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	if request.Status == "" {
		request.Status = models.RequestStatusPending
	}

	_, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		// The partial unique index on (rider_id, ride_id) over active
		// statuses turns a concurrent duplicate submit into a key error.
		if mongo.IsDuplicateKeyError(err) {
			return interfaces.ErrDuplicateRequest
		}
		return fmt.Errorf("failed to create ride request: %w", err)
	}
	return nil
}

func (r *rideRequestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.RideRequest, error) {
	var request models.RideRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ride request: %w", err)
	}
	return &request, nil
}

func (r *rideRequestRepository) UpdateStatusIfPending(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) error {
	now := time.Now()
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": models.RequestStatusPending},
		bson.M{"$set": bson.M{
			"status":       status,
			"responded_at": now,
			"updated_at":   now,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	if result.ModifiedCount > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return interfaces.ErrStatusChanged
}

func (r *rideRequestRepository) DeletePending(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "status": models.RequestStatusPending})
	if err != nil {
		return fmt.Errorf("failed to delete ride request: %w", err)
	}
	if result.DeletedCount > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return interfaces.ErrStatusChanged
}

func (r *rideRequestRepository) GetActiveByRider(ctx context.Context, riderID primitive.ObjectID) ([]*models.RideRequest, error) {
	filter := bson.M{
		"rider_id": riderID,
		"status": bson.M{"$in": []models.RequestStatus{
			models.RequestStatusPending,
			models.RequestStatusAccepted,
		}},
	}
	return r.find(ctx, filter)
}

func (r *rideRequestRepository) GetPendingByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.RideRequest, error) {
	filter := bson.M{
		"driver_id": driverID,
		"status":    models.RequestStatusPending,
	}
	return r.find(ctx, filter)
}

func (r *rideRequestRepository) GetByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideRequest, error) {
	return r.find(ctx, bson.M{"ride_id": rideID})
}

func (r *rideRequestRepository) CountByRideAndStatus(ctx context.Context, rideID primitive.ObjectID, status models.RequestStatus) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"ride_id": rideID, "status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count ride requests: %w", err)
	}
	return count, nil
}

func (r *rideRequestRepository) DeleteByRideAndStatus(ctx context.Context, rideID primitive.ObjectID, status models.RequestStatus) ([]*models.RideRequest, error) {
	filter := bson.M{"ride_id": rideID, "status": status}

	removed, err := r.find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(removed) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, 0, len(removed))
	for _, request := range removed {
		ids = append(ids, request.ID)
	}
	if _, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return nil, fmt.Errorf("failed to delete ride requests: %w", err)
	}
	return removed, nil
}

func (r *rideRequestRepository) find(ctx context.Context, filter bson.M) ([]*models.RideRequest, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find ride requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*models.RideRequest
	for cursor.Next(ctx) {
		var request models.RideRequest
		if err := cursor.Decode(&request); err != nil {
			return nil, fmt.Errorf("failed to decode ride request: %w", err)
		}
		requests = append(requests, &request)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("ride request cursor failed: %w", err)
	}
	return requests, nil
}
