package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"
	"carpool/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type rideRepository struct {
	collection *mongo.Collection
}

func NewRideRepository(db *mongo.Database) interfaces.RideRepository {
	return &rideRepository{
		collection: db.Collection("rides"),
	}
}

func (r *rideRepository) Create(ctx context.Context, ride *models.Ride) error {
	ride.ID = primitive.NewObjectID()
	if ride.CreatedAt.IsZero() {
		ride.CreatedAt = time.Now()
	}
	ride.UpdatedAt = ride.CreatedAt

	_, err := r.collection.InsertOne(ctx, ride)
	if err != nil {
		return fmt.Errorf("failed to create ride: %w", err)
	}
	return nil
}

func (r *rideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	var ride models.Ride
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ride)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}
	return &ride, nil
}

func (r *rideRepository) List(ctx context.Context, filter *models.RideFilter, params *utils.PaginationParams) ([]*models.Ride, int64, error) {
	query := bson.M{}
	if filter != nil {
		if !filter.After.IsZero() {
			query["departure_at"] = bson.M{"$gte": filter.After}
		}
		if filter.Destination != "" {
			query["destination"] = bson.M{
				"$regex":   regexp.QuoteMeta(filter.Destination),
				"$options": "i",
			}
		}
		if !filter.DriverID.IsZero() {
			query["driver_id"] = filter.DriverID
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count rides: %w", err)
	}

	// Catalog order is fixed: soonest departure first. Pagination still
	// comes from the caller.
	opts := options.Find().SetSort(bson.D{{Key: "departure_at", Value: 1}})
	if params != nil {
		opts.SetSkip(int64(params.GetSkip())).SetLimit(int64(params.GetLimit()))
	}
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find rides: %w", err)
	}
	defer cursor.Close(ctx)

	var rides []*models.Ride
	for cursor.Next(ctx) {
		var ride models.Ride
		if err := cursor.Decode(&ride); err != nil {
			return nil, 0, fmt.Errorf("failed to decode ride: %w", err)
		}
		rides = append(rides, &ride)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("ride cursor failed: %w", err)
	}

	return rides, total, nil
}

func (r *rideRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete ride: %w", err)
	}
	if result.DeletedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

// ReserveSeat is the catalog's one mutation used by request acceptance.
// The capacity and membership checks live in the update filter, so the
// whole reservation is a single linearizable document write; callers
// that lose a race see the classified error, never partial state.
func (r *rideRepository) ReserveSeat(ctx context.Context, rideID, riderID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{
			"_id":             rideID,
			"available_seats": bson.M{"$gt": 0},
			"passengers":      bson.M{"$ne": riderID},
		},
		bson.M{
			"$inc":  bson.M{"available_seats": -1},
			"$push": bson.M{"passengers": riderID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to reserve seat: %w", err)
	}
	if result.ModifiedCount > 0 {
		return nil
	}

	// The filter did not match; re-read only to classify the failure.
	ride, err := r.GetByID(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.HasPassenger(riderID) {
		return interfaces.ErrAlreadyPassenger
	}
	if ride.AvailableSeats == 0 {
		return interfaces.ErrNoSeats
	}
	return fmt.Errorf("failed to reserve seat on ride %s", rideID.Hex())
}
