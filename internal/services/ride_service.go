package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"
	"carpool/internal/utils"
	"carpool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RideService owns the ride catalog: offers are created and withdrawn
// here, and the accept path of the request ledger reserves seats
// through the catalog's repository.
type RideService interface {
	CreateRide(ctx context.Context, driverID primitive.ObjectID, input *CreateRideInput) (*models.Ride, error)
	GetRide(ctx context.Context, id primitive.ObjectID) (*models.Ride, error)
	ListRides(ctx context.Context, filter *models.RideFilter, params *utils.PaginationParams) ([]*models.Ride, int64, error)
	DeleteRide(ctx context.Context, rideID, callerID primitive.ObjectID) error
}

type CreateRideInput struct {
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	DepartureAt   time.Time  `json:"departure_at"`
	ArrivalAt     *time.Time `json:"arrival_at"`
	Price         int64      `json:"price"`
	TotalSeats    int        `json:"total_seats"`
	PaymentMethod string     `json:"payment_method"`
}

type rideService struct {
	rides    interfaces.RideRepository
	requests interfaces.RideRequestRepository
	notifier NotificationService
	tx       interfaces.TxRunner
	log      *logger.Logger
}

func NewRideService(
	rides interfaces.RideRepository,
	requests interfaces.RideRequestRepository,
	notifier NotificationService,
	tx interfaces.TxRunner,
	log *logger.Logger,
) RideService {
	return &rideService{
		rides:    rides,
		requests: requests,
		notifier: notifier,
		tx:       tx,
		log:      log,
	}
}

func (s *rideService) CreateRide(ctx context.Context, driverID primitive.ObjectID, input *CreateRideInput) (*models.Ride, error) {
	if err := validateRideInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	ride := &models.Ride{
		DriverID:       driverID,
		Origin:         strings.TrimSpace(input.Origin),
		Destination:    strings.TrimSpace(input.Destination),
		DepartureAt:    input.DepartureAt,
		ArrivalAt:      input.ArrivalAt,
		Price:          input.Price,
		TotalSeats:     input.TotalSeats,
		AvailableSeats: input.TotalSeats,
		Passengers:     []primitive.ObjectID{},
		PaymentMethod:  strings.TrimSpace(input.PaymentMethod),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.rides.Create(ctx, ride); err != nil {
		return nil, fmt.Errorf("failed to create ride: %w", err)
	}

	s.log.WithRideID(ride.ID).WithUserID(driverID).Info("ride created")
	return ride, nil
}

func (s *rideService) GetRide(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	ride, err := s.rides.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return ride, nil
}

// ListRides returns a snapshot of upcoming rides. The filter's After
// bound is pinned to call time so past departures never surface.
func (s *rideService) ListRides(ctx context.Context, filter *models.RideFilter, params *utils.PaginationParams) ([]*models.Ride, int64, error) {
	if filter == nil {
		filter = &models.RideFilter{}
	}
	filter.After = time.Now()

	rides, total, err := s.rides.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rides: %w", err)
	}
	return rides, total, nil
}

// DeleteRide withdraws an offer. Deletion is refused while accepted
// requests exist; pending requests are removed with the ride and their
// riders are notified.
func (s *rideService) DeleteRide(ctx context.Context, rideID, callerID primitive.ObjectID) error {
	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		return translateRepoError(err)
	}
	if ride.DriverID != callerID {
		return ErrNotOwner
	}

	var events []*NotificationEvent
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		events = events[:0]

		// The guard shares the transaction's snapshot with the delete,
		// so an accept committing in between cannot orphan its request.
		accepted, err := s.requests.CountByRideAndStatus(ctx, rideID, models.RequestStatusAccepted)
		if err != nil {
			return fmt.Errorf("failed to count accepted requests: %w", err)
		}
		if accepted > 0 {
			return ErrHasAcceptedRequests
		}

		pending, err := s.requests.DeleteByRideAndStatus(ctx, rideID, models.RequestStatusPending)
		if err != nil {
			return fmt.Errorf("failed to remove pending requests: %w", err)
		}
		if err := s.rides.Delete(ctx, rideID); err != nil {
			return fmt.Errorf("failed to delete ride: %w", err)
		}

		message := fmt.Sprintf("The ride from %s to %s was cancelled by the driver", ride.Origin, ride.Destination)
		for _, request := range pending {
			event, err := s.notifier.Notify(ctx, request.RiderID, &ride.DriverID, models.NotificationTypeRideCancelled, message)
			if err != nil {
				return err
			}
			events = append(events, event)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notifier.PublishEvents(ctx, events...)

	s.log.WithRideID(rideID).WithUserID(callerID).Info("ride deleted")
	return nil
}

func validateRideInput(input *CreateRideInput) error {
	switch {
	case input == nil:
		return fmt.Errorf("%w: missing ride details", ErrValidation)
	case strings.TrimSpace(input.Origin) == "":
		return fmt.Errorf("%w: origin is required", ErrValidation)
	case len(strings.TrimSpace(input.Origin)) > utils.MaxRouteNameLen:
		return fmt.Errorf("%w: origin cannot exceed %d characters", ErrValidation, utils.MaxRouteNameLen)
	case strings.TrimSpace(input.Destination) == "":
		return fmt.Errorf("%w: destination is required", ErrValidation)
	case len(strings.TrimSpace(input.Destination)) > utils.MaxRouteNameLen:
		return fmt.Errorf("%w: destination cannot exceed %d characters", ErrValidation, utils.MaxRouteNameLen)
	case len(strings.TrimSpace(input.PaymentMethod)) > utils.MaxPaymentNameLen:
		return fmt.Errorf("%w: payment method cannot exceed %d characters", ErrValidation, utils.MaxPaymentNameLen)
	case input.TotalSeats <= 0:
		return fmt.Errorf("%w: total seats must be positive", ErrValidation)
	case input.TotalSeats > utils.MaxSeatsPerRide:
		return fmt.Errorf("%w: total seats cannot exceed %d", ErrValidation, utils.MaxSeatsPerRide)
	case input.Price < 0:
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	case input.DepartureAt.Before(time.Now()):
		return fmt.Errorf("%w: departure must be in the future", ErrValidation)
	case input.ArrivalAt != nil && input.ArrivalAt.Before(input.DepartureAt):
		return fmt.Errorf("%w: arrival cannot precede departure", ErrValidation)
	}
	return nil
}

// translateRepoError lifts repository sentinels into the service error
// vocabulary.
func translateRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, interfaces.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, interfaces.ErrNoSeats):
		return ErrNoSeats
	case errors.Is(err, interfaces.ErrAlreadyPassenger):
		return ErrAlreadyPassenger
	case errors.Is(err, interfaces.ErrDuplicateRequest):
		return ErrDuplicateRequest
	case errors.Is(err, interfaces.ErrStatusChanged):
		return ErrInvalidState
	default:
		return err
	}
}
