package services

import (
	"context"
	"fmt"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"
	"carpool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestService is the request ledger. It enforces the
// pending -> accepted/rejected state machine and keeps seat accounting
// consistent with it: acceptance reserves a seat, flips the status and
// notifies the rider as one transaction, so a lost capacity race leaves
// the request pending and the ride untouched.
type RequestService interface {
	SubmitRequest(ctx context.Context, riderID, rideID primitive.ObjectID) (*models.RideRequest, error)
	AcceptRequest(ctx context.Context, requestID, callerID primitive.ObjectID) error
	RejectRequest(ctx context.Context, requestID, callerID primitive.ObjectID) error
	CancelRequest(ctx context.Context, requestID, callerID primitive.ObjectID) error
	ActiveRequestsForRider(ctx context.Context, riderID primitive.ObjectID) (map[primitive.ObjectID]*models.RideRequest, error)
	PendingRequestsForDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.PendingRequest, error)
}

type requestService struct {
	rides    interfaces.RideRepository
	requests interfaces.RideRequestRepository
	notifier NotificationService
	profiles ProfileService
	tx       interfaces.TxRunner
	log      *logger.Logger
}

func NewRequestService(
	rides interfaces.RideRepository,
	requests interfaces.RideRequestRepository,
	notifier NotificationService,
	profiles ProfileService,
	tx interfaces.TxRunner,
	log *logger.Logger,
) RequestService {
	return &requestService{
		rides:    rides,
		requests: requests,
		notifier: notifier,
		profiles: profiles,
		tx:       tx,
		log:      log,
	}
}

func (s *requestService) SubmitRequest(ctx context.Context, riderID, rideID primitive.ObjectID) (*models.RideRequest, error) {
	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		return nil, translateRepoError(err)
	}

	if ride.DriverID == riderID {
		return nil, ErrOwnRide
	}
	if ride.HasPassenger(riderID) {
		return nil, ErrAlreadyPassenger
	}
	if ride.AvailableSeats == 0 {
		return nil, ErrNoSeats
	}

	request := &models.RideRequest{
		RiderID:  riderID,
		RideID:   rideID,
		DriverID: ride.DriverID,
		Status:   models.RequestStatusPending,
	}

	var event *NotificationEvent
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// The partial unique index on (rider_id, ride_id) makes this
		// insert the duplicate check; no prior read is trusted.
		if err := s.requests.Create(ctx, request); err != nil {
			return translateRepoError(err)
		}
		event, err = s.notifier.Notify(ctx, ride.DriverID, &riderID, models.NotificationTypeRideRequest,
			fmt.Sprintf("%s wants to ride with you", s.displayName(ctx, riderID)))
		return err
	})
	if err != nil {
		return nil, err
	}
	s.notifier.PublishEvents(ctx, event)

	s.log.WithRideID(rideID).WithUserID(riderID).Info("ride request submitted")
	return request, nil
}

func (s *requestService) AcceptRequest(ctx context.Context, requestID, callerID primitive.ObjectID) error {
	request, ride, err := s.authorizeDriverAction(ctx, requestID, callerID)
	if err != nil {
		return err
	}
	if request.Status != models.RequestStatusPending {
		return ErrInvalidState
	}

	var event *NotificationEvent
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.rides.ReserveSeat(ctx, ride.ID, request.RiderID); err != nil {
			return translateRepoError(err)
		}
		if err := s.requests.UpdateStatusIfPending(ctx, requestID, models.RequestStatusAccepted); err != nil {
			return translateRepoError(err)
		}
		event, err = s.notifier.Notify(ctx, request.RiderID, &ride.DriverID, models.NotificationTypeRequestAccepted,
			fmt.Sprintf("Your request for the ride from %s to %s was accepted", ride.Origin, ride.Destination))
		return err
	})
	if err != nil {
		return err
	}
	s.notifier.PublishEvents(ctx, event)

	s.log.WithRideID(ride.ID).WithUserID(callerID).
		WithField("request_id", requestID.Hex()).Info("ride request accepted")
	return nil
}

func (s *requestService) RejectRequest(ctx context.Context, requestID, callerID primitive.ObjectID) error {
	request, ride, err := s.authorizeDriverAction(ctx, requestID, callerID)
	if err != nil {
		return err
	}
	if request.Status != models.RequestStatusPending {
		return ErrInvalidState
	}

	var event *NotificationEvent
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.requests.UpdateStatusIfPending(ctx, requestID, models.RequestStatusRejected); err != nil {
			return translateRepoError(err)
		}
		event, err = s.notifier.Notify(ctx, request.RiderID, &ride.DriverID, models.NotificationTypeRequestRejected,
			fmt.Sprintf("Your request for the ride from %s to %s was rejected", ride.Origin, ride.Destination))
		return err
	})
	if err != nil {
		return err
	}
	s.notifier.PublishEvents(ctx, event)

	s.log.WithRideID(ride.ID).WithUserID(callerID).
		WithField("request_id", requestID.Hex()).Info("ride request rejected")
	return nil
}

func (s *requestService) CancelRequest(ctx context.Context, requestID, callerID primitive.ObjectID) error {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return translateRepoError(err)
	}
	if request.RiderID != callerID {
		return ErrNotOwner
	}
	if request.Status != models.RequestStatusPending {
		return ErrInvalidState
	}

	// Conditional delete: a concurrent accept wins the race and the
	// cancellation fails instead of erasing a terminal record.
	if err := s.requests.DeletePending(ctx, requestID); err != nil {
		return translateRepoError(err)
	}

	s.log.WithUserID(callerID).WithField("request_id", requestID.Hex()).Info("ride request cancelled")
	return nil
}

func (s *requestService) ActiveRequestsForRider(ctx context.Context, riderID primitive.ObjectID) (map[primitive.ObjectID]*models.RideRequest, error) {
	active, err := s.requests.GetActiveByRider(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active requests: %w", err)
	}

	// At most one active request per ride by invariant.
	byRide := make(map[primitive.ObjectID]*models.RideRequest, len(active))
	for _, request := range active {
		byRide[request.RideID] = request
	}
	return byRide, nil
}

// PendingRequestsForDriver joins the driver's inbound requests with the
// requesters' display data in a single batch profile fetch.
func (s *requestService) PendingRequestsForDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.PendingRequest, error) {
	pending, err := s.requests.GetPendingByDriver(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	if len(pending) == 0 {
		return []*models.PendingRequest{}, nil
	}

	riderIDs := make([]primitive.ObjectID, 0, len(pending))
	for _, request := range pending {
		riderIDs = append(riderIDs, request.RiderID)
	}

	profiles, err := s.profiles.DisplayData(ctx, riderIDs)
	if err != nil {
		s.log.WithError(err).Warn("profile join failed, using placeholders")
		profiles = map[primitive.ObjectID]*models.UserProfile{}
	}

	joined := make([]*models.PendingRequest, 0, len(pending))
	for _, request := range pending {
		entry := &models.PendingRequest{
			Request:       request,
			RequesterName: models.UnknownDisplayName,
		}
		if profile, ok := profiles[request.RiderID]; ok {
			if profile.DisplayName != "" {
				entry.RequesterName = profile.DisplayName
			}
			entry.RequesterImage = profile.ProfileImageURL
		}
		joined = append(joined, entry)
	}
	return joined, nil
}

// authorizeDriverAction loads the request and its ride and verifies the
// caller against the ride's current driver. The request's denormalized
// driver id is advisory only; drift is logged, never trusted.
func (s *requestService) authorizeDriverAction(ctx context.Context, requestID, callerID primitive.ObjectID) (*models.RideRequest, *models.Ride, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, translateRepoError(err)
	}

	ride, err := s.rides.GetByID(ctx, request.RideID)
	if err != nil {
		return nil, nil, translateRepoError(err)
	}

	if request.DriverID != ride.DriverID {
		s.log.WithRideID(ride.ID).WithField("request_id", requestID.Hex()).
			Warn("denormalized driver id drifted from ride")
	}
	if ride.DriverID != callerID {
		return nil, nil, ErrNotOwner
	}
	return request, ride, nil
}

func (s *requestService) displayName(ctx context.Context, userID primitive.ObjectID) string {
	profiles, err := s.profiles.DisplayData(ctx, []primitive.ObjectID{userID})
	if err != nil {
		return models.UnknownDisplayName
	}
	if profile, ok := profiles[userID]; ok && profile.DisplayName != "" {
		return profile.DisplayName
	}
	return models.UnknownDisplayName
}
