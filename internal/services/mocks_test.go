package services_test

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"
	"carpool/internal/services"
	"carpool/internal/utils"
	"carpool/pkg/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel("error"),
		Format: "text",
		Output: "stdout",
	})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	log.SetOutput(io.Discard)
	return log
}

// mockTxRunner runs the unit directly. The in-memory repositories below
// apply conditional writes under their own locks, so ordering within the
// unit still exercises the same failure points as the real transaction.
type mockTxRunner struct{}

func (m *mockTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// failingTxRunner runs the unit and then reports an abort at commit
// time, the way a real transaction can fail after the callback has
// returned cleanly.
type failingTxRunner struct {
	err error
}

func (m *failingTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return m.err
}

// hookTxRunner runs before at the transaction boundary, simulating a
// concurrent writer committing between the caller's pre-checks and the
// start of its unit.
type hookTxRunner struct {
	before func()
}

func (m *hookTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.before != nil {
		m.before()
	}
	return fn(ctx)
}

// ---------------------------------------------------------------------
// Ride repository
// ---------------------------------------------------------------------

type mockRideRepository struct {
	mu    sync.Mutex
	rides map[primitive.ObjectID]*models.Ride
}

func newMockRideRepository() *mockRideRepository {
	return &mockRideRepository{rides: make(map[primitive.ObjectID]*models.Ride)}
}

func (m *mockRideRepository) Create(ctx context.Context, ride *models.Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ride.ID.IsZero() {
		ride.ID = primitive.NewObjectID()
	}
	m.rides[ride.ID] = copyRide(ride)
	return nil
}

func (m *mockRideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return copyRide(ride), nil
}

func (m *mockRideRepository) List(ctx context.Context, filter *models.RideFilter, params *utils.PaginationParams) ([]*models.Ride, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Ride
	for _, ride := range m.rides {
		if !filter.After.IsZero() && ride.DepartureAt.Before(filter.After) {
			continue
		}
		if !filter.DriverID.IsZero() && ride.DriverID != filter.DriverID {
			continue
		}
		out = append(out, copyRide(ride))
	}
	// Catalog contract: soonest departure first.
	sort.Slice(out, func(i, j int) bool {
		return out[i].DepartureAt.Before(out[j].DepartureAt)
	})
	return out, int64(len(out)), nil
}

func (m *mockRideRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rides[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(m.rides, id)
	return nil
}

func (m *mockRideRepository) ReserveSeat(ctx context.Context, rideID, riderID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return interfaces.ErrNotFound
	}
	for _, passenger := range ride.Passengers {
		if passenger == riderID {
			return interfaces.ErrAlreadyPassenger
		}
	}
	if ride.AvailableSeats <= 0 {
		return interfaces.ErrNoSeats
	}
	ride.AvailableSeats--
	ride.Passengers = append(ride.Passengers, riderID)
	ride.UpdatedAt = time.Now()
	return nil
}

func copyRide(ride *models.Ride) *models.Ride {
	dup := *ride
	dup.Passengers = append([]primitive.ObjectID(nil), ride.Passengers...)
	return &dup
}

// ---------------------------------------------------------------------
// Ride request repository
// ---------------------------------------------------------------------

type mockRideRequestRepository struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]*models.RideRequest
}

func newMockRideRequestRepository() *mockRideRequestRepository {
	return &mockRideRequestRepository{requests: make(map[primitive.ObjectID]*models.RideRequest)}
}

func (m *mockRideRequestRepository) Create(ctx context.Context, request *models.RideRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.requests {
		if existing.RiderID == request.RiderID && existing.RideID == request.RideID && existing.Status.IsActive() {
			return interfaces.ErrDuplicateRequest
		}
	}
	request.ID = primitive.NewObjectID()
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	m.requests[request.ID] = copyRequest(request)
	return nil
}

func (m *mockRideRequestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.RideRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	request, ok := m.requests[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return copyRequest(request), nil
}

func (m *mockRideRequestRepository) UpdateStatusIfPending(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	request, ok := m.requests[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	if request.Status != models.RequestStatusPending {
		return interfaces.ErrStatusChanged
	}
	now := time.Now()
	request.Status = status
	request.UpdatedAt = now
	request.RespondedAt = &now
	return nil
}

func (m *mockRideRequestRepository) DeletePending(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	request, ok := m.requests[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	if request.Status != models.RequestStatusPending {
		return interfaces.ErrStatusChanged
	}
	delete(m.requests, id)
	return nil
}

func (m *mockRideRequestRepository) GetActiveByRider(ctx context.Context, riderID primitive.ObjectID) ([]*models.RideRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.RideRequest
	for _, request := range m.requests {
		if request.RiderID == riderID && request.Status.IsActive() {
			out = append(out, copyRequest(request))
		}
	}
	return out, nil
}

func (m *mockRideRequestRepository) GetPendingByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.RideRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.RideRequest
	for _, request := range m.requests {
		if request.DriverID == driverID && request.Status == models.RequestStatusPending {
			out = append(out, copyRequest(request))
		}
	}
	return out, nil
}

func (m *mockRideRequestRepository) GetByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.RideRequest
	for _, request := range m.requests {
		if request.RideID == rideID {
			out = append(out, copyRequest(request))
		}
	}
	return out, nil
}

func (m *mockRideRequestRepository) CountByRideAndStatus(ctx context.Context, rideID primitive.ObjectID, status models.RequestStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, request := range m.requests {
		if request.RideID == rideID && request.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *mockRideRequestRepository) DeleteByRideAndStatus(ctx context.Context, rideID primitive.ObjectID, status models.RequestStatus) ([]*models.RideRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed []*models.RideRequest
	for id, request := range m.requests {
		if request.RideID == rideID && request.Status == status {
			removed = append(removed, copyRequest(request))
			delete(m.requests, id)
		}
	}
	return removed, nil
}

func copyRequest(request *models.RideRequest) *models.RideRequest {
	dup := *request
	return &dup
}

// ---------------------------------------------------------------------
// Notification repository
// ---------------------------------------------------------------------

type mockNotificationRepository struct {
	mu            sync.Mutex
	notifications map[primitive.ObjectID]*models.Notification
}

func newMockNotificationRepository() *mockNotificationRepository {
	return &mockNotificationRepository{notifications: make(map[primitive.ObjectID]*models.Notification)}
}

func (m *mockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	dup := *notification
	m.notifications[notification.ID] = &dup
	return nil
}

func (m *mockNotificationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	notification, ok := m.notifications[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	dup := *notification
	return &dup, nil
}

func (m *mockNotificationRepository) GetByRecipient(ctx context.Context, recipientID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Notification
	for _, notification := range m.notifications {
		if notification.RecipientID == recipientID {
			dup := *notification
			out = append(out, &dup)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	notification, ok := m.notifications[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	if notification.Status == models.NotificationStatusRead {
		return interfaces.ErrStatusChanged
	}
	now := time.Now()
	notification.Status = models.NotificationStatusRead
	notification.ReadAt = &now
	return nil
}

func (m *mockNotificationRepository) CountUnread(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, notification := range m.notifications {
		if notification.RecipientID == recipientID && notification.Status == models.NotificationStatusUnread {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepository) forRecipient(recipientID primitive.ObjectID) []*models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Notification
	for _, notification := range m.notifications {
		if notification.RecipientID == recipientID {
			dup := *notification
			out = append(out, &dup)
		}
	}
	return out
}

// ---------------------------------------------------------------------
// Profile repository
// ---------------------------------------------------------------------

type mockProfileRepository struct {
	mu       sync.Mutex
	profiles map[primitive.ObjectID]*models.UserProfile
}

func newMockProfileRepository() *mockProfileRepository {
	return &mockProfileRepository{profiles: make(map[primitive.ObjectID]*models.UserProfile)}
}

func (m *mockProfileRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[userID]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	dup := *profile
	return &dup, nil
}

func (m *mockProfileRepository) GetByUserIDs(ctx context.Context, userIDs []primitive.ObjectID) (map[primitive.ObjectID]*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[primitive.ObjectID]*models.UserProfile)
	for _, id := range userIDs {
		if profile, ok := m.profiles[id]; ok {
			dup := *profile
			out[id] = &dup
		}
	}
	return out, nil
}

func (m *mockProfileRepository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	dup := *profile
	m.profiles[profile.UserID] = &dup
	return nil
}

// ---------------------------------------------------------------------
// Event publisher
// ---------------------------------------------------------------------

type mockPublisher struct {
	mu     sync.Mutex
	events []*services.NotificationEvent
	fail   error
}

func (m *mockPublisher) Publish(ctx context.Context, event *services.NotificationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) published() []*services.NotificationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*services.NotificationEvent(nil), m.events...)
}

// ---------------------------------------------------------------------
// Fixture: wires the full service graph over the in-memory repositories
// ---------------------------------------------------------------------

type fixture struct {
	rides         *mockRideRepository
	requests      *mockRideRequestRepository
	notifications *mockNotificationRepository
	profiles      *mockProfileRepository
	publisher     *mockPublisher

	rideService         services.RideService
	requestService      services.RequestService
	notificationService services.NotificationService
	profileService      services.ProfileService

	log *logger.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		rides:         newMockRideRepository(),
		requests:      newMockRideRequestRepository(),
		notifications: newMockNotificationRepository(),
		profiles:      newMockProfileRepository(),
		publisher:     &mockPublisher{},
	}

	f.log = newTestLogger(t)
	tx := &mockTxRunner{}

	f.notificationService = services.NewNotificationService(f.notifications, f.publisher, f.log)
	f.profileService = services.NewProfileService(f.profiles, nil, f.log)
	f.rideService = services.NewRideService(f.rides, f.requests, f.notificationService, tx, f.log)
	f.requestService = services.NewRequestService(f.rides, f.requests, f.notificationService, f.profileService, tx, f.log)

	return f
}

func (f *fixture) seedRide(t *testing.T, driverID primitive.ObjectID, seats int) *models.Ride {
	t.Helper()
	ride, err := f.rideService.CreateRide(context.Background(), driverID, &services.CreateRideInput{
		Origin:      "Tagum City",
		Destination: "Davao City",
		DepartureAt: time.Now().Add(24 * time.Hour),
		Price:       15000,
		TotalSeats:  seats,
	})
	if err != nil {
		t.Fatalf("failed to seed ride: %v", err)
	}
	return ride
}

func (f *fixture) seedProfile(t *testing.T, userID primitive.ObjectID, name string) {
	t.Helper()
	err := f.profileService.Upsert(context.Background(), &models.UserProfile{
		UserID:      userID,
		DisplayName: name,
	})
	if err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}
}
