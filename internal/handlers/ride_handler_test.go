package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carpool/internal/handlers"
	"carpool/internal/models"
	"carpool/internal/services"
	"carpool/internal/utils"
)

type stubRideService struct {
	deleteErr error
	deletedID primitive.ObjectID
}

func (s *stubRideService) CreateRide(ctx context.Context, driverID primitive.ObjectID, input *services.CreateRideInput) (*models.Ride, error) {
	return nil, services.ErrValidation
}

func (s *stubRideService) GetRide(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	return nil, services.ErrNotFound
}

func (s *stubRideService) ListRides(ctx context.Context, filter *models.RideFilter, params *utils.PaginationParams) ([]*models.Ride, int64, error) {
	return nil, 0, nil
}

func (s *stubRideService) DeleteRide(ctx context.Context, rideID, callerID primitive.ObjectID) error {
	s.deletedID = rideID
	return s.deleteErr
}

func deleteRideRouter(svc services.RideService, callerID primitive.ObjectID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.DELETE("/rides/:id", func(c *gin.Context) {
		c.Set("user_id", callerID)
	}, handlers.NewRideHandler(svc).DeleteRide)
	return r
}

func TestDeleteRideHandler_NoContentOnSuccess(t *testing.T) {
	svc := &stubRideService{}
	driverID := primitive.NewObjectID()
	rideID := primitive.NewObjectID()
	router := deleteRideRouter(svc, driverID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/rides/"+rideID.Hex(), nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected an empty body, got %q", w.Body.String())
	}
	if svc.deletedID != rideID {
		t.Error("handler did not pass the ride id through")
	}
}

func TestDeleteRideHandler_ConflictOnAcceptedRequests(t *testing.T) {
	svc := &stubRideService{deleteErr: services.ErrHasAcceptedRequests}
	router := deleteRideRouter(svc, primitive.NewObjectID())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/rides/"+primitive.NewObjectID().Hex(), nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestDeleteRideHandler_BadID(t *testing.T) {
	svc := &stubRideService{}
	router := deleteRideRouter(svc, primitive.NewObjectID())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/rides/not-an-id", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
