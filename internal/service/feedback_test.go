package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wassalni/covoiturage-backend/internal/apperr"
	"github.com/wassalni/covoiturage-backend/internal/models"
)

type feedbackFixture struct {
	feedbacks *fakeFeedbacks
	trips     *fakeTrips
	users     *fakeUsers
	service   *FeedbackService
}

func newFeedbackFixture() *feedbackFixture {
	feedbacks := newFakeFeedbacks()
	trips := newFakeTrips()
	users := newFakeUsers()
	return &feedbackFixture{
		feedbacks: feedbacks,
		trips:     trips,
		users:     users,
		service:   NewFeedbackService(feedbacks, trips, users),
	}
}

func (f *feedbackFixture) seed(t *testing.T, driverID string) (tripID, passengerID string) {
	t.Helper()
	var err error
	tripID, err = f.trips.InsertTrip(context.Background(), models.Trip{DriverID: driverID, TotalSeats: 3})
	require.NoError(t, err)
	passengerID, err = f.users.InsertUser(context.Background(), models.User{FirstName: "Leila"})
	require.NoError(t, err)
	return tripID, passengerID
}

func TestCreateFeedback(t *testing.T) {
	f := newFeedbackFixture()
	tripID, passengerID := f.seed(t, "driver-1")

	created, err := f.service.Create(context.Background(), tripID, passengerID, 4, "Très bon trajet")
	require.NoError(t, err)

	assert.Equal(t, 4, created.Rating)
	assert.Equal(t, tripID, created.TripID)
	assert.Equal(t, passengerID, created.PassengerID)
}

func TestCreateFeedbackRatingRange(t *testing.T) {
	f := newFeedbackFixture()
	tripID, passengerID := f.seed(t, "driver-1")

	for _, rating := range []int{0, 6, -1} {
		_, err := f.service.Create(context.Background(), tripID, passengerID, rating, "")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}
}

func TestCreateFeedbackAbsentTrip(t *testing.T) {
	f := newFeedbackFixture()
	_, passengerID := f.seed(t, "driver-1")

	_, err := f.service.Create(context.Background(), primitive.NewObjectID().Hex(), passengerID, 3, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateFeedbackAbsentPassenger(t *testing.T) {
	f := newFeedbackFixture()
	tripID, _ := f.seed(t, "driver-1")

	_, err := f.service.Create(context.Background(), tripID, primitive.NewObjectID().Hex(), 3, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateFeedbackDuplicate(t *testing.T) {
	f := newFeedbackFixture()
	tripID, passengerID := f.seed(t, "driver-1")

	_, err := f.service.Create(context.Background(), tripID, passengerID, 5, "")
	require.NoError(t, err)

	_, err = f.service.Create(context.Background(), tripID, passengerID, 2, "changed my mind")
	assert.ErrorIs(t, err, apperr.ErrDuplicate)
}

func TestListByTripRequiresTrip(t *testing.T) {
	f := newFeedbackFixture()

	_, err := f.service.ListByTrip(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAverageForDriver(t *testing.T) {
	f := newFeedbackFixture()
	tripA, passengerA := f.seed(t, "driver-1")
	tripB, err := f.trips.InsertTrip(context.Background(), models.Trip{DriverID: "driver-1", TotalSeats: 2})
	require.NoError(t, err)
	passengerB, err := f.users.InsertUser(context.Background(), models.User{FirstName: "Karim"})
	require.NoError(t, err)

	_, err = f.service.Create(context.Background(), tripA, passengerA, 5, "")
	require.NoError(t, err)
	_, err = f.service.Create(context.Background(), tripB, passengerB, 2, "")
	require.NoError(t, err)

	average, err := f.service.AverageForDriver(context.Background(), "driver-1")
	require.NoError(t, err)
	assert.Equal(t, 3.5, average)
}

func TestAverageForDriverWithoutFeedback(t *testing.T) {
	f := newFeedbackFixture()
	f.seed(t, "driver-1")

	average, err := f.service.AverageForDriver(context.Background(), "driver-1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, average)
}

func TestAverageForDriverWithoutTrips(t *testing.T) {
	f := newFeedbackFixture()

	average, err := f.service.AverageForDriver(context.Background(), "driver-unknown")
	require.NoError(t, err)
	assert.Equal(t, 0.0, average)
}

func TestDeleteFeedback(t *testing.T) {
	f := newFeedbackFixture()
	tripID, passengerID := f.seed(t, "driver-1")
	created, err := f.service.Create(context.Background(), tripID, passengerID, 4, "")
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(context.Background(), created.ID.Hex()))

	err = f.service.Delete(context.Background(), created.ID.Hex())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
