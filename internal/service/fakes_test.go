package service

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wassalni/covoiturage-backend/internal/apperr"
	"github.com/wassalni/covoiturage-backend/internal/models"
)

// In-memory collection fakes mirroring the Mongo implementations.

type fakeTrips struct {
	mu    sync.Mutex
	trips map[string]models.Trip
}

func newFakeTrips() *fakeTrips {
	return &fakeTrips{trips: make(map[string]models.Trip)}
}

func (f *fakeTrips) InsertTrip(ctx context.Context, trip models.Trip) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if trip.ID.IsZero() {
		trip.ID = primitive.NewObjectID()
	}
	f.trips[trip.ID.Hex()] = trip
	return trip.ID.Hex(), nil
}

func (f *fakeTrips) FindTripByID(ctx context.Context, id string) (*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[id]
	if !ok {
		return nil, apperr.NotFoundf("trip %s not found", id)
	}
	return &trip, nil
}

func (f *fakeTrips) FindActiveTrips(ctx context.Context) ([]models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Trip
	for _, t := range f.trips {
		if !t.Archived {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTrips) FindTripsByDriver(ctx context.Context, driverID string) ([]models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Trip
	for _, t := range f.trips {
		if t.DriverID == driverID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTrips) UpdateTrip(ctx context.Context, id string, trip models.Trip) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.trips[id]; !ok {
		return apperr.NotFoundf("trip %s not found", id)
	}
	f.trips[id] = trip
	return nil
}

func (f *fakeTrips) DeleteTrip(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.trips[id]; !ok {
		return apperr.NotFoundf("trip %s not found", id)
	}
	delete(f.trips, id)
	return nil
}

type fakeReservations struct {
	mu           sync.Mutex
	reservations map[string]models.Reservation
	insertCalls  int
	updateErrFor map[string]error
}

func newFakeReservations() *fakeReservations {
	return &fakeReservations{
		reservations: make(map[string]models.Reservation),
		updateErrFor: make(map[string]error),
	}
}

func (f *fakeReservations) InsertReservation(ctx context.Context, r models.Reservation) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	f.reservations[r.ID.Hex()] = r
	return r.ID.Hex(), nil
}

func (f *fakeReservations) FindReservationByID(ctx context.Context, id string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return nil, apperr.NotFoundf("reservation %s not found", id)
	}
	return &r, nil
}

func (f *fakeReservations) FindReservationsByTrip(ctx context.Context, tripID string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, r := range f.reservations {
		if r.TripID == tripID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservations) FindReservationsByTrips(ctx context.Context, tripIDs []string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make(map[string]bool, len(tripIDs))
	for _, id := range tripIDs {
		ids[id] = true
	}
	var out []models.Reservation
	for _, r := range f.reservations {
		if ids[r.TripID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservations) FindReservationsByPassenger(ctx context.Context, passengerID string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, r := range f.reservations {
		if r.PassengerID == passengerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservations) FindAcceptedByTripAndPassenger(ctx context.Context, tripID, passengerID, excludeID string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, r := range f.reservations {
		if id == excludeID {
			continue
		}
		if r.TripID == tripID && r.PassengerID == passengerID && r.Status == models.ReservationAccepted {
			return &r, nil
		}
	}
	return nil, apperr.NotFoundf("no accepted reservation for passenger %s on trip %s", passengerID, tripID)
}

func (f *fakeReservations) UpdateReservation(ctx context.Context, id string, r models.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.updateErrFor[id]; ok {
		return err
	}
	if _, ok := f.reservations[id]; !ok {
		return apperr.NotFoundf("reservation %s not found", id)
	}
	f.reservations[id] = r
	return nil
}

func (f *fakeReservations) DeleteReservation(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reservations[id]; !ok {
		return apperr.NotFoundf("reservation %s not found", id)
	}
	delete(f.reservations, id)
	return nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]models.User)}
}

func (f *fakeUsers) InsertUser(ctx context.Context, user models.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID.Hex()] = user
	return user.ID.Hex(), nil
}

func (f *fakeUsers) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFoundf("user %s not found", id)
	}
	return &user, nil
}

func (f *fakeUsers) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperr.NotFoundf("user with email %s not found", email)
}

func (f *fakeUsers) UpdateUser(ctx context.Context, id string, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return apperr.NotFoundf("user %s not found", id)
	}
	f.users[id] = user
	return nil
}

func (f *fakeUsers) DeleteUser(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return apperr.NotFoundf("user %s not found", id)
	}
	delete(f.users, id)
	return nil
}

type fakeFeedbacks struct {
	mu        sync.Mutex
	feedbacks map[string]models.Feedback
}

func newFakeFeedbacks() *fakeFeedbacks {
	return &fakeFeedbacks{feedbacks: make(map[string]models.Feedback)}
}

func (f *fakeFeedbacks) InsertFeedback(ctx context.Context, fb models.Feedback) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fb.ID.IsZero() {
		fb.ID = primitive.NewObjectID()
	}
	f.feedbacks[fb.ID.Hex()] = fb
	return fb.ID.Hex(), nil
}

func (f *fakeFeedbacks) FindFeedbackByID(ctx context.Context, id string) (*models.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fb, ok := f.feedbacks[id]
	if !ok {
		return nil, apperr.NotFoundf("feedback %s not found", id)
	}
	return &fb, nil
}

func (f *fakeFeedbacks) FindFeedbackByTripAndPassenger(ctx context.Context, tripID, passengerID string) (*models.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fb := range f.feedbacks {
		if fb.TripID == tripID && fb.PassengerID == passengerID {
			return &fb, nil
		}
	}
	return nil, apperr.NotFoundf("no feedback by passenger %s on trip %s", passengerID, tripID)
}

func (f *fakeFeedbacks) FindFeedbacksByTrip(ctx context.Context, tripID string) ([]models.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Feedback
	for _, fb := range f.feedbacks {
		if fb.TripID == tripID {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *fakeFeedbacks) FindFeedbacksByTrips(ctx context.Context, tripIDs []string) ([]models.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make(map[string]bool, len(tripIDs))
	for _, id := range tripIDs {
		ids[id] = true
	}
	var out []models.Feedback
	for _, fb := range f.feedbacks {
		if ids[fb.TripID] {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *fakeFeedbacks) FindFeedbacksByPassenger(ctx context.Context, passengerID string) ([]models.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Feedback
	for _, fb := range f.feedbacks {
		if fb.PassengerID == passengerID {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *fakeFeedbacks) DeleteFeedback(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.feedbacks[id]; !ok {
		return apperr.NotFoundf("feedback %s not found", id)
	}
	delete(f.feedbacks, id)
	return nil
}

type fakeReclamations struct {
	mu           sync.Mutex
	reclamations map[string]models.Reclamation
}

func newFakeReclamations() *fakeReclamations {
	return &fakeReclamations{reclamations: make(map[string]models.Reclamation)}
}

func (f *fakeReclamations) InsertReclamation(ctx context.Context, r models.Reclamation) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	f.reclamations[r.ID.Hex()] = r
	return r.ID.Hex(), nil
}

func (f *fakeReclamations) FindReclamationByID(ctx context.Context, id string) (*models.Reclamation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reclamations[id]
	if !ok {
		return nil, apperr.NotFoundf("reclamation %s not found", id)
	}
	return &r, nil
}

func (f *fakeReclamations) FindReclamations(ctx context.Context) ([]models.Reclamation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reclamation
	for _, r := range f.reclamations {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReclamations) FindReclamationsByComplainant(ctx context.Context, userID string) ([]models.Reclamation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reclamation
	for _, r := range f.reclamations {
		if r.ComplainantID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReclamations) FindReclamationsByReported(ctx context.Context, userID string) ([]models.Reclamation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reclamation
	for _, r := range f.reclamations {
		if r.ReportedID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReclamations) FindReclamationsByStatus(ctx context.Context, status models.ReclamationStatus) ([]models.Reclamation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reclamation
	for _, r := range f.reclamations {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReclamations) UpdateReclamation(ctx context.Context, id string, r models.Reclamation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reclamations[id]; !ok {
		return apperr.NotFoundf("reclamation %s not found", id)
	}
	f.reclamations[id] = r
	return nil
}

func (f *fakeReclamations) DeleteReclamation(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reclamations[id]; !ok {
		return apperr.NotFoundf("reclamation %s not found", id)
	}
	delete(f.reclamations, id)
	return nil
}
