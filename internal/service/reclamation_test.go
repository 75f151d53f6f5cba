package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wassalni/covoiturage-backend/internal/apperr"
	"github.com/wassalni/covoiturage-backend/internal/models"
)

type reclamationFixture struct {
	reclamations *fakeReclamations
	users        *fakeUsers
	service      *ReclamationService
}

func newReclamationFixture() *reclamationFixture {
	reclamations := newFakeReclamations()
	users := newFakeUsers()
	return &reclamationFixture{
		reclamations: reclamations,
		users:        users,
		service:      NewReclamationService(reclamations, users),
	}
}

func (f *reclamationFixture) seedUsers(t *testing.T) (complainantID, reportedID string) {
	t.Helper()
	var err error
	complainantID, err = f.users.InsertUser(context.Background(), models.User{FirstName: "Rania"})
	require.NoError(t, err)
	reportedID, err = f.users.InsertUser(context.Background(), models.User{FirstName: "Yassine"})
	require.NoError(t, err)
	return complainantID, reportedID
}

func TestCreateReclamation(t *testing.T) {
	f := newReclamationFixture()
	complainantID, reportedID := f.seedUsers(t)

	created, err := f.service.Create(context.Background(), complainantID, reportedID, "Le conducteur n'est jamais venu")
	require.NoError(t, err)

	assert.Equal(t, models.ReclamationOpen, created.Status)
	assert.Equal(t, complainantID, created.ComplainantID)
	assert.Equal(t, reportedID, created.ReportedID)
	assert.Nil(t, created.ResolvedAt)
}

func TestCreateReclamationReasonLength(t *testing.T) {
	f := newReclamationFixture()
	complainantID, reportedID := f.seedUsers(t)

	_, err := f.service.Create(context.Background(), complainantID, reportedID, "bof")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.service.Create(context.Background(), complainantID, reportedID, strings.Repeat("x", 501))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateReclamationUsersMustExist(t *testing.T) {
	f := newReclamationFixture()
	complainantID, _ := f.seedUsers(t)

	_, err := f.service.Create(context.Background(), complainantID, primitive.NewObjectID().Hex(), "Comportement inacceptable")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.service.Create(context.Background(), primitive.NewObjectID().Hex(), complainantID, "Comportement inacceptable")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestResolveReclamation(t *testing.T) {
	f := newReclamationFixture()
	complainantID, reportedID := f.seedUsers(t)
	created, err := f.service.Create(context.Background(), complainantID, reportedID, "Retard de plus d'une heure")
	require.NoError(t, err)

	resolved, err := f.service.Resolve(context.Background(), created.ID.Hex(), "Avertissement envoyé au conducteur")
	require.NoError(t, err)

	assert.Equal(t, models.ReclamationResolved, resolved.Status)
	assert.Equal(t, "Avertissement envoyé au conducteur", resolved.Response)
	require.NotNil(t, resolved.ResolvedAt)
}

func TestRejectReclamation(t *testing.T) {
	f := newReclamationFixture()
	complainantID, reportedID := f.seedUsers(t)
	created, err := f.service.Create(context.Background(), complainantID, reportedID, "Reclamation sans fondement")
	require.NoError(t, err)

	rejected, err := f.service.Reject(context.Background(), created.ID.Hex(), "Aucune preuve fournie")
	require.NoError(t, err)
	assert.Equal(t, models.ReclamationRejected, rejected.Status)
}

func TestCloseRequiresResponse(t *testing.T) {
	f := newReclamationFixture()
	complainantID, reportedID := f.seedUsers(t)
	created, err := f.service.Create(context.Background(), complainantID, reportedID, "Retard de plus d'une heure")
	require.NoError(t, err)

	_, err = f.service.Resolve(context.Background(), created.ID.Hex(), "  ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCloseOnlyFromOpen(t *testing.T) {
	f := newReclamationFixture()
	complainantID, reportedID := f.seedUsers(t)
	created, err := f.service.Create(context.Background(), complainantID, reportedID, "Retard de plus d'une heure")
	require.NoError(t, err)

	_, err = f.service.Resolve(context.Background(), created.ID.Hex(), "Traité")
	require.NoError(t, err)

	_, err = f.service.Reject(context.Background(), created.ID.Hex(), "Trop tard")
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestListReclamationsByStatus(t *testing.T) {
	f := newReclamationFixture()
	complainantID, reportedID := f.seedUsers(t)

	first, err := f.service.Create(context.Background(), complainantID, reportedID, "Premier incident signalé")
	require.NoError(t, err)
	_, err = f.service.Create(context.Background(), complainantID, reportedID, "Second incident signalé")
	require.NoError(t, err)
	_, err = f.service.Resolve(context.Background(), first.ID.Hex(), "Réglé")
	require.NoError(t, err)

	open, err := f.service.ListByStatus(context.Background(), models.ReclamationOpen)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	resolved, err := f.service.ListByStatus(context.Background(), models.ReclamationResolved)
	require.NoError(t, err)
	assert.Len(t, resolved, 1)
}
