package service

import (
	"github.com/wassalni/covoiturage-backend/internal/apperr"
	"github.com/wassalni/covoiturage-backend/internal/models"
)

// authorizeTripOwner is the single ownership precondition applied by
// every mutating trip operation.
func authorizeTripOwner(actorID string, trip *models.Trip) error {
	if trip.DriverID != actorID {
		return apperr.Unauthorizedf("user %s does not own trip %s", actorID, trip.ID.Hex())
	}
	return nil
}
