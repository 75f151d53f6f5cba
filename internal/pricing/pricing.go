// Package pricing estimates the fair price range for a trip offer.
package pricing

import (
	"github.com/wassalni/covoiturage-backend/internal/apperr"
)

// FuelPricePerLitre is the reference fuel price in dinars used for
// estimations.
const FuelPricePerLitre = 2.525

// Estimate is a suggested price range per trip.
type Estimate struct {
	Min float64 `json:"estimated_price_min"`
	Max float64 `json:"estimated_price_max"`
}

// ForTrip returns the suggested price bounds for a trip of the given
// distance (km) and duration (minutes). The upper bound factors in
// travel time, the lower bound only fuel spend.
func ForTrip(distanceKm, durationMin float64) (Estimate, error) {
	if distanceKm <= 0 {
		return Estimate{}, apperr.Validationf("distance must be positive, got %g", distanceKm)
	}
	if durationMin < 0 {
		return Estimate{}, apperr.Validationf("duration must not be negative, got %g", durationMin)
	}
	return Estimate{
		Min: distanceKm * FuelPricePerLitre * 0.1,
		Max: distanceKm*FuelPricePerLitre*0.2 + durationMin*0.1,
	}, nil
}
