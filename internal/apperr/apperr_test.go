package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrappersClassify(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
	}{
		{Validationf("bad input"), ErrValidation},
		{NotFoundf("missing"), ErrNotFound},
		{Unauthorizedf("not yours"), ErrUnauthorized},
		{Conflictf("already done"), ErrConflict},
		{Capacityf("too many"), ErrCapacityExceeded},
		{Duplicatef("again"), ErrDuplicate},
		{Storef("write failed"), ErrStore},
	}
	for _, c := range cases {
		assert.ErrorIs(t, c.err, c.sentinel)
	}
}

func TestWrappersKeepDetail(t *testing.T) {
	err := Validationf("rating must be between %d and %d", 1, 5)
	assert.Contains(t, err.Error(), "rating must be between 1 and 5")
	assert.Contains(t, err.Error(), ErrValidation.Error())
}

func TestClassificationSurvivesRewrapping(t *testing.T) {
	err := fmt.Errorf("creating reservation: %w", Capacityf("full"))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.False(t, errors.Is(err, ErrValidation))
}
