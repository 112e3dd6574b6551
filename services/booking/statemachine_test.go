package booking

import (
	"testing"
	"time"

	"glowbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		from, to models.BookingStatus
		want     bool
	}{
		{models.BookingPending, models.BookingConfirmed, true},
		{models.BookingPending, models.BookingCancelled, true},
		{models.BookingPending, models.BookingCompleted, false},
		{models.BookingConfirmed, models.BookingCancelled, true},
		{models.BookingConfirmed, models.BookingCompleted, true},
		{models.BookingConfirmed, models.BookingPending, false},
		{models.BookingCancelled, models.BookingPending, false},
		{models.BookingCancelled, models.BookingConfirmed, false},
		{models.BookingCancelled, models.BookingCompleted, false},
		{models.BookingCompleted, models.BookingPending, false},
		{models.BookingCompleted, models.BookingConfirmed, false},
		{models.BookingCompleted, models.BookingCancelled, false},
		{models.BookingPending, models.BookingPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestValidateTransitionCancelRequiresReason(t *testing.T) {
	b := &models.Booking{ID: "b1", Date: testDay, Start: 600, End: 660, Status: models.BookingConfirmed}

	err := ValidateTransition(b, TransitionRequest{To: models.BookingCancelled, Now: testNow})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)

	err = ValidateTransition(b, TransitionRequest{To: models.BookingCancelled, Reason: "provider ill", Now: testNow})
	assert.NoError(t, err)
}

func TestValidateTransitionCompleteBeforeEnd(t *testing.T) {
	b := &models.Booking{ID: "b1", Date: testDay, Start: 600, End: 660, Status: models.BookingConfirmed}

	before := time.Date(2025, 6, 16, 10, 30, 0, 0, time.UTC)
	err := ValidateTransition(b, TransitionRequest{To: models.BookingCompleted, Now: before})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)

	// Force is the admin escape hatch.
	err = ValidateTransition(b, TransitionRequest{To: models.BookingCompleted, Force: true, Now: before})
	assert.NoError(t, err)

	after := time.Date(2025, 6, 16, 11, 0, 0, 0, time.UTC)
	err = ValidateTransition(b, TransitionRequest{To: models.BookingCompleted, Now: after})
	assert.NoError(t, err, "interval end is inclusive for completion")
}

func TestValidateTransitionIllegalPair(t *testing.T) {
	b := &models.Booking{ID: "b1", Date: testDay, Start: 600, End: 660, Status: models.BookingCompleted}

	err := ValidateTransition(b, TransitionRequest{To: models.BookingCancelled, Reason: "too late", Now: testNow})
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.BookingCompleted, invalid.From)
	assert.Equal(t, models.BookingCancelled, invalid.To)
}

func TestCanReschedule(t *testing.T) {
	for _, status := range []models.BookingStatus{models.BookingPending, models.BookingConfirmed} {
		assert.NoError(t, CanReschedule(&models.Booking{Status: status}), string(status))
	}
	for _, status := range []models.BookingStatus{models.BookingCancelled, models.BookingCompleted} {
		var invalid *InvalidTransitionError
		assert.ErrorAs(t, CanReschedule(&models.Booking{Status: status}), &invalid, string(status))
	}
}
