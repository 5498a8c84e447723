package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBooking_Roles(t *testing.T) {
	b := &Booking{BookerID: 1, OwnerID: 2, Status: StatusWaiting}

	assert.True(t, b.IsParticipant(1))
	assert.True(t, b.IsParticipant(2))
	assert.False(t, b.IsParticipant(3))

	assert.True(t, b.IsOwner(2))
	assert.False(t, b.IsOwner(1))
	assert.True(t, b.IsWaiting())
}

func TestDecisionStatus(t *testing.T) {
	assert.Equal(t, StatusApproved, DecisionStatus(true))
	assert.Equal(t, StatusRejected, DecisionStatus(false))
}

func TestBookingStatus_IsValid(t *testing.T) {
	assert.True(t, StatusCanceled.IsValid())
	assert.False(t, BookingStatus("waiting").IsValid())
}

func TestParseBookingState(t *testing.T) {
	for _, s := range States {
		got, ok := ParseBookingState(string(s))
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}

	_, ok := ParseBookingState("all")
	assert.False(t, ok, "tokens are case-sensitive")

	_, ok = ParseBookingState("UNSUPPORTED_STATUS")
	assert.False(t, ok)
}

func TestPage_IsUnbounded(t *testing.T) {
	assert.True(t, Page{}.IsUnbounded())
	assert.False(t, Page{Offset: 0, Limit: 10}.IsUnbounded())
}
