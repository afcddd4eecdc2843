package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlotAvailability(t *testing.T) {
	s := &Slot{MaxQuantity: 2, CurrentQuantity: 1}
	assert.True(t, s.IsAvailable())
	assert.Equal(t, 1, s.Remaining())

	s.CurrentQuantity = 2
	assert.False(t, s.IsAvailable())
	assert.Equal(t, 0, s.Remaining())
}

func TestShiftIsValid(t *testing.T) {
	assert.True(t, ShiftMorning.IsValid())
	assert.True(t, ShiftAfternoon.IsValid())
	assert.False(t, Shift("night").IsValid())
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	got := DateOnly(time.Date(2025, 1, 6, 23, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), got)
}
