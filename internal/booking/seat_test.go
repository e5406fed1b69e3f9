package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeatID(t *testing.T) {
	valid := []string{"A1", "A10", "E5", "G7", "J10"}
	for _, raw := range valid {
		seat, err := ParseSeatID(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, SeatID(raw), seat)
	}

	invalid := []string{"", "A", "a1", "K1", "A0", "A11", "A01", "A100", "1A", "AA", "A 1"}
	for _, raw := range invalid {
		_, err := ParseSeatID(raw)
		assert.ErrorIs(t, err, ErrInvalidSeat, raw)
	}
}

func TestSeatClass(t *testing.T) {
	cases := map[SeatID]SeatClass{
		"A1":  ClassStandard,
		"F10": ClassStandard,
		"G1":  ClassVIP,
		"H5":  ClassVIP,
		"I10": ClassVIP,
		"J1":  ClassStandard,
	}
	for seat, want := range cases {
		assert.Equal(t, want, seat.Class(), string(seat))
	}
}

func TestAllSeats(t *testing.T) {
	seats := AllSeats()
	require.Len(t, seats, 100)
	assert.Equal(t, SeatID("A1"), seats[0])
	assert.Equal(t, SeatID("A10"), seats[9])
	assert.Equal(t, SeatID("B1"), seats[10])
	assert.Equal(t, SeatID("J10"), seats[99])
}

func TestSortSeatsNumericWithinRow(t *testing.T) {
	seats := []SeatID{"A10", "B2", "A2", "A1", "B10"}
	sortSeats(seats)
	assert.Equal(t, []SeatID{"A1", "A2", "A10", "B2", "B10"}, seats)
}

func TestMakeSeatIDPanicsOutsideGrid(t *testing.T) {
	assert.Panics(t, func() { MakeSeatID('K', 1) })
	assert.Panics(t, func() { MakeSeatID('A', 0) })
	assert.Panics(t, func() { MakeSeatID('A', 11) })
}
