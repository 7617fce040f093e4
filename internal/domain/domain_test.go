package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	testCases := []struct {
		in       string
		expected Money
		wantErr  bool
	}{
		{in: "150.00", expected: 15000},
		{in: "20", expected: 2000},
		{in: "0.5", expected: 50},
		{in: ".75", expected: 75},
		{in: "-3.10", expected: -310},
		{in: "1.234", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1.-5", wantErr: true},
		{in: "", wantErr: true},
		{in: "92233720368547757.99", expected: Money(math.MaxInt64 - 8)},
		{in: "92233720368547758", wantErr: true},
		{in: "184467440737095517", wantErr: true},
		{in: "-92233720368547758.00", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMoney(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseMoney_OverflowIsRejected(t *testing.T) {
	_, err := ParseMoney("184467440737095517")
	assert.ErrorIs(t, err, ErrAmountOverflow)

	var m Money
	assert.Error(t, json.Unmarshal([]byte(`"184467440737095517"`), &m))
	assert.Equal(t, Money(0), m)
}

func TestMoneyTimes(t *testing.T) {
	testCases := []struct {
		name     string
		m        Money
		n        int
		expected Money
		wantErr  bool
	}{
		{name: "three days", m: 5000, n: 3, expected: 15000},
		{name: "zero days", m: 5000, n: 0, expected: 0},
		{name: "zero price", m: 0, n: math.MaxInt, expected: 0},
		{name: "largest fitting", m: Money(math.MaxInt64 / 2), n: 2, expected: Money(math.MaxInt64 - 1)},
		{name: "wraps", m: Money(math.MaxInt64/2 + 1), n: 2, wantErr: true},
		{name: "huge price", m: Money(math.MaxInt64 / 3), n: 365, wantErr: true},
		{name: "negative count", m: 5000, n: -1, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.m.Times(tc.n)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrAmountOverflow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestMoneyPlus(t *testing.T) {
	sum, err := Money(15000).Plus(6000)
	require.NoError(t, err)
	assert.Equal(t, Money(21000), sum)

	_, err = Money(math.MaxInt64).Plus(1)
	assert.ErrorIs(t, err, ErrAmountOverflow)

	_, err = Money(math.MinInt64).Plus(-1)
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(Money(15005))
	require.NoError(t, err)
	assert.Equal(t, `"150.05"`, string(data))

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`65.5`), &m))
	assert.Equal(t, Money(6550), m)
	require.NoError(t, json.Unmarshal([]byte(`"20.00"`), &m))
	assert.Equal(t, Money(2000), m)
	assert.Equal(t, "-0.05", Money(-5).String())
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, 2, d.DaysUntil(NewDate(2024, time.March, 1)))
	assert.Equal(t, NewDate(2025, time.January, 1), NewDate(2024, time.December, 1).AddMonths(1))
	assert.Equal(t, NewDate(2024, time.February, 1), d.FirstOfMonth())

	_, err = ParseDate("28/02/2024")
	assert.Error(t, err)

	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	late := time.Date(2024, time.March, 1, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, NewDate(2024, time.March, 2), DateOf(late.In(berlin)))

	data, err := json.Marshal(struct {
		D Date `json:"d"`
		Z Date `json:"z"`
	}{D: d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d": "2024-02-28", "z": null}`, string(data))
}

func TestBookingOverlapsIsInclusive(t *testing.T) {
	b := Booking{StartDate: NewDate(2024, time.March, 10), EndDate: NewDate(2024, time.March, 15)}

	assert.True(t, b.Overlaps(NewDate(2024, time.March, 15), NewDate(2024, time.March, 18)))
	assert.True(t, b.Overlaps(NewDate(2024, time.March, 1), NewDate(2024, time.March, 10)))
	assert.True(t, b.Overlaps(NewDate(2024, time.March, 12), NewDate(2024, time.March, 12)))
	assert.False(t, b.Overlaps(NewDate(2024, time.March, 16), NewDate(2024, time.March, 18)))
	assert.False(t, b.Overlaps(NewDate(2024, time.March, 1), NewDate(2024, time.March, 9)))
	assert.True(t, b.Covers(NewDate(2024, time.March, 15)))
}

func TestBookingStatus(t *testing.T) {
	assert.True(t, BookingStatusPending.Active())
	assert.True(t, BookingStatusConfirmed.Active())
	assert.False(t, BookingStatusCancelled.Active())
}
