package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in minor units (cents). The currency travels alongside
// it on the owning record.
type Money int64

// maxUnits is the largest whole amount that still fits in Money with any cents.
const maxUnits = (math.MaxInt64 - 99) / 100

// Times multiplies by a non-negative count and fails instead of wrapping.
func (m Money) Times(n int) (Money, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: negative multiplier %d", ErrAmountOverflow, n)
	}
	if m == 0 || n == 0 {
		return 0, nil
	}
	product := m * Money(n)
	if product/Money(n) != m {
		return 0, fmt.Errorf("%w: %s x %d", ErrAmountOverflow, m, n)
	}
	return product, nil
}

// Plus adds two amounts and fails instead of wrapping.
func (m Money) Plus(o Money) (Money, error) {
	sum := m + o
	if (o > 0 && sum < m) || (o < 0 && sum > m) {
		return 0, fmt.Errorf("%w: %s + %s", ErrAmountOverflow, m, o)
	}
	return sum, nil
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts both "50.00" and 50.00.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMoney parses a decimal amount with at most two fractional digits.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > 2 {
		return 0, fmt.Errorf("invalid amount %q: more than two decimal places", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseUint(whole, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if units > maxUnits {
		return 0, fmt.Errorf("%w: %q", ErrAmountOverflow, s)
	}
	cents, err := strconv.ParseUint(frac, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	v := int64(units*100 + cents)
	if neg {
		v = -v
	}
	return Money(v), nil
}
