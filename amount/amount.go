/*
Package amount implements the fixed point decimal used to count asset
positions. An Amount is a whole part plus a fractional part expressed in
billionths, so arithmetic is exact and never goes through floats.
*/
package amount

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/iov-one/ledger/errors"
)

const (
	// MaxInt is the largest whole value we accept
	MaxInt int64 = 999999999999999 // 10^15-1
	// MinInt is the lowest whole value we accept
	MinInt = -MaxInt

	// FracUnit is the smallest numbers we divide by
	FracUnit int64 = 1000000000 // fractional units = 10^9
	// MaxFrac is the highest possible fractional value
	MaxFrac = FracUnit - 1
	// MinFrac is the lowest possible fractional value
	MinFrac = -MaxFrac
)

// Amount is a decimal quantity of an asset.
type Amount struct {
	Whole      int64 `json:"whole"`
	Fractional int64 `json:"fractional"`
}

// New creates a new amount object
func New(whole, fractional int64) Amount {
	return Amount{Whole: whole, Fractional: fractional}
}

// Zero is the amount carried by empty positions.
func Zero() Amount {
	return Amount{}
}

// One is the only non zero amount a non-fungible position may hold.
func One() Amount {
	return Amount{Whole: 1}
}

// Add combines two amounts. Returns an error if the result overflows.
func (a Amount) Add(o Amount) (Amount, error) {
	a.Whole += o.Whole
	a.Fractional += o.Fractional
	return a.normalize()
}

// Negative returns the opposite value
//   a.Add(a.Negative()).IsZero() == true
func (a Amount) Negative() Amount {
	return Amount{
		Whole:      -1 * a.Whole,
		Fractional: -1 * a.Fractional,
	}
}

// Subtract given amount.
func (a Amount) Subtract(o Amount) (Amount, error) {
	return a.Add(o.Negative())
}

// Compare assumes both values were already normalized.
//
// Returns 1 if a is larger, -1 if o is larger, 0 if equal
func (a Amount) Compare(o Amount) int {
	if a.Whole > o.Whole {
		return 1
	}
	if a.Whole < o.Whole {
		return -1
	}
	// same integer, compare fractional
	if a.Fractional > o.Fractional {
		return 1
	}
	if a.Fractional < o.Fractional {
		return -1
	}
	return 0
}

// Equals returns true if both parts are identical
func (a Amount) Equals(o Amount) bool {
	return a.Whole == o.Whole && a.Fractional == o.Fractional
}

// IsZero returns true amounts are 0
func (a Amount) IsZero() bool {
	return a.Whole == 0 && a.Fractional == 0
}

// IsOne returns true if the amount is exactly 1.
func (a Amount) IsOne() bool {
	return a.Whole == 1 && a.Fractional == 0
}

// IsPositive returns true if the value is greater than 0
func (a Amount) IsPositive() bool {
	return a.Whole > 0 ||
		(a.Whole == 0 && a.Fractional > 0)
}

// IsNegative returns true if the value is lower than 0
func (a Amount) IsNegative() bool {
	return a.Whole < 0 ||
		(a.Whole == 0 && a.Fractional < 0)
}

// IsNonNegative returns true if the value is 0 or higher
func (a Amount) IsNonNegative() bool {
	return a.Whole >= 0 && a.Fractional >= 0
}

// IsGTE returns true if a is at least as large as o.
// It assumes they were already normalized.
func (a Amount) IsGTE(o Amount) bool {
	return a.Compare(o) >= 0
}

// Validate ensures that the amount is in the valid range. It accepts
// negative values, so you may want to make other checks in your business
// logic.
func (a Amount) Validate() error {
	var err error
	if a.Whole < MinInt || a.Whole > MaxInt {
		err = errors.Append(err, errors.ErrOverflow)
	}
	if a.Fractional < MinFrac || a.Fractional > MaxFrac {
		err = errors.Append(err, errors.Wrap(errors.ErrOverflow, "fractional"))
	}
	// make sure signs match
	if a.Whole != 0 && a.Fractional != 0 &&
		((a.Whole > 0) != (a.Fractional > 0)) {
		err = errors.Append(err, errors.Wrap(errors.ErrState, "mismatched sign"))
	}
	return err
}

// normalize will adjust the fractional parts to
// correspond to the range and the integer parts.
//
// If the normalized amount is outside of the range,
// returns an error
func (a Amount) normalize() (Amount, error) {
	// keep fraction in range
	for a.Fractional < MinFrac {
		a.Whole--
		a.Fractional += FracUnit
	}
	for a.Fractional > MaxFrac {
		a.Whole++
		a.Fractional -= FracUnit
	}

	// make sure the signs correspond
	if (a.Whole > 0) && (a.Fractional < 0) {
		a.Whole--
		a.Fractional += FracUnit
	} else if (a.Whole < 0) && (a.Fractional > 0) {
		a.Whole++
		a.Fractional -= FracUnit
	}

	if a.Whole < MinInt || a.Whole > MaxInt {
		return Amount{}, errors.ErrOverflow
	}
	return a, nil
}

// String provides a decimal representation that Parse accepts.
func (a Amount) String() string {
	var b bytes.Buffer

	if n, err := a.normalize(); err == nil {
		a = n
	}

	if a.Whole == 0 && a.Fractional < 0 {
		io.WriteString(&b, "-")
	}
	io.WriteString(&b, strconv.FormatInt(a.Whole, 10))

	if f := a.Fractional; f != 0 {
		if f < 0 {
			f = -f
		}
		s := strconv.FormatInt(f, 10)
		// Add leading zeros to convert it to a floating point number.
		s = "." + strings.Repeat("0", 9-len(s)) + s
		// Remove trailing zeros as they provide no information.
		s = strings.TrimRight(s, "0")

		io.WriteString(&b, s)
	}
	return b.String()
}

var decimalRx = regexp.MustCompile(`^(\-?)(\d+)(?:\.(\d{1,9}))?$`)

// Parse reads a decimal string like "12", "0.5" or "-3.25".
// At most nine fractional digits are accepted.
func Parse(s string) (Amount, error) {
	m := decimalRx.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Amount{}, errors.Wrapf(errors.ErrInput, "invalid amount %q", s)
	}
	whole, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "whole value %q", m[2])
	}
	var frac int64
	if m[3] != "" {
		digits := m[3] + strings.Repeat("0", 9-len(m[3]))
		frac, err = strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return Amount{}, errors.Wrapf(errors.ErrInput, "fractional value %q", m[3])
		}
	}
	if m[1] == "-" {
		whole, frac = -whole, -frac
	}
	a := Amount{Whole: whole, Fractional: frac}
	if err := a.Validate(); err != nil {
		return Amount{}, err
	}
	return a, nil
}

// MustParse is Parse that panics on invalid input. Use it for constants
// and in tests only.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// UnmarshalJSON accepts the decimal string format as well as the
// {"whole": .., "fractional": ..} object.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := Parse(human)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	}

	// Fallback into the default unmarhaling. Because UnmarshalJSON method
	// is provided, we can no longer use Amount type for this.
	var obj struct {
		Whole      int64 `json:"whole"`
		Fractional int64 `json:"fractional"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	a.Whole = obj.Whole
	a.Fractional = obj.Fractional
	return nil
}
