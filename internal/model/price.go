package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Cents is a price in hundredths of the currency unit. Prices are
// stored numerically but travel as decimal strings ("10.50") in forms
// and JSON, matching how clients already format them.
type Cents int64

// ParseCents parses a decimal price string like "10", "10.5" or "10.50".
// Negative prices and more than two decimal places are rejected.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 {
		return 0, fmt.Errorf("invalid price %q", s)
	}

	var cents int64
	if hasFrac {
		switch len(frac) {
		case 1:
			frac += "0"
		case 2:
		default:
			return 0, fmt.Errorf("invalid price %q", s)
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || cents < 0 {
			return 0, fmt.Errorf("invalid price %q", s)
		}
	}

	return Cents(units*100 + cents), nil
}

// String formats the price as a decimal string with two places.
func (c Cents) String() string {
	return fmt.Sprintf("%d.%02d", c/100, c%100)
}

// MarshalJSON renders the price as a decimal string.
func (c Cents) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts either a decimal string or a plain number of
// currency units.
func (c *Cents) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid price: %s", data)
		}
		s = strconv.FormatFloat(n, 'f', -1, 64)
	}
	parsed, err := ParseCents(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
