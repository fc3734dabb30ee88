package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Hours is a fixed-point quantity of micro-hours. Aggregating in integers
// keeps sums exact and independent of addition order.
type Hours int64

// HoursScale is the number of Hours units in one hour.
const HoursScale = 1_000_000

// maxHours bounds a single parsed value. Sums across rows are checked by
// the importer.
const maxHours = 1e9

// ParseHours parses a decimal hour count such as "7.5" or "8".
// Values are rounded to the nearest micro-hour.
func ParseHours(s string) (Hours, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	if math.Abs(f) > maxHours {
		return 0, fmt.Errorf("out of range: %q", s)
	}
	return Hours(math.Round(f * HoursScale)), nil
}

// HoursFromFloat converts a float hour count to Hours.
func HoursFromFloat(f float64) Hours {
	return Hours(math.Round(f * HoursScale))
}

// Float returns h in hours.
func (h Hours) Float() float64 {
	return float64(h) / HoursScale
}

// String formats h with up to two decimals and no trailing zeros ("7.5", "8").
func (h Hours) String() string {
	return strconv.FormatFloat(math.Round(h.Float()*100)/100, 'f', -1, 64)
}

// MarshalJSON encodes Hours as a plain JSON number of hours.
func (h Hours) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(h.Float(), 'f', -1, 64)), nil
}

// UnmarshalJSON decodes a JSON number of hours.
func (h *Hours) UnmarshalJSON(data []byte) error {
	v, err := ParseHours(string(data))
	if err != nil {
		return fmt.Errorf("decoding hours: %w", err)
	}
	*h = v
	return nil
}
