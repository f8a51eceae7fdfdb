// Package datekey canonicalizes calendar dates to YYYY-MM-DD string keys.
// Every per-day lookup in the booking flow (blackout checks, appointment
// counts, calendar selections) is indexed by these keys, which order
// lexicographically the same way they order chronologically.
package datekey

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Layout is the canonical wire format for calendar dates.
const Layout = "2006-01-02"

// Key is a calendar date in canonical YYYY-MM-DD form.
type Key string

// Parse validates a string as a strict YYYY-MM-DD calendar date.
func Parse(s string) (Key, error) {
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	// time.Parse accepts some non-canonical forms (e.g. out-of-range days
	// are rejected, but we also require the round-trip to be exact).
	if t.Format(Layout) != s {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Key(s), nil
}

// FromTime truncates a time to its UTC calendar date.
func FromTime(t time.Time) Key {
	return Key(t.UTC().Format(Layout))
}

// Time returns midnight UTC of the key's date.
func (k Key) Time() time.Time {
	t, _ := time.ParseInLocation(Layout, string(k), time.UTC)
	return t
}

// String returns the canonical YYYY-MM-DD form.
func (k Key) String() string {
	return string(k)
}

// IsValid reports whether the key holds a well-formed date.
func (k Key) IsValid() bool {
	_, err := Parse(string(k))
	return err == nil
}

// Before reports whether k is strictly earlier than other.
func (k Key) Before(other Key) bool {
	return string(k) < string(other)
}

// AddDays returns the key for the date n days after k.
func (k Key) AddDays(n int) Key {
	return FromTime(k.Time().AddDate(0, 0, n))
}

// Scan implements sql.Scanner so DATE columns load directly into a Key.
func (k *Key) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*k = ""
		return nil
	case time.Time:
		*k = FromTime(v)
		return nil
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*k = parsed
		return nil
	case []byte:
		parsed, err := Parse(string(v))
		if err != nil {
			return err
		}
		*k = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into datekey.Key", src)
	}
}

// Value implements driver.Valuer, storing the key as midnight UTC.
func (k Key) Value() (driver.Value, error) {
	if k == "" {
		return nil, nil
	}
	if !k.IsValid() {
		return nil, fmt.Errorf("invalid date key %q", string(k))
	}
	return k.Time(), nil
}

// MonthInterval returns the closed [first, last] day interval for a
// year/month pair. A zero month expands to the whole year.
func MonthInterval(year, month int) (Key, Key) {
	if month == 0 {
		first := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		last := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
		return FromTime(first), FromTime(last)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return FromTime(first), FromTime(last)
}
