package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// civilDateLayout is the wire and storage format for calendar dates.
const civilDateLayout = "2006-01-02"

// CivilDate is a calendar date without a time zone component, stored and
// transported as a bare "YYYY-MM-DD" string. It is always interpreted at
// local midnight: parsing "2024-01-10" as UTC and converting would shift
// the date to the previous day in negative-UTC-offset zones.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewCivilDate creates a CivilDate from its components
func NewCivilDate(year int, month time.Month, day int) CivilDate {
	return CivilDate{Year: year, Month: month, Day: day}
}

// CivilDateOf returns the CivilDate in which t occurs, in t's location
func CivilDateOf(t time.Time) CivilDate {
	year, month, day := t.Date()
	return CivilDate{Year: year, Month: month, Day: day}
}

// Today returns the current CivilDate in the local time zone
func Today() CivilDate {
	return CivilDateOf(time.Now())
}

// ParseCivilDate parses a "YYYY-MM-DD" string
func ParseCivilDate(s string) (CivilDate, error) {
	t, err := time.ParseInLocation(civilDateLayout, s, time.Local)
	if err != nil {
		return CivilDate{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return CivilDateOf(t), nil
}

// IsZero returns true if the date is the zero value
func (d CivilDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns the date at local midnight
func (d CivilDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

// AddDays returns the date n days later (normalized by the calendar)
func (d CivilDate) AddDays(n int) CivilDate {
	return CivilDateOf(d.Time().AddDate(0, 0, n))
}

// Before reports whether d occurs before other
func (d CivilDate) Before(other CivilDate) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d occurs after other
func (d CivilDate) After(other CivilDate) bool {
	return d.Time().After(other.Time())
}

// SameMonth reports whether d falls in the given month of the given year
func (d CivilDate) SameMonth(year int, month time.Month) bool {
	return d.Year == year && d.Month == month
}

// String returns the "YYYY-MM-DD" representation
func (d CivilDate) String() string {
	return d.Time().Format(civilDateLayout)
}

// MarshalJSON implements json.Marshaler
func (d CivilDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *CivilDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = CivilDate{}
		return nil
	}
	parsed, err := ParseCivilDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer - stores the "YYYY-MM-DD" string
func (d CivilDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner
func (d *CivilDate) Scan(value interface{}) error {
	if value == nil {
		*d = CivilDate{}
		return nil
	}
	switch v := value.(type) {
	case string:
		if v == "" {
			*d = CivilDate{}
			return nil
		}
		parsed, err := ParseCivilDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	case time.Time:
		*d = CivilDateOf(v)
		return nil
	default:
		return fmt.Errorf("failed to scan CivilDate: unsupported type %T", value)
	}
}
