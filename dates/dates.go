package dates

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Layout is the wire and storage format for all calendar dates.
const Layout = "2006-01-02"

// Date is a calendar date without a time-of-day component. Dispatch and
// reminder dates are plain dates, so arithmetic on them must be calendar
// arithmetic: "+10 days" walks the calendar and stays correct across
// month ends, leap years and DST transitions.
type Date struct {
	t time.Time
}

// New builds a Date from year/month/day.
func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Parse reads a YYYY-MM-DD string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// Today returns the current calendar date in the given location.
// Callers resolve "now" once at the boundary and pass the result down.
func Today(loc *time.Location) Date {
	y, m, d := time.Now().In(loc).Date()
	return New(y, m, d)
}

// AddDays returns the date n calendar days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	y, m, day := d.t.Date()
	return New(y, m, day+n)
}

func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) String() string { return d.t.Format(Layout) }

// IsToday reports whether d falls on the given reference date.
func IsToday(d, today Date) bool { return d.Equal(today) }

// IsOverdue reports whether d is strictly before the reference date.
// Whether "overdue" means anything for an already resolved item is the
// caller's call.
func IsOverdue(d, today Date) bool { return d.Before(today) }

// MarshalJSON encodes as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD".
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s: want quoted YYYY-MM-DD", s)
	}
	parsed, err := Parse(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer; stored as a SQL date.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.t, nil
}

// Scan implements sql.Scanner. Postgres hands dates back as time.Time.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		y, m, day := v.Date()
		*d = New(y, m, day)
		return nil
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into dates.Date", src)
	}
}

// GormDataType maps Date columns to the SQL date type.
func (Date) GormDataType() string { return "date" }
