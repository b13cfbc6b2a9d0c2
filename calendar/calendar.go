/*
Package calendar provides working-day arithmetic for benefit proration.

PURPOSE:
  Everything in the benefit engine that touches dates goes through this
  package: month boundaries, closed-interval weekday counts, and holiday
  handling. All functions are pure; malformed inputs are the caller's
  problem, never a panic or an error here.

KEY CONCEPTS:
  - Date: a day-granularity point in time (UTC, midnight)
  - Period: a closed [Start, End] interval of Dates
  - HolidaySet: set membership for holiday dates

WORKING DAY RULES:
  A working day is Monday through Friday. Two counting modes exist and
  they treat holidays differently on purpose:

  WorkingDaysInMonth:  weekdays in the month, minus holidays that are
                       themselves weekdays (a weekend holiday must not
                       be subtracted twice).
  WorkingDaysBetween:  weekdays in the closed interval, skipping any
                       holiday in range regardless of its weekday.

SEE ALSO:
  - engine/eligibility.go: the only heavy consumer of these counts
*/
package calendar

import "time"

// =============================================================================
// DATE - Day-granularity point in time
// =============================================================================

// Date is a calendar day. The zero value is "no date".
type Date struct {
	t time.Time
}

// NewDate constructs a Date at day granularity in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// Comparison
func (d Date) Before(o Date) bool        { return d.t.Before(o.t) }
func (d Date) After(o Date) bool         { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool         { return d.t.Equal(o.t) }
func (d Date) BeforeOrEqual(o Date) bool { return !d.After(o) }
func (d Date) AfterOrEqual(o Date) bool  { return !d.Before(o) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) IsWeekday() bool { return !d.IsWeekend() }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// MarshalJSON renders the date as "YYYY-MM-DD"; the zero date as null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD", null, or the empty string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Min returns the earlier of two dates.
func Min(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

// Max returns the later of two dates.
func Max(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// =============================================================================
// MONTH BOUNDARIES
// =============================================================================

// StartOfMonth returns the first day of the month.
func StartOfMonth(year int, month time.Month) Date {
	return NewDate(year, month, 1)
}

// EndOfMonth returns the last day of the month.
func EndOfMonth(year int, month time.Month) Date {
	first := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	return Date{t: first.AddDate(0, 0, -1)}
}

// SameMonth reports whether the date falls in the given reference month.
func SameMonth(d Date, year int, month time.Month) bool {
	return d.Year() == year && d.Month() == month
}

// =============================================================================
// PERIOD - Closed [Start, End] interval
// =============================================================================

type Period struct {
	Start Date
	End   Date
}

// MonthPeriod returns the full calendar month as a period.
func MonthPeriod(year int, month time.Month) Period {
	return Period{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// Contains reports whether the date lies in [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// IsValid reports whether Start <= End and both ends are set.
func (p Period) IsValid() bool {
	return !p.Start.IsZero() && !p.End.IsZero() && p.Start.BeforeOrEqual(p.End)
}

// Clamp intersects the period with bounds. The second return is false when
// the intersection is empty.
func (p Period) Clamp(bounds Period) (Period, bool) {
	clamped := Period{Start: Max(p.Start, bounds.Start), End: Min(p.End, bounds.End)}
	if clamped.Start.After(clamped.End) {
		return Period{}, false
	}
	return clamped, true
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// HOLIDAY SET
// =============================================================================

// HolidaySet answers membership queries for holiday dates.
type HolidaySet struct {
	days map[Date]struct{}
}

// NewHolidaySet builds a set from a list of dates. Zero dates are ignored.
func NewHolidaySet(dates []Date) *HolidaySet {
	hs := &HolidaySet{days: make(map[Date]struct{}, len(dates))}
	for _, d := range dates {
		if !d.IsZero() {
			hs.days[d] = struct{}{}
		}
	}
	return hs
}

// Contains reports whether the date is a holiday. A nil set has no holidays.
func (hs *HolidaySet) Contains(d Date) bool {
	if hs == nil {
		return false
	}
	_, ok := hs.days[d]
	return ok
}

// InMonth returns the holidays falling in the given month.
func (hs *HolidaySet) InMonth(year int, month time.Month) []Date {
	if hs == nil {
		return nil
	}
	var out []Date
	for d := range hs.days {
		if SameMonth(d, year, month) {
			out = append(out, d)
		}
	}
	return out
}

// =============================================================================
// WORKING DAY COUNTS
// =============================================================================

// WorkingDaysInMonth counts Monday-Friday days in the calendar month, then
// subtracts holidays that fall in the month AND on a weekday. Weekend
// holidays are ignored so they are never subtracted twice.
func WorkingDaysInMonth(year int, month time.Month, holidays *HolidaySet) int {
	period := MonthPeriod(year, month)
	count := 0
	for d := period.Start; d.BeforeOrEqual(period.End); d = d.AddDays(1) {
		if d.IsWeekday() {
			count++
		}
	}
	for _, h := range holidays.InMonth(year, month) {
		if h.IsWeekday() {
			count--
		}
	}
	return count
}

// WorkingDaysBetween counts weekdays in the closed interval [start, end],
// excluding any holiday in range. Returns 0 when start > end.
func WorkingDaysBetween(start, end Date, holidays *HolidaySet) int {
	if start.After(end) {
		return 0
	}
	count := 0
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		if d.IsWeekday() && !holidays.Contains(d) {
			count++
		}
	}
	return count
}
