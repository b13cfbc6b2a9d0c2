package benefit

import (
	"github.com/shopspring/decimal"

	"github.com/warp/benefit-engine/calendar"
)

// =============================================================================
// REFERENCE DATA - Read-only lookup tables for one run
// =============================================================================

// RateRow is one entry of the union-rate table. Table order is significant:
// rate lookup scans rows in order and the first match wins.
type RateRow struct {
	Position   string          `json:"position"`
	DailyValue decimal.Decimal `json:"daily_value"`
}

// ReferenceData holds the lookup tables for the reference month. Owned by
// the run, never mutated.
type ReferenceData struct {
	// Rates maps position markers to daily values, in source order.
	Rates []RateRow `json:"rates,omitempty"`

	// UnionWorkingDays is the working-days-per-union calendar, when the
	// base_dias_uteis source is present.
	UnionWorkingDays map[string]int `json:"union_working_days,omitempty"`

	// Holidays for the reference month, optional.
	Holidays []calendar.Date `json:"holidays,omitempty"`
}

// HolidaySet builds the holiday set once per run.
func (rd *ReferenceData) HolidaySet() *calendar.HolidaySet {
	if rd == nil || len(rd.Holidays) == 0 {
		return nil
	}
	return calendar.NewHolidaySet(rd.Holidays)
}

// HasRates reports whether a union-rate table is available.
func (rd *ReferenceData) HasRates() bool { return rd != nil && len(rd.Rates) > 0 }
