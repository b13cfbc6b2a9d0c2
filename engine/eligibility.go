/*
Package engine decides who gets a benefit, for how many days, and for how
much money.

PURPOSE:
  Two stages live here. The eligibility stage (this file) classifies each
  employee as excluded / prorated / full-month and computes effective
  working days for the reference month. The calculator stage
  (calculator.go) turns effective days and a resolved daily rate into the
  monetary breakdown.

ELIGIBILITY ALGORITHM (per employee, in order):
  1. Category exclusion by position marker or overseas status; stops here
  2. Base days = working days in the reference month
  3. Admission inside the month: recount from the admission date
  4. Termination inside the month: day <= 15 means zero days (the employee
     is not paid for the month at all); later days prorate to termination
  5. Subtract the weekday overlap of the vacation interval
  6. Subtract the weekday overlap of the leave interval
  7. Clamp at zero

  Exclusion and zero-day proration are distinct outcomes: a non-excluded
  employee with zero days still yields a zero-value benefit downstream.

FAILURE SEMANTICS:
  Nothing here returns an error. A record the consolidator marked
  Degraded (unparseable date cell) computes zero working days with a
  logged warning; the batch always finishes.

SEE ALSO:
  - calendar/: the working-day counts used throughout
  - calculator.go: the monetary stage
*/
package engine

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/warp/benefit-engine/benefit"
	"github.com/warp/benefit-engine/calendar"
)

// =============================================================================
// EXCLUSION MARKERS
// =============================================================================

// exclusionMarker maps a case-insensitive position substring to the
// human-readable reason it contributes.
type exclusionMarker struct {
	substrings []string
	reason     string
}

var positionMarkers = []exclusionMarker{
	{substrings: []string{"diretor", "presidente"}, reason: "Cargo de direção"},
	{substrings: []string{"estagiário", "estagiario"}, reason: "Estagiário"},
	{substrings: []string{"aprendiz"}, reason: "Aprendiz"},
}

const overseasReason = "Funcionário no exterior"

// exclusionReason composes the reason string from every matched category,
// joined with "; ". Empty means not excluded.
func exclusionReason(e *benefit.Employee) string {
	var reasons []string
	position := strings.ToLower(e.Position)
	for _, marker := range positionMarkers {
		for _, sub := range marker.substrings {
			if strings.Contains(position, sub) {
				reasons = append(reasons, marker.reason)
				break
			}
		}
	}
	if e.Status == benefit.StatusOverseas {
		reasons = append(reasons, overseasReason)
	}
	return strings.Join(reasons, "; ")
}

// =============================================================================
// ELIGIBILITY ENGINE
// =============================================================================

// Eligibility computes effective working days per employee for a reference
// month.
type Eligibility struct {
	ref      benefit.Reference
	holidays *calendar.HolidaySet
	log      zerolog.Logger
}

// NewEligibility creates the eligibility stage for one reference month.
func NewEligibility(ref benefit.Reference, holidays *calendar.HolidaySet, log zerolog.Logger) *Eligibility {
	return &Eligibility{ref: ref, holidays: holidays, log: log}
}

// Apply runs the eligibility rules over the whole set, mutating Status,
// WorkingDays, and ExclusionReason in place.
func (el *Eligibility) Apply(employees []*benefit.Employee) {
	for _, e := range employees {
		el.applyOne(e)
	}
}

func (el *Eligibility) applyOne(e *benefit.Employee) {
	if reason := exclusionReason(e); reason != "" {
		e.Status = benefit.StatusExcluded
		e.ExclusionReason = reason
		e.WorkingDays = 0
		return
	}
	if e.Degraded {
		e.WorkingDays = 0
		el.log.Warn().Str("id", e.ID).Msg("degraded record, zero working days")
		return
	}
	e.WorkingDays = el.effectiveDays(e)
}

// effectiveDays walks steps 2-7 of the algorithm.
func (el *Eligibility) effectiveDays(e *benefit.Employee) int {
	month := el.ref.Period()
	base := calendar.WorkingDaysInMonth(el.ref.Year, el.ref.Month, el.holidays)

	// Admission inside the reference month: count from admission onward.
	if el.ref.Contains(e.AdmissionDate) {
		start := calendar.Max(e.AdmissionDate, month.Start)
		base = calendar.WorkingDaysBetween(start, month.End, el.holidays)
	}

	// Termination inside the reference month. Applied after the admission
	// adjustment and independent of it; the final clamp catches the rare
	// both-in-one-month edge.
	if el.ref.Contains(e.TerminationDate) {
		if e.TerminationDate.Day() <= 15 {
			e.WorkingDays = 0
			el.log.Debug().Str("id", e.ID).Msg("terminated on or before day 15, no payment")
			return 0
		}
		end := calendar.Min(e.TerminationDate, month.End)
		base = calendar.WorkingDaysBetween(month.Start, end, el.holidays)
	}

	if vacation, ok := e.Vacation(); ok {
		base -= el.overlapDays(vacation)
	}
	if leave, ok := e.Leave(); ok {
		base -= el.overlapDays(leave)
	}

	if base < 0 {
		base = 0
	}
	return base
}

// overlapDays counts the weekday overlap of an interval with the reference
// month.
func (el *Eligibility) overlapDays(interval calendar.Period) int {
	clamped, ok := interval.Clamp(el.ref.Period())
	if !ok {
		return 0
	}
	return calendar.WorkingDaysBetween(clamped.Start, clamped.End, el.holidays)
}
