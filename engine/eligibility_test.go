package engine_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/warp/benefit-engine/benefit"
	"github.com/warp/benefit-engine/calendar"
	"github.com/warp/benefit-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) calendar.Date {
	return calendar.NewDate(year, month, day)
}

func january2025() benefit.Reference {
	return benefit.Reference{Month: time.January, Year: 2025}
}

func applyOne(t *testing.T, ref benefit.Reference, e *benefit.Employee) {
	t.Helper()
	el := engine.NewEligibility(ref, nil, zerolog.Nop())
	el.Apply([]*benefit.Employee{e})
}

// =============================================================================
// CATEGORY EXCLUSION
// =============================================================================

func TestEligibility_DirectorAlwaysExcluded(t *testing.T) {
	// GIVEN: an employee whose position marks a directorship
	// WHEN: eligibility runs for any reference month
	// THEN: the employee is excluded with a reason naming "direção"

	e := &benefit.Employee{
		ID:            "emp-1",
		Name:          "Ana",
		Position:      "Diretor Financeiro",
		Status:        benefit.StatusActive,
		AdmissionDate: date(2020, time.March, 1),
	}
	applyOne(t, january2025(), e)

	if e.Status != benefit.StatusExcluded {
		t.Fatalf("expected excluded, got %s", e.Status)
	}
	if e.WorkingDays != 0 {
		t.Errorf("excluded employee must have 0 days, got %d", e.WorkingDays)
	}
	if want := "Cargo de direção"; e.ExclusionReason != want {
		t.Errorf("expected reason %q, got %q", want, e.ExclusionReason)
	}
}

func TestEligibility_ExclusionReasons(t *testing.T) {
	tests := []struct {
		name     string
		position string
		status   benefit.Status
		want     string
	}{
		{"president", "Vice-Presidente de Operações", benefit.StatusActive, "Cargo de direção"},
		{"intern accented", "Estagiário de TI", benefit.StatusActive, "Estagiário"},
		{"intern unaccented", "ESTAGIARIO", benefit.StatusActive, "Estagiário"},
		{"apprentice", "Jovem Aprendiz", benefit.StatusActive, "Aprendiz"},
		{"overseas", "Analista", benefit.StatusOverseas, "Funcionário no exterior"},
		{"director overseas combines", "Diretor Comercial", benefit.StatusOverseas, "Cargo de direção; Funcionário no exterior"},
		{"case insensitive", "dIrEtOr", benefit.StatusActive, "Cargo de direção"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &benefit.Employee{ID: "x", Position: tt.position, Status: tt.status}
			applyOne(t, january2025(), e)
			if e.Status != benefit.StatusExcluded {
				t.Fatalf("expected excluded, got %s", e.Status)
			}
			if e.ExclusionReason != tt.want {
				t.Errorf("expected reason %q, got %q", tt.want, e.ExclusionReason)
			}
		})
	}
}

func TestEligibility_RegularPositionNotExcluded(t *testing.T) {
	e := &benefit.Employee{ID: "x", Position: "Analista de Sistemas", Status: benefit.StatusActive}
	applyOne(t, january2025(), e)
	if e.Excluded() {
		t.Fatalf("regular position must not be excluded: %q", e.ExclusionReason)
	}
	if e.WorkingDays != 23 {
		t.Errorf("expected full January 2025 (23 days), got %d", e.WorkingDays)
	}
}

// =============================================================================
// PRORATION
// =============================================================================

func TestEligibility_AdmissionMidMonth(t *testing.T) {
	// GIVEN: admission on 2025-01-20, no other adjustments
	// THEN: days equal the weekday count from Jan 20 to Jan 31 inclusive

	e := &benefit.Employee{
		ID:            "emp-adm",
		Position:      "Analista",
		Status:        benefit.StatusAdmitted,
		AdmissionDate: date(2025, time.January, 20),
	}
	applyOne(t, january2025(), e)

	want := calendar.WorkingDaysBetween(date(2025, time.January, 20), date(2025, time.January, 31), nil)
	if e.WorkingDays != want {
		t.Errorf("expected %d days, got %d", want, e.WorkingDays)
	}
	if want != 10 {
		t.Fatalf("sanity: Jan 20-31 2025 should hold 10 weekdays, got %d", want)
	}
}

func TestEligibility_AdmissionOutsideMonthIgnored(t *testing.T) {
	e := &benefit.Employee{
		ID:            "emp-old",
		Position:      "Analista",
		Status:        benefit.StatusActive,
		AdmissionDate: date(2023, time.June, 12),
	}
	applyOne(t, january2025(), e)
	if e.WorkingDays != 23 {
		t.Errorf("old admission must not prorate: got %d", e.WorkingDays)
	}
}

func TestEligibility_TerminationDay15Boundary(t *testing.T) {
	// The day-15 rule is a hard business rule, not a proration:
	// terminated on or before the 15th yields zero days for the month.

	tests := []struct {
		name string
		day  int
		want int
	}{
		{"terminated on the 15th", 15, 0},
		{"terminated on the 1st", 1, 0},
		{"terminated on the 16th", 16, calendar.WorkingDaysBetween(date(2025, time.January, 1), date(2025, time.January, 16), nil)},
		{"terminated on the 31st", 31, 23},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &benefit.Employee{
				ID:              "emp-term",
				Position:        "Analista",
				Status:          benefit.StatusTerminated,
				AdmissionDate:   date(2020, time.February, 3),
				TerminationDate: date(2025, time.January, tt.day),
			}
			applyOne(t, january2025(), e)
			if e.WorkingDays != tt.want {
				t.Errorf("day %d: expected %d days, got %d", tt.day, tt.want, e.WorkingDays)
			}
			if e.Excluded() {
				t.Error("termination must not set Excluded status")
			}
		})
	}
}

func TestEligibility_TerminationOutsideMonthIgnored(t *testing.T) {
	e := &benefit.Employee{
		ID:              "emp-feb",
		Position:        "Analista",
		Status:          benefit.StatusTerminated,
		TerminationDate: date(2025, time.February, 10),
	}
	applyOne(t, january2025(), e)
	if e.WorkingDays != 23 {
		t.Errorf("future termination must not prorate: got %d", e.WorkingDays)
	}
}

func TestEligibility_VacationOverlapSubtracted(t *testing.T) {
	// GIVEN: vacation Jan 6-17 (10 weekdays) inside a 23-day month
	e := &benefit.Employee{
		ID:            "emp-vac",
		Position:      "Analista",
		Status:        benefit.StatusActive,
		VacationStart: date(2025, time.January, 6),
		VacationEnd:   date(2025, time.January, 17),
	}
	applyOne(t, january2025(), e)
	if e.WorkingDays != 13 {
		t.Errorf("expected 23-10=13 days, got %d", e.WorkingDays)
	}
}

func TestEligibility_VacationSpanningMonthEdge(t *testing.T) {
	// Only the overlap with the reference month is subtracted.
	e := &benefit.Employee{
		ID:            "emp-vac2",
		Position:      "Analista",
		Status:        benefit.StatusActive,
		VacationStart: date(2024, time.December, 23),
		VacationEnd:   date(2025, time.January, 3),
	}
	applyOne(t, january2025(), e)

	overlap := calendar.WorkingDaysBetween(date(2025, time.January, 1), date(2025, time.January, 3), nil)
	if e.WorkingDays != 23-overlap {
		t.Errorf("expected %d days, got %d", 23-overlap, e.WorkingDays)
	}
}

func TestEligibility_LeaveSubtractedLikeVacation(t *testing.T) {
	e := &benefit.Employee{
		ID:         "emp-leave",
		Position:   "Analista",
		Status:     benefit.StatusActive,
		LeaveStart: date(2025, time.January, 13),
		LeaveEnd:   date(2025, time.January, 24),
	}
	applyOne(t, january2025(), e)
	if e.WorkingDays != 13 {
		t.Errorf("expected 13 days, got %d", e.WorkingDays)
	}
}

func TestEligibility_ClampAtZero(t *testing.T) {
	// Vacation and leave together exceed the month; days clamp at 0 and
	// the employee stays non-excluded.
	e := &benefit.Employee{
		ID:            "emp-zero",
		Position:      "Analista",
		Status:        benefit.StatusActive,
		VacationStart: date(2025, time.January, 1),
		VacationEnd:   date(2025, time.January, 31),
		LeaveStart:    date(2025, time.January, 1),
		LeaveEnd:      date(2025, time.January, 31),
	}
	applyOne(t, january2025(), e)
	if e.WorkingDays != 0 {
		t.Errorf("expected clamp to 0, got %d", e.WorkingDays)
	}
	if e.Excluded() {
		t.Error("zero days must not flip status to Excluded")
	}
}

func TestEligibility_AdmissionAndTerminationSameMonth(t *testing.T) {
	// Both adjustments apply; termination after the 15th prorates from the
	// start of the month, the final clamp keeps the result non-negative.
	e := &benefit.Employee{
		ID:              "emp-both",
		Position:        "Analista",
		Status:          benefit.StatusAdmitted,
		AdmissionDate:   date(2025, time.January, 6),
		TerminationDate: date(2025, time.January, 24),
	}
	applyOne(t, january2025(), e)
	want := calendar.WorkingDaysBetween(date(2025, time.January, 1), date(2025, time.January, 24), nil)
	if e.WorkingDays != want {
		t.Errorf("expected %d days, got %d", want, e.WorkingDays)
	}
}

func TestEligibility_DegradedRecordZeroDays(t *testing.T) {
	// GIVEN: a record the consolidator degraded over an unparseable date
	// THEN: zero working days, not a full month, and no exclusion

	e := &benefit.Employee{
		ID:       "emp-deg",
		Position: "Analista",
		Status:   benefit.StatusActive,
		Degraded: true,
	}
	applyOne(t, january2025(), e)
	if e.WorkingDays != 0 {
		t.Errorf("degraded record must compute 0 days, got %d", e.WorkingDays)
	}
	if e.Excluded() {
		t.Error("degradation must not flip status to Excluded")
	}
}

func TestEligibility_HolidaysReduceBase(t *testing.T) {
	hols := calendar.NewHolidaySet([]calendar.Date{date(2025, time.January, 1)})
	el := engine.NewEligibility(january2025(), hols, zerolog.Nop())
	e := &benefit.Employee{ID: "emp-hol", Position: "Analista", Status: benefit.StatusActive}
	el.Apply([]*benefit.Employee{e})
	if e.WorkingDays != 22 {
		t.Errorf("expected 22 days with New Year holiday, got %d", e.WorkingDays)
	}
}
