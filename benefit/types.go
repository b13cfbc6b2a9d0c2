/*
Package benefit defines the domain model for monthly VR/VA entitlements.

PURPOSE:
  This package holds the types the whole engine talks about: employees as
  consolidated from the category sources, the computed benefit attached to
  an employee for one reference month, and the reference lookup tables.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: one record per unique ID in the consolidated set
  - Status: where the employee stands for the reference month
  - Benefit: the monetary breakdown owned by exactly one employee
  - Reference: the (month, year) pair everything is computed for

DESIGN PRINCIPLES:
  1. Precision: money is decimal.Decimal, never float64
  2. Ownership: an Employee carries at most one Benefit per run
  3. Exclusion and zero days are distinct states: an excluded employee has
     no benefit; a non-excluded employee with zero days has a zero-value one

SEE ALSO:
  - reference.go: rate tables and per-union calendars
  - engine/: mutates Status, WorkingDays, ExclusionReason, Benefit
*/
package benefit

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/benefit-engine/calendar"
)

// =============================================================================
// REFERENCE MONTH
// =============================================================================

// Reference is the (month, year) pair a run computes for.
type Reference struct {
	Month time.Month `json:"month"`
	Year  int        `json:"year"`
}

// Period returns the full calendar month as a closed interval.
func (r Reference) Period() calendar.Period {
	return calendar.MonthPeriod(r.Year, r.Month)
}

// Contains reports whether the date falls in the reference month.
func (r Reference) Contains(d calendar.Date) bool {
	return !d.IsZero() && calendar.SameMonth(d, r.Year, r.Month)
}

// =============================================================================
// EMPLOYEE STATUS
// =============================================================================

type Status string

const (
	StatusActive     Status = "ATIVO"
	StatusAdmitted   Status = "ADMISSAO"
	StatusTerminated Status = "DESLIGADO"
	StatusOverseas   Status = "EXTERIOR"
	StatusExcluded   Status = "EXCLUIDO"
)

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee is one consolidated employee record for a run. Created by the
// consolidator, mutated by the eligibility engine (Status, WorkingDays,
// ExclusionReason) and the calculator (Benefit), read-only afterwards.
type Employee struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Union    string `json:"union,omitempty"`
	Status   Status `json:"status"`

	AdmissionDate   calendar.Date `json:"admission_date"`
	TerminationDate calendar.Date `json:"termination_date"`

	VacationStart calendar.Date `json:"vacation_start"`
	VacationEnd   calendar.Date `json:"vacation_end"`
	LeaveStart    calendar.Date `json:"leave_start"`
	LeaveEnd      calendar.Date `json:"leave_end"`

	// Degraded marks a record that carried an unparseable date cell.
	// A degraded record always computes zero working days.
	Degraded bool `json:"degraded,omitempty"`

	WorkingDays     int      `json:"working_days"`
	ExclusionReason string   `json:"exclusion_reason,omitempty"`
	Benefit         *Benefit `json:"benefit,omitempty"`
}

// Vacation returns the vacation interval, false when not set.
func (e *Employee) Vacation() (calendar.Period, bool) {
	p := calendar.Period{Start: e.VacationStart, End: e.VacationEnd}
	return p, p.IsValid()
}

// Leave returns the leave interval, false when not set.
func (e *Employee) Leave() (calendar.Period, bool) {
	p := calendar.Period{Start: e.LeaveStart, End: e.LeaveEnd}
	return p, p.IsValid()
}

// Excluded reports whether the employee was ruled out of the benefit.
func (e *Employee) Excluded() bool { return e.Status == StatusExcluded }

// InfoWeight scores how populated a record is. Used by consolidation
// de-duplication: more informative records win between non-active ones.
func (e *Employee) InfoWeight() int {
	w := len(e.Name)
	if !e.AdmissionDate.IsZero() {
		w++
	}
	return w
}

// =============================================================================
// BENEFIT - Monetary breakdown for one employee, one reference month
// =============================================================================

type BenefitType string

const (
	TypeVR BenefitType = "vale_refeicao"
	TypeVA BenefitType = "vale_alimentacao"
)

// Benefit carries the monetary result. Invariant: TotalValue reproduces
// DailyValue * WorkingDays within 0.01, and CompanyValue + EmployeeValue
// reconciles to TotalValue within the same tolerance.
type Benefit struct {
	Type               BenefitType     `json:"type"`
	DailyValue         decimal.Decimal `json:"daily_value"`
	WorkingDays        int             `json:"working_days"`
	TotalValue         decimal.Decimal `json:"total_value"`
	CompanyPercentage  decimal.Decimal `json:"company_percentage"`
	EmployeePercentage decimal.Decimal `json:"employee_percentage"`
	CompanyValue       decimal.Decimal `json:"company_value"`
	EmployeeValue      decimal.Decimal `json:"employee_value"`
}

// Tolerance is the currency rounding tolerance for reconciliation checks.
var Tolerance = decimal.NewFromFloat(0.01)

// Reconciles reports whether TotalValue matches DailyValue * WorkingDays
// within Tolerance.
func (b *Benefit) Reconciles() bool {
	expected := b.DailyValue.Mul(decimal.NewFromInt(int64(b.WorkingDays)))
	return b.TotalValue.Sub(expected).Abs().LessThanOrEqual(Tolerance)
}

// SplitReconciles reports whether the company/employee shares sum back to
// the total within Tolerance.
func (b *Benefit) SplitReconciles() bool {
	return b.CompanyValue.Add(b.EmployeeValue).Sub(b.TotalValue).Abs().LessThanOrEqual(Tolerance)
}
