/*
post.go - Invariant checks on the computed employee set

CHECKS PER EMPLOYEE:
  working_days >= 0                          error
  working_days > 31                          warning
  benefit total_value >= 0, daily_value >= 0 error
  |total - daily*days| <= 0.01               warning (never blocks a report)
  company + employee reconciles to total     warning
  excluded employee carrying a benefit       error
  admission after termination                error
*/
package validate

import (
	"github.com/shopspring/decimal"

	"github.com/warp/benefit-engine/benefit"
)

func decimalFromInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

// PostCalculation checks every computed employee. Findings accumulate; the
// pipeline is never aborted from here.
func PostCalculation(employees []*benefit.Employee) *Result {
	result := &Result{}
	for _, e := range employees {
		validateEmployee(result, e)
	}
	return result
}

func validateEmployee(result *Result, e *benefit.Employee) {
	if e.WorkingDays < 0 {
		result.AddError(Location{}, "dias úteis negativos para %s: %d", e.ID, e.WorkingDays)
	} else if e.WorkingDays > 31 {
		result.AddWarning(Location{}, "dias úteis muito altos para %s: %d", e.ID, e.WorkingDays)
	}

	if !e.AdmissionDate.IsZero() && !e.TerminationDate.IsZero() &&
		e.AdmissionDate.After(e.TerminationDate) {
		result.AddError(Location{}, "data de admissão posterior ao desligamento: %s", e.ID)
	}

	if e.Excluded() && e.Benefit != nil {
		result.AddError(Location{}, "funcionário excluído com benefício atribuído: %s", e.ID)
	}

	b := e.Benefit
	if b == nil {
		return
	}

	if b.TotalValue.IsNegative() {
		result.AddError(Location{}, "valor total negativo para %s: %s", e.ID, b.TotalValue)
	}
	if b.DailyValue.IsNegative() {
		result.AddError(Location{}, "valor diário negativo para %s: %s", e.ID, b.DailyValue)
	}
	if !b.Reconciles() {
		result.AddWarning(
			Location{},
			"inconsistência no cálculo para %s: esperado %s, calculado %s",
			e.ID, b.DailyValue.Mul(decimalFromInt(b.WorkingDays)), b.TotalValue,
		)
	}
	if !b.SplitReconciles() {
		result.AddWarning(
			Location{},
			"divisão empresa/funcionário não fecha para %s: %s + %s != %s",
			e.ID, b.CompanyValue, b.EmployeeValue, b.TotalValue,
		)
	}
}
