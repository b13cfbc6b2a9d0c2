package benefit_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/benefit-engine/benefit"
	"github.com/warp/benefit-engine/calendar"
)

func date(t *testing.T, s string) calendar.Date {
	t.Helper()
	d, err := calendar.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestReference_Contains(t *testing.T) {
	ref := benefit.Reference{Month: time.January, Year: 2025}

	assert.True(t, ref.Contains(date(t, "2025-01-01")))
	assert.True(t, ref.Contains(date(t, "2025-01-31")))
	assert.False(t, ref.Contains(date(t, "2025-02-01")))
	assert.False(t, ref.Contains(date(t, "2024-01-15")))
	assert.False(t, ref.Contains(calendar.Date{}), "the zero date is in no month")
}

func TestEmployee_VacationRequiresBothEnds(t *testing.T) {
	e := &benefit.Employee{VacationStart: date(t, "2025-01-06")}
	_, ok := e.Vacation()
	assert.False(t, ok)

	e.VacationEnd = date(t, "2025-01-10")
	p, ok := e.Vacation()
	require.True(t, ok)
	assert.Equal(t, e.VacationStart, p.Start)
}

func TestEmployee_InfoWeight(t *testing.T) {
	bare := &benefit.Employee{Name: "Ana"}
	assert.Equal(t, 3, bare.InfoWeight())

	withAdmission := &benefit.Employee{Name: "Ana", AdmissionDate: date(t, "2025-01-02")}
	assert.Equal(t, 4, withAdmission.InfoWeight())
}

func TestEmployee_JSONUnsetDatesAreNull(t *testing.T) {
	e := &benefit.Employee{ID: "1", Name: "Ana", Status: benefit.StatusActive}
	b, err := json.Marshal(e)
	require.NoError(t, err)

	// Unset dates serialize as explicit null, never as a bogus zero date.
	assert.Contains(t, string(b), `"admission_date":null`)
	assert.Contains(t, string(b), `"termination_date":null`)
	assert.NotContains(t, string(b), "0001-01-01")

	var back benefit.Employee
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.AdmissionDate.IsZero())
}

func TestBenefit_Reconciles(t *testing.T) {
	b := &benefit.Benefit{
		DailyValue:  decimal.NewFromInt(25),
		WorkingDays: 22,
		TotalValue:  decimal.NewFromInt(550),
	}
	assert.True(t, b.Reconciles())

	b.TotalValue = decimal.RequireFromString("550.01")
	assert.True(t, b.Reconciles(), "a cent of rounding drift is tolerated")

	b.TotalValue = decimal.RequireFromString("550.02")
	assert.False(t, b.Reconciles())
}

func TestSummarize(t *testing.T) {
	dec := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	split := func(total string) *benefit.Benefit {
		v := dec(total)
		return &benefit.Benefit{
			TotalValue:    v,
			CompanyValue:  v.Mul(dec("0.8")),
			EmployeeValue: v.Mul(dec("0.2")),
		}
	}

	employees := []*benefit.Employee{
		{ID: "1", Status: benefit.StatusActive, Benefit: split("550")},
		{ID: "2", Status: benefit.StatusActive, Benefit: split("150")},
		{ID: "3", Status: benefit.StatusAdmitted, Benefit: split("100")},
		{ID: "4", Status: benefit.StatusExcluded},
	}

	s := benefit.Summarize(employees)

	assert.Equal(t, 4, s.TotalEmployees)
	assert.Equal(t, 3, s.WithBenefits)
	assert.Equal(t, 1, s.WithoutBenefits)
	assert.Equal(t, 2, s.StatusCounts[benefit.StatusActive])
	assert.Equal(t, 1, s.StatusCounts[benefit.StatusExcluded])

	assert.True(t, s.TotalBenefitValue.Equal(dec("800")))
	assert.True(t, s.AverageValue.Equal(dec("266.67")))
	assert.True(t, s.TotalCompany.Equal(dec("640")))
	assert.True(t, s.TotalEmployee.Equal(dec("160")))

	assert.Equal(t, 1, s.ValueBuckets[benefit.Bucket0to100], "bucket upper bounds are inclusive")
	assert.Equal(t, 1, s.ValueBuckets[benefit.Bucket101to200])
	assert.Equal(t, 0, s.ValueBuckets[benefit.Bucket201to300])
	assert.Equal(t, 1, s.ValueBuckets[benefit.Bucket301Plus])
}

func TestSummarize_Empty(t *testing.T) {
	s := benefit.Summarize(nil)
	assert.Zero(t, s.TotalEmployees)
	assert.True(t, s.AverageValue.IsZero())
	assert.Zero(t, s.ValueBuckets[benefit.Bucket301Plus])
}
