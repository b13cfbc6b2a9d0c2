package benefit

import "github.com/shopspring/decimal"

// =============================================================================
// RUN SUMMARY - Aggregate view for the reporter
// =============================================================================

// Bucket labels for the value-range histogram.
const (
	Bucket0to100   = "0-100"
	Bucket101to200 = "101-200"
	Bucket201to300 = "201-300"
	Bucket301Plus  = "301+"
)

// Summary aggregates a computed employee set.
type Summary struct {
	TotalEmployees    int             `json:"total_employees"`
	WithBenefits      int             `json:"employees_with_benefits"`
	WithoutBenefits   int             `json:"employees_without_benefits"`
	StatusCounts      map[Status]int  `json:"status_counts"`
	TotalBenefitValue decimal.Decimal `json:"total_benefit_value"`
	AverageValue      decimal.Decimal `json:"average_benefit_value"`
	ValueBuckets      map[string]int  `json:"value_buckets"`
	TotalCompany      decimal.Decimal `json:"total_company_value"`
	TotalEmployee     decimal.Decimal `json:"total_employee_value"`
}

// Summarize builds the aggregate summary for a computed employee set.
func Summarize(employees []*Employee) Summary {
	s := Summary{
		TotalEmployees: len(employees),
		StatusCounts:   make(map[Status]int),
		ValueBuckets: map[string]int{
			Bucket0to100:   0,
			Bucket101to200: 0,
			Bucket201to300: 0,
			Bucket301Plus:  0,
		},
	}

	withBenefits := 0
	for _, e := range employees {
		s.StatusCounts[e.Status]++
		if e.Benefit == nil {
			continue
		}
		withBenefits++
		s.TotalBenefitValue = s.TotalBenefitValue.Add(e.Benefit.TotalValue)
		s.TotalCompany = s.TotalCompany.Add(e.Benefit.CompanyValue)
		s.TotalEmployee = s.TotalEmployee.Add(e.Benefit.EmployeeValue)
		s.ValueBuckets[bucketFor(e.Benefit.TotalValue)]++
	}

	s.WithBenefits = withBenefits
	s.WithoutBenefits = len(employees) - withBenefits
	if withBenefits > 0 {
		s.AverageValue = s.TotalBenefitValue.Div(decimal.NewFromInt(int64(withBenefits))).Round(2)
	}
	return s
}

func bucketFor(total decimal.Decimal) string {
	switch {
	case total.LessThanOrEqual(decimal.NewFromInt(100)):
		return Bucket0to100
	case total.LessThanOrEqual(decimal.NewFromInt(200)):
		return Bucket101to200
	case total.LessThanOrEqual(decimal.NewFromInt(300)):
		return Bucket201to300
	default:
		return Bucket301Plus
	}
}
