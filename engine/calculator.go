/*
calculator.go - Monetary stage: effective days x daily rate, split 80/20

RATE LOOKUP:
  The union-rate table is an ordered list scanned linearly. A row matches
  when its position key is a case-insensitive substring of the employee's
  position; the first match wins, so source order is significant. No match
  falls back to the first row's value; no table at all falls back to the
  configured default rate with a warning.

CLAMPS:
  Optional business-configured floor and ceiling on the total value. When
  a clamp fires, the daily value is recomputed as total/days so the
  round-trip invariant holds, or left at zero when days is zero.
*/
package engine

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/warp/benefit-engine/benefit"
)

// =============================================================================
// CALCULATOR CONFIG - Explicit and immutable, no ambient globals
// =============================================================================

// Config carries the business knobs for the monetary stage. Construct once
// per run and treat as read-only.
type Config struct {
	CompanyPercentage  decimal.Decimal
	EmployeePercentage decimal.Decimal
	DefaultDailyRate   decimal.Decimal

	// Optional total-value clamps; nil means no clamp.
	MinTotal *decimal.Decimal
	MaxTotal *decimal.Decimal

	BenefitType benefit.BenefitType
}

// DefaultConfig returns the standard 80/20 split with a 25.00 default rate
// and no clamps.
func DefaultConfig() Config {
	return Config{
		CompanyPercentage:  decimal.NewFromInt(80),
		EmployeePercentage: decimal.NewFromInt(20),
		DefaultDailyRate:   decimal.NewFromInt(25),
		BenefitType:        benefit.TypeVR,
	}
}

// ErrPercentageSplit is returned when the configured split does not sum
// to 100.
var ErrPercentageSplit = errors.New("company and employee percentages must sum to 100")

// Validate checks that the percentages sum to 100.
func (c Config) Validate() error {
	if !c.CompanyPercentage.Add(c.EmployeePercentage).Equal(decimal.NewFromInt(100)) {
		return ErrPercentageSplit
	}
	return nil
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator produces one Benefit per eligible employee.
type Calculator struct {
	cfg Config
	ref *benefit.ReferenceData
	log zerolog.Logger
}

// NewCalculator creates the monetary stage. The reference data may be nil;
// every lookup then degrades to the default rate.
func NewCalculator(cfg Config, ref *benefit.ReferenceData, log zerolog.Logger) *Calculator {
	return &Calculator{cfg: cfg, ref: ref, log: log}
}

// Apply attaches a Benefit to every non-excluded employee. Excluded
// employees never carry a benefit; zero-day employees carry a zero-value
// one.
func (c *Calculator) Apply(employees []*benefit.Employee) {
	for _, e := range employees {
		if e.Excluded() {
			continue
		}
		e.Benefit = c.compute(e)
	}
}

func (c *Calculator) compute(e *benefit.Employee) *benefit.Benefit {
	daily := c.dailyRate(e)
	days := decimal.NewFromInt(int64(e.WorkingDays))
	total := daily.Mul(days)

	// Clamps keep total inside the configured band; daily follows so the
	// total stays reproducible from daily * days.
	clamped := false
	if c.cfg.MaxTotal != nil && total.GreaterThan(*c.cfg.MaxTotal) {
		total = *c.cfg.MaxTotal
		clamped = true
	}
	if c.cfg.MinTotal != nil && total.LessThan(*c.cfg.MinTotal) {
		total = *c.cfg.MinTotal
		clamped = true
	}
	if clamped {
		if e.WorkingDays > 0 {
			daily = total.Div(days)
		} else {
			daily = decimal.Zero
		}
	}

	hundred := decimal.NewFromInt(100)
	return &benefit.Benefit{
		Type:               c.cfg.BenefitType,
		DailyValue:         daily,
		WorkingDays:        e.WorkingDays,
		TotalValue:         total,
		CompanyPercentage:  c.cfg.CompanyPercentage,
		EmployeePercentage: c.cfg.EmployeePercentage,
		CompanyValue:       total.Mul(c.cfg.CompanyPercentage).Div(hundred),
		EmployeeValue:      total.Mul(c.cfg.EmployeePercentage).Div(hundred),
	}
}

// dailyRate resolves the daily value for an employee from the union-rate
// table, first match wins.
func (c *Calculator) dailyRate(e *benefit.Employee) decimal.Decimal {
	if c.ref == nil || !c.ref.HasRates() {
		c.log.Warn().Err(benefit.ErrNoReferenceTable).Str("id", e.ID).
			Stringer("rate", c.cfg.DefaultDailyRate).
			Msg("using default rate")
		return c.cfg.DefaultDailyRate
	}

	position := strings.ToLower(e.Position)
	for _, row := range c.ref.Rates {
		key := strings.ToLower(strings.TrimSpace(row.Position))
		if key != "" && strings.Contains(position, key) {
			return row.DailyValue
		}
	}

	// No match: the table's first row is the agreed fallback.
	return c.ref.Rates[0].DailyValue
}
