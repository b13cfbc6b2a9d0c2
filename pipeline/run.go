/*
Package pipeline sequences the full benefit run.

PURPOSE:
  Wires the stages together in the one order that is correct:

    consolidate -> validate(pre) -> eligibility -> calculator
                -> validate(post) -> summary

  and packages the outcome for the reporter. Per-employee computation has
  no cross-employee dependency; order only matters inside consolidation's
  first-seen de-duplication, which the consolidator already guarantees.

FAILURE SEMANTICS:
  A run either completes for every employee (individual records degrade,
  never abort) or fails as a whole with a RunError, and that only happens
  when a required input category is entirely missing or the configuration
  is unusable. No unhandled panic crosses this boundary.

CACHING:
  An optional read-through cache short-circuits identical runs. The key is
  a content hash of the input rows plus configuration; the value is the
  serialized RunResult. See cache.go.
*/
package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/warp/benefit-engine/benefit"
	"github.com/warp/benefit-engine/calendar"
	"github.com/warp/benefit-engine/consolidate"
	"github.com/warp/benefit-engine/engine"
	"github.com/warp/benefit-engine/validate"
)

// =============================================================================
// RUN INPUT / OUTPUT
// =============================================================================

// Request is everything a run needs: the reference month, the calculator
// configuration, the raw sources, and optional holidays.
type Request struct {
	Reference benefit.Reference
	Config    engine.Config
	Sources   benefit.Sources
	Holidays  []calendar.Date
}

// RunResult is the complete outcome handed to the reporter.
type RunResult struct {
	RunID      string              `json:"run_id"`
	Reference  benefit.Reference   `json:"reference"`
	Employees  []*benefit.Employee `json:"employees"`
	Validation *validate.Result    `json:"validation"`
	Summary    benefit.Summary     `json:"summary"`
	FromCache  bool                `json:"from_cache,omitempty"`
}

// RunError is the structured failure a run returns for systemic problems.
type RunError struct {
	Stage   string
	Message string
	Err     error
}

func (e *RunError) Error() string {
	if e.Err != nil {
		return e.Stage + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Stage + ": " + e.Message
}

func (e *RunError) Unwrap() error { return e.Err }

// =============================================================================
// RUNNER
// =============================================================================

// Runner executes benefit runs. Safe for reuse across runs; holds no
// per-run state.
type Runner struct {
	cache Cache
	log   zerolog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithCache attaches a read-through result cache. Expiry is the cache
// implementation's concern.
func WithCache(cache Cache) Option {
	return func(r *Runner) {
		r.cache = cache
	}
}

// NewRunner creates a runner logging through the given logger.
func NewRunner(log zerolog.Logger, opts ...Option) *Runner {
	r := &Runner{log: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the full pipeline for one request.
func (r *Runner) Run(req Request) (*RunResult, error) {
	if req.Reference.Month < time.January || req.Reference.Month > time.December {
		return nil, &RunError{Stage: "input", Message: "reference month out of range", Err: benefit.ErrInvalidReference}
	}
	if err := req.Config.Validate(); err != nil {
		return nil, &RunError{Stage: "config", Message: "invalid calculator configuration", Err: err}
	}

	if cached, ok := r.lookupCache(req); ok {
		return cached, nil
	}

	started := time.Now()
	result, err := r.execute(req)
	if err != nil {
		return nil, err
	}

	r.log.Info().
		Str("run_id", result.RunID).
		Int("employees", len(result.Employees)).
		Int("errors", len(result.Validation.Errors)).
		Int("warnings", len(result.Validation.Warnings)).
		Dur("elapsed", time.Since(started)).
		Msg("benefit run complete")

	r.storeCache(req, result)
	return result, nil
}

func (r *Runner) execute(req Request) (*RunResult, error) {
	validation := validate.PreConsolidation(req.Sources)

	consolidator := consolidate.New(r.log)
	employees, consolidationFindings, err := consolidator.Consolidate(req.Sources)
	if err != nil {
		return nil, &RunError{Stage: "consolidate", Message: "consolidation failed", Err: err}
	}
	validation.Merge(consolidationFindings)

	refData := consolidator.BuildReferenceData(req.Sources, req.Holidays, validation)

	eligibility := engine.NewEligibility(req.Reference, refData.HolidaySet(), r.log)
	eligibility.Apply(employees)

	calculator := engine.NewCalculator(req.Config, refData, r.log)
	calculator.Apply(employees)

	validation.Merge(validate.PostCalculation(employees))

	return &RunResult{
		RunID:      uuid.NewString(),
		Reference:  req.Reference,
		Employees:  employees,
		Validation: validation,
		Summary:    benefit.Summarize(employees),
	}, nil
}
