/*
Package validate checks structural and cross-record invariants around the
benefit computation.

PURPOSE:
  Two validation passes bracket the engine: a pre-consolidation pass over
  the raw category rows, and a post-calculation pass over the computed
  employee set. Neither pass ever aborts the pipeline; findings accumulate
  into a Result the caller may block on.

KEY CONCEPTS IN THIS FILE (result.go):
  - Finding: one error or warning with severity and source location
  - Result: the accumulated findings; Valid() iff no errors

SEE ALSO:
  - pre.go: structural checks on raw rows
  - post.go: invariant checks on computed employees
*/
package validate

import "fmt"

// Severity of a validation finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Location points at the source of a finding. Row is 1-based; zero values
// mean "not applicable".
type Location struct {
	File   string `json:"file,omitempty"`
	Row    int    `json:"row,omitempty"`
	Column string `json:"column,omitempty"`
}

func (l Location) String() string {
	if l.File == "" {
		return ""
	}
	s := l.File
	if l.Row > 0 {
		s = fmt.Sprintf("%s:%d", s, l.Row)
	}
	if l.Column != "" {
		s = s + " [" + l.Column + "]"
	}
	return s
}

// Finding is one validation outcome.
type Finding struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Location Location `json:"location,omitempty"`
}

func (f Finding) String() string {
	if loc := f.Location.String(); loc != "" {
		return fmt.Sprintf("%s: %s (%s)", f.Severity, f.Message, loc)
	}
	return fmt.Sprintf("%s: %s", f.Severity, f.Message)
}

// Result accumulates findings. The zero value is a valid, empty result.
type Result struct {
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
}

// Valid reports whether no blocking errors were found. Warnings never
// invalidate a result.
func (r *Result) Valid() bool { return len(r.Errors) == 0 }

// AddError records a blocking finding.
func (r *Result) AddError(loc Location, format string, args ...any) {
	r.Errors = append(r.Errors, Finding{
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	})
}

// AddWarning records a non-blocking finding.
func (r *Result) AddWarning(loc Location, format string, args ...any) {
	r.Warnings = append(r.Warnings, Finding{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	})
}

// Merge folds another result into this one.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}
