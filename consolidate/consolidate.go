/*
Package consolidate merges the category-tagged sources into one
de-duplicated employee set.

PURPOSE:
  Three identity sources (ativos, admissao, desligados) each describe a
  slice of the workforce; the same person can appear in up to all three.
  Five enrichment sources (ferias, afastamentos, estagio, aprendiz,
  exterior) attach windows and overrides by ID. This package owns the
  merge and priority policy the eligibility engine depends on.

DE-DUPLICATION POLICY:
  A deterministic first-seen fold over the concatenated identity sources:
  - an Active record is never displaced
  - a new Active record displaces any non-Active one
  - between non-Active records, strictly more populated information wins
    (len(name) + 1 if the admission date is set)
  - ties keep the first-seen record

ENRICHMENT ORDER:
  ferias, afastamentos, estagio, aprendiz, exterior. The sources write
  disjoint fields; when an ID shows up in more than one exception list,
  the later source wins on a conflicting field.

FAILURE SEMANTICS:
  A missing ativos source is fatal (ErrMissingCategory). Everything else
  degrades: absent categories and unparseable cells become warnings on
  the returned validation result, never an abort. A record with an
  unparseable date cell is marked Degraded; the eligibility engine
  computes zero working days for it.

SEE ALSO:
  - validate/pre.go: structural checks run before this merge
  - engine/: consumes the consolidated snapshot
*/
package consolidate

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/warp/benefit-engine/benefit"
	"github.com/warp/benefit-engine/calendar"
	"github.com/warp/benefit-engine/validate"
)

// Consolidator builds employee snapshots from raw sources.
type Consolidator struct {
	log zerolog.Logger
}

// New creates a consolidator logging through the given logger.
func New(log zerolog.Logger) *Consolidator {
	return &Consolidator{log: log}
}

// =============================================================================
// CONSOLIDATION
// =============================================================================

// Consolidate merges the identity sources, applies the enrichment sources,
// and returns the de-duplicated snapshot in first-seen order plus the
// record-level findings gathered along the way.
func (c *Consolidator) Consolidate(sources benefit.Sources) ([]*benefit.Employee, *validate.Result, error) {
	if !sources.Has(benefit.CategoryActive) {
		return nil, nil, &benefit.MissingCategoryError{Category: benefit.CategoryActive}
	}

	result := &validate.Result{}

	var raw []*benefit.Employee
	raw = append(raw, c.fromIdentitySource(sources, benefit.CategoryActive, benefit.StatusActive, result)...)
	raw = append(raw, c.fromIdentitySource(sources, benefit.CategoryAdmission, benefit.StatusAdmitted, result)...)
	raw = append(raw, c.fromIdentitySource(sources, benefit.CategoryTermination, benefit.StatusTerminated, result)...)

	employees := dedupe(raw)

	c.applyVacations(employees, sources, result)
	c.applyLeaves(employees, sources, result)
	c.applyPositionOverride(employees, sources, benefit.CategoryIntern, "ESTAGIÁRIO")
	c.applyPositionOverride(employees, sources, benefit.CategoryApprentice, "APRENDIZ")
	c.applyOverseas(employees, sources)

	c.log.Info().
		Int("raw", len(raw)).
		Int("unique", len(employees)).
		Msg("consolidation complete")

	return employees, result, nil
}

func (c *Consolidator) fromIdentitySource(
	sources benefit.Sources,
	category benefit.Category,
	status benefit.Status,
	result *validate.Result,
) []*benefit.Employee {
	rows, ok := sources[category]
	if !ok {
		result.AddWarning(validate.Location{File: string(category)}, "categoria ausente")
		return nil
	}

	employees := make([]*benefit.Employee, 0, len(rows))
	for i, row := range rows {
		id := strings.TrimSpace(row[benefit.ColID])
		if id == "" {
			result.AddWarning(
				validate.Location{File: string(category), Row: i + 1, Column: benefit.ColID},
				"linha sem ID ignorada",
			)
			continue
		}
		e := &benefit.Employee{
			ID:       id,
			Name:     strings.TrimSpace(row[benefit.ColName]),
			Position: strings.TrimSpace(row[benefit.ColPosition]),
			Union:    strings.TrimSpace(row[benefit.ColUnion]),
			Status:   status,
		}
		e.AdmissionDate = c.parseDate(row, benefit.ColAdmissionDate, string(category), i+1, result, e)
		e.TerminationDate = c.parseDate(row, benefit.ColTerminationDate, string(category), i+1, result, e)
		employees = append(employees, e)
	}
	return employees
}

// parseDate turns an unparseable cell into the zero date with a warning
// and marks the employee degraded.
func (c *Consolidator) parseDate(
	row benefit.Row,
	col, file string,
	rowNum int,
	result *validate.Result,
	e *benefit.Employee,
) calendar.Date {
	value := strings.TrimSpace(row[col])
	if value == "" {
		return calendar.Date{}
	}
	d, err := calendar.ParseDate(value)
	if err != nil {
		e.Degraded = true
		c.log.Warn().Str("file", file).Int("row", rowNum).Str("column", col).
			Str("value", value).Msg("unparseable date, record degraded")
		result.AddWarning(
			validate.Location{File: file, Row: rowNum, Column: col},
			"data inválida %q, registro degradado", value,
		)
		return calendar.Date{}
	}
	return d
}

// =============================================================================
// DE-DUPLICATION
// =============================================================================

// dedupe is an order-preserving first-seen fold keyed by ID.
func dedupe(raw []*benefit.Employee) []*benefit.Employee {
	byID := make(map[string]*benefit.Employee, len(raw))
	var order []string

	for _, e := range raw {
		existing, seen := byID[e.ID]
		if !seen {
			byID[e.ID] = e
			order = append(order, e.ID)
			continue
		}
		if shouldReplace(existing, e) {
			byID[e.ID] = merge(existing, e)
		} else {
			byID[e.ID] = merge(e, existing)
		}
	}

	out := make([]*benefit.Employee, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}

// shouldReplace decides whether the newer record wins over the existing
// one. An Active record is never displaced.
func shouldReplace(existing, newer *benefit.Employee) bool {
	if existing.Status == benefit.StatusActive {
		return false
	}
	if newer.Status == benefit.StatusActive {
		return true
	}
	return newer.InfoWeight() > existing.InfoWeight()
}

// merge keeps the winner's identity fields and backfills dates the loser
// carried but the winner did not. This is how an ativos row learns its
// termination date from the desligados row of the same person.
func merge(loser, winner *benefit.Employee) *benefit.Employee {
	if winner.AdmissionDate.IsZero() {
		winner.AdmissionDate = loser.AdmissionDate
	}
	if winner.TerminationDate.IsZero() {
		winner.TerminationDate = loser.TerminationDate
	}
	if winner.Name == "" {
		winner.Name = loser.Name
	}
	if winner.Position == "" {
		winner.Position = loser.Position
	}
	if winner.Union == "" {
		winner.Union = loser.Union
	}
	winner.Degraded = winner.Degraded || loser.Degraded
	return winner
}

// =============================================================================
// ENRICHMENT PASSES
// =============================================================================

func index(employees []*benefit.Employee) map[string]*benefit.Employee {
	m := make(map[string]*benefit.Employee, len(employees))
	for _, e := range employees {
		m[e.ID] = e
	}
	return m
}

func (c *Consolidator) applyVacations(employees []*benefit.Employee, sources benefit.Sources, result *validate.Result) {
	rows, ok := sources[benefit.CategoryVacation]
	if !ok {
		return
	}
	byID := index(employees)
	for i, row := range rows {
		e, ok := byID[strings.TrimSpace(row[benefit.ColID])]
		if !ok {
			continue
		}
		e.VacationStart = c.parseDate(row, benefit.ColVacationStart, string(benefit.CategoryVacation), i+1, result, e)
		e.VacationEnd = c.parseDate(row, benefit.ColVacationEnd, string(benefit.CategoryVacation), i+1, result, e)
	}
}

func (c *Consolidator) applyLeaves(employees []*benefit.Employee, sources benefit.Sources, result *validate.Result) {
	rows, ok := sources[benefit.CategoryLeave]
	if !ok {
		return
	}
	byID := index(employees)
	for i, row := range rows {
		e, ok := byID[strings.TrimSpace(row[benefit.ColID])]
		if !ok {
			continue
		}
		e.LeaveStart = c.parseDate(row, benefit.ColLeaveStart, string(benefit.CategoryLeave), i+1, result, e)
		e.LeaveEnd = c.parseDate(row, benefit.ColLeaveEnd, string(benefit.CategoryLeave), i+1, result, e)
	}
}

func (c *Consolidator) applyPositionOverride(employees []*benefit.Employee, sources benefit.Sources, category benefit.Category, position string) {
	rows, ok := sources[category]
	if !ok {
		return
	}
	byID := index(employees)
	for _, row := range rows {
		if e, ok := byID[strings.TrimSpace(row[benefit.ColID])]; ok {
			e.Position = position
		}
	}
}

func (c *Consolidator) applyOverseas(employees []*benefit.Employee, sources benefit.Sources) {
	rows, ok := sources[benefit.CategoryOverseas]
	if !ok {
		return
	}
	byID := index(employees)
	for _, row := range rows {
		if e, ok := byID[strings.TrimSpace(row[benefit.ColID])]; ok {
			e.Status = benefit.StatusOverseas
		}
	}
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

// BuildReferenceData assembles the run's lookup tables from the reference
// sources. A missing table is not an error; rate lookup falls back to the
// configured default downstream.
func (c *Consolidator) BuildReferenceData(sources benefit.Sources, holidays []calendar.Date, result *validate.Result) *benefit.ReferenceData {
	rd := &benefit.ReferenceData{Holidays: holidays}

	if rows, ok := sources[benefit.CategoryUnionRates]; ok {
		for i, row := range rows {
			key := strings.TrimSpace(row[benefit.ColPosition])
			raw := strings.TrimSpace(row[benefit.ColDailyValue])
			value, err := parseDecimal(raw)
			if err != nil {
				result.AddWarning(
					validate.Location{File: string(benefit.CategoryUnionRates), Row: i + 1, Column: benefit.ColDailyValue},
					"valor diário inválido %q ignorado", raw,
				)
				continue
			}
			rd.Rates = append(rd.Rates, benefit.RateRow{Position: key, DailyValue: value})
		}
	} else {
		result.AddWarning(validate.Location{File: string(benefit.CategoryUnionRates)}, "tabela de sindicatos ausente")
	}

	if rows, ok := sources[benefit.CategoryUnionDays]; ok {
		rd.UnionWorkingDays = make(map[string]int, len(rows))
		for i, row := range rows {
			union := strings.TrimSpace(row[benefit.ColUnion])
			raw := strings.TrimSpace(row[benefit.ColWorkingDays])
			days, err := parseInt(raw)
			if err != nil {
				result.AddWarning(
					validate.Location{File: string(benefit.CategoryUnionDays), Row: i + 1, Column: benefit.ColWorkingDays},
					"dias úteis inválidos %q ignorados", raw,
				)
				continue
			}
			rd.UnionWorkingDays[union] = days
		}
	}

	return rd
}

func parseDecimal(s string) (decimal.Decimal, error) { return decimal.NewFromString(s) }

func parseInt(s string) (int, error) { return strconv.Atoi(s) }
