/*
dto.go - Request/response shapes for the HTTP surface

The run request mirrors what the spreadsheet-reading adapter produces:
the reference month, optional calculator overrides, and the normalized
category -> rows mapping. Money fields travel as strings so no float
precision is lost at the boundary.
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/benefit-engine/benefit"
	"github.com/warp/benefit-engine/calendar"
	"github.com/warp/benefit-engine/engine"
	"github.com/warp/benefit-engine/pipeline"
)

// RunRequest is the POST /api/runs body. Month and Year default to the
// server's configured reference when omitted.
type RunRequest struct {
	Month int `json:"month,omitempty"`
	Year  int `json:"year,omitempty"`

	// Optional overrides of the server's configured calculator settings.
	CompanyPercentage  string `json:"company_percentage,omitempty"`
	EmployeePercentage string `json:"employee_percentage,omitempty"`
	DefaultDailyRate   string `json:"default_daily_rate,omitempty"`
	MinTotal           string `json:"min_total,omitempty"`
	MaxTotal           string `json:"max_total,omitempty"`

	Sources  map[string][]map[string]string `json:"sources"`
	Holidays []string                       `json:"holidays,omitempty"`
}

// ToPipeline converts the DTO into a pipeline request, starting from the
// server's base configuration.
func (r *RunRequest) ToPipeline(base engine.Config) (pipeline.Request, error) {
	cfg := base
	if err := applyOverride(&cfg.CompanyPercentage, r.CompanyPercentage); err != nil {
		return pipeline.Request{}, err
	}
	if err := applyOverride(&cfg.EmployeePercentage, r.EmployeePercentage); err != nil {
		return pipeline.Request{}, err
	}
	if err := applyOverride(&cfg.DefaultDailyRate, r.DefaultDailyRate); err != nil {
		return pipeline.Request{}, err
	}
	if r.MinTotal != "" {
		min, err := decimal.NewFromString(r.MinTotal)
		if err != nil {
			return pipeline.Request{}, err
		}
		cfg.MinTotal = &min
	}
	if r.MaxTotal != "" {
		max, err := decimal.NewFromString(r.MaxTotal)
		if err != nil {
			return pipeline.Request{}, err
		}
		cfg.MaxTotal = &max
	}

	sources := make(benefit.Sources, len(r.Sources))
	for category, rows := range r.Sources {
		converted := make([]benefit.Row, len(rows))
		for i, row := range rows {
			converted[i] = benefit.Row(row)
		}
		sources[benefit.Category(category)] = converted
	}

	holidays := make([]calendar.Date, 0, len(r.Holidays))
	for _, s := range r.Holidays {
		d, err := calendar.ParseDate(s)
		if err != nil {
			return pipeline.Request{}, err
		}
		holidays = append(holidays, d)
	}

	return pipeline.Request{
		Reference: benefit.Reference{Month: time.Month(r.Month), Year: r.Year},
		Config:    cfg,
		Sources:   sources,
		Holidays:  holidays,
	}, nil
}

func applyOverride(dst *decimal.Decimal, value string) error {
	if value == "" {
		return nil
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}
