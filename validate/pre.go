/*
pre.go - Structural validation of raw category rows

CHECKS PER FILE:
  - required columns present for the category
  - file not empty
  - ID uniqueness within the file (error)
  - parseable dates in the Data_, Inicio_, and Fim_ columns (error)
  - parseable numerics in the Valor_ and Dias_ columns (error)

CROSS-FILE CHECKS:
  - the same ID appearing in more than one identity category file is a
    warning, not an error: the consolidator resolves it deterministically
*/
package validate

import (
	"strconv"
	"strings"

	"github.com/warp/benefit-engine/benefit"
	"github.com/warp/benefit-engine/calendar"
)

// identityCategories are the sources that create employee records; IDs
// shared between them are expected but worth flagging.
var identityCategories = []benefit.Category{
	benefit.CategoryActive,
	benefit.CategoryAdmission,
	benefit.CategoryTermination,
}

// PreConsolidation runs the structural checks over all supplied sources.
func PreConsolidation(sources benefit.Sources) *Result {
	result := &Result{}

	for category, rows := range sources {
		validateFile(result, category, rows)
	}

	crossValidate(result, sources)
	return result
}

func validateFile(result *Result, category benefit.Category, rows []benefit.Row) {
	file := string(category)

	if len(rows) == 0 {
		result.AddError(Location{File: file}, "arquivo vazio")
		return
	}

	required := benefit.RequiredColumns(category)
	for _, col := range required {
		if _, ok := rows[0][col]; !ok {
			result.AddError(Location{File: file, Column: col}, "coluna obrigatória ausente: %s", col)
		}
	}

	seen := make(map[string]int, len(rows))
	for i, row := range rows {
		rowNum := i + 1

		if id, ok := row[benefit.ColID]; ok {
			id = strings.TrimSpace(id)
			if id == "" {
				result.AddWarning(Location{File: file, Row: rowNum, Column: benefit.ColID}, "ID vazio")
			} else if first, dup := seen[id]; dup {
				result.AddError(
					Location{File: file, Row: rowNum, Column: benefit.ColID},
					"ID duplicado %q (primeira ocorrência na linha %d)", id, first,
				)
			} else {
				seen[id] = rowNum
			}
		}

		for col, value := range row {
			validateCell(result, file, rowNum, col, value)
		}
	}
}

// validateCell type-checks a cell by column naming convention, the same
// convention the spreadsheets follow.
func validateCell(result *Result, file string, rowNum int, col, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}

	upper := strings.ToUpper(col)
	switch {
	case strings.HasPrefix(upper, "DATA") || strings.HasPrefix(upper, "INICIO") || strings.HasPrefix(upper, "FIM"):
		if _, err := calendar.ParseDate(value); err != nil {
			result.AddError(Location{File: file, Row: rowNum, Column: col}, "data inválida: %q", value)
		}
	case strings.HasPrefix(upper, "VALOR") || strings.HasPrefix(upper, "DIAS"):
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			result.AddError(Location{File: file, Row: rowNum, Column: col}, "valor numérico inválido: %q", value)
		}
	}
}

func crossValidate(result *Result, sources benefit.Sources) {
	firstSeen := make(map[string]benefit.Category)

	for _, category := range identityCategories {
		rows, ok := sources[category]
		if !ok {
			continue
		}
		for _, row := range rows {
			id := strings.TrimSpace(row[benefit.ColID])
			if id == "" {
				continue
			}
			if prev, dup := firstSeen[id]; dup && prev != category {
				result.AddWarning(
					Location{File: string(category), Column: benefit.ColID},
					"ID %q também presente em %q", id, prev,
				)
			} else if !dup {
				firstSeen[id] = category
			}
		}
	}
}
