/*
source.go - Raw input model handed to the engine by the I/O layer

PURPOSE:
  The spreadsheet-reading adapter (out of scope here) normalizes each file
  into rows of column name -> cell text. This file names the categories and
  columns the consolidator and validator understand.

CATEGORIES:
  ativos, admissao, desligados      employee identity sources
  ferias, afastamentos              date-interval enrichments
  estagio, aprendiz, exterior       exception lists (ID only)
  base_dias_uteis                   working days per union
  base_sindicato_valor              union -> daily rate table
  vr_mensal                         prior-month reference values

SEE ALSO:
  - consolidate/: turns these rows into Employee records
  - validate/: structural checks on these rows
*/
package benefit

// Category names a file-category input source.
type Category string

const (
	CategoryActive      Category = "ativos"
	CategoryAdmission   Category = "admissao"
	CategoryTermination Category = "desligados"
	CategoryVacation    Category = "ferias"
	CategoryLeave       Category = "afastamentos"
	CategoryIntern      Category = "estagio"
	CategoryApprentice  Category = "aprendiz"
	CategoryOverseas    Category = "exterior"
	CategoryUnionDays   Category = "base_dias_uteis"
	CategoryUnionRates  Category = "base_sindicato_valor"
	CategoryMonthlyVR   Category = "vr_mensal"
)

// Column names carried by the normalized rows.
const (
	ColID              = "ID"
	ColName            = "Nome"
	ColPosition        = "Cargo"
	ColUnion           = "Sindicato"
	ColAdmissionDate   = "Data_Admissao"
	ColTerminationDate = "Data_Desligamento"
	ColVacationStart   = "Inicio_Ferias"
	ColVacationEnd     = "Fim_Ferias"
	ColLeaveStart      = "Inicio_Afastamento"
	ColLeaveEnd        = "Fim_Afastamento"
	ColDailyValue      = "Valor_Diario"
	ColWorkingDays     = "Dias_Uteis"
)

// Row is one normalized spreadsheet row.
type Row map[string]string

// Sources maps category name to its rows. A category absent from the map
// means the file was not supplied at all.
type Sources map[Category][]Row

// Has reports whether a category was supplied.
func (s Sources) Has(c Category) bool {
	_, ok := s[c]
	return ok
}

// RequiredColumns returns the columns each category must carry. Categories
// not listed require only an ID.
func RequiredColumns(c Category) []string {
	switch c {
	case CategoryActive:
		return []string{ColID, ColName, ColPosition}
	case CategoryAdmission:
		return []string{ColID, ColName, ColAdmissionDate}
	case CategoryTermination:
		return []string{ColID, ColTerminationDate}
	case CategoryVacation:
		return []string{ColID, ColVacationStart, ColVacationEnd}
	case CategoryLeave:
		return []string{ColID, ColLeaveStart, ColLeaveEnd}
	case CategoryUnionRates:
		return []string{ColPosition, ColDailyValue}
	case CategoryUnionDays:
		return []string{ColUnion, ColWorkingDays}
	default:
		return []string{ColID}
	}
}
