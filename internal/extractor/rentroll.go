package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/underwrite-cli/internal/model"
)

// RentRoll parses tabular or line-oriented tenant ledgers. It handles both
// tab-delimited rows (spreadsheet ingests) and fixed-width text layouts by
// locating the header line and reading values out of its columns.
type RentRoll struct{}

// NewRentRoll returns the rent roll extractor.
func NewRentRoll() *RentRoll { return &RentRoll{} }

func (e *RentRoll) Kind() model.ExtractorKind { return model.KindRentRoll }

var rentRollContentIndicators = []struct {
	re     *regexp.Regexp
	weight float64
}{
	{regexp.MustCompile(`rent\s*roll`), 0.2},
	{regexp.MustCompile(`tenant\s*schedule`), 0.1},
	{regexp.MustCompile(`lease\s*schedule`), 0.1},
	{regexp.MustCompile(`unit\s*(?:number|#)?`), 0.1},
	{regexp.MustCompile(`tenant\s*name`), 0.1},
	{regexp.MustCompile(`monthly\s*rent`), 0.1},
}

var rentRollFilenameTerms = []string{"rent", "roll", "tenant"}

// canHandleThreshold is the minimum combined filename+content signal an
// extractor needs before accepting a document.
const canHandleThreshold = 0.3

func (e *RentRoll) CanHandle(text, filenameHint string) bool {
	score := 0.0

	name := strings.ToLower(filenameHint)
	matches := 0
	for _, term := range rentRollFilenameTerms {
		if strings.Contains(name, term) {
			matches++
		}
	}
	score += float64(matches) / float64(len(rentRollFilenameTerms)) * 0.3

	lower := strings.ToLower(text)
	for _, ind := range rentRollContentIndicators {
		if ind.re.MatchString(lower) {
			score += ind.weight
		}
	}

	return score >= canHandleThreshold
}

func (e *RentRoll) Extract(text string) model.ExtractionResult {
	fields := model.NewFieldSet()
	tenants := e.parseTenants(text)

	for i, t := range tenants {
		prefix := fmt.Sprintf("tenant[%d]", i)
		vacant := isVacantRow(t)

		if t.Unit != "" {
			fields.Put(prefix+".unit", t.Unit, confExact)
		} else {
			fields.MarkRequiredMissing(prefix + ".unit")
		}
		if t.Name != "" {
			fields.Put(prefix+".name", t.Name, confExact)
		}
		if t.SquareFootage != nil {
			fields.Put(prefix+".square_footage", *t.SquareFootage, confParsed)
		} else if !vacant {
			fields.MarkRequiredMissing(prefix + ".square_footage")
		}
		if t.CurrentRent != nil {
			fields.Put(prefix+".current_rent", *t.CurrentRent, confParsed)
		} else if !vacant {
			fields.MarkRequiredMissing(prefix + ".current_rent")
		}
		if t.LeaseStart != nil {
			fields.Put(prefix+".lease_start", isoDate(*t.LeaseStart), confParsed)
		}
		if t.LeaseEnd != nil {
			fields.Put(prefix+".lease_end", isoDate(*t.LeaseEnd), confParsed)
		}
		if t.SecurityDeposit != nil {
			fields.Put(prefix+".security_deposit", *t.SecurityDeposit, confParsed)
		}
	}

	e.putSummary(fields, tenants)

	if len(tenants) == 0 {
		zap.L().Debug("extract: rent roll found no tenant rows")
	}

	return model.NewExtractionResult(model.KindRentRoll, fields, model.Facts{Tenants: tenants}, excerpt(text))
}

// putSummary derives the rent roll aggregates. The occupancy denominator is
// the unit count; with zero units the rate is omitted entirely rather than
// divided by zero.
func (e *RentRoll) putSummary(fields *model.FieldSet, tenants []model.Tenant) {
	if len(tenants) == 0 {
		fields.MarkRequiredMissing("summary.total_units")
		return
	}

	totalSF := 0.0
	totalRent := 0.0
	occupiedSF := 0.0
	occupied := 0
	for _, t := range tenants {
		sf := 0.0
		if t.SquareFootage != nil {
			sf = *t.SquareFootage
		}
		totalSF += sf
		if t.CurrentRent != nil {
			totalRent += *t.CurrentRent
		}
		if t.Occupied {
			occupied++
			occupiedSF += sf
		}
	}

	fields.Put("summary.total_units", len(tenants), confExact)
	fields.Put("summary.total_square_footage", totalSF, confParsed)
	fields.Put("summary.occupied_square_footage", occupiedSF, confParsed)
	fields.Put("summary.total_monthly_rent", totalRent, confParsed)
	fields.Put("summary.occupancy_rate", float64(occupied)/float64(len(tenants))*100, confParsed)
	if totalSF > 0 {
		fields.Put("summary.average_rent_psf", totalRent*12/totalSF, confParsed)
	}
}

var headerTerms = []string{"unit", "tenant", "square feet", "sf", "sq ft", "rent", "lease"}

// vacancyTerms mark a row as unoccupied regardless of the name column.
var vacancyTerms = []string{"vacant", "empty", "available"}

// isVacantRow reports whether a row describes an empty unit. Rent and square
// footage are optional absences on a vacant row, not required gaps: an empty
// unit has neither a rent figure nor a tenant to attribute one to.
func isVacantRow(t model.Tenant) bool {
	return t.Name == "" || containsAny(strings.ToLower(t.Name), vacancyTerms)
}

func (e *RentRoll) parseTenants(text string) []model.Tenant {
	lines := strings.Split(text, "\n")

	headerIdx := findHeaderLine(lines)
	if headerIdx == -1 {
		return nil
	}
	header := lines[headerIdx]

	if strings.Contains(header, "\t") {
		return parseDelimitedRows(header, lines[headerIdx+1:])
	}
	return parseFixedWidthRows(header, lines[headerIdx+1:])
}

// findHeaderLine returns the index of the first line carrying at least three
// column-header terms, or -1.
func findHeaderLine(lines []string) int {
	for i, line := range lines {
		lower := strings.ToLower(line)
		hits := 0
		for _, term := range headerTerms {
			if strings.Contains(lower, term) {
				hits++
			}
		}
		if hits >= 3 {
			return i
		}
	}
	return -1
}

// columnAliases map canonical tenant fields to the header spellings seen in
// the wild. Order matters: the first alias found wins.
var columnAliases = []struct {
	field   string
	aliases []string
	width   int
}{
	{"unit", []string{"unit", "suite", "space"}, 10},
	{"tenant", []string{"tenant", "occupant", "customer"}, 30},
	{"square_footage", []string{"square feet", "sq ft", "sqft", "sf", "size"}, 15},
	{"rent", []string{"rent", "rate", "amount"}, 15},
	{"start_date", []string{"start", "commence", "begin"}, 12},
	{"end_date", []string{"end", "expir", "term"}, 12},
	{"security_deposit", []string{"deposit", "security"}, 15},
}

func parseFixedWidthRows(header string, rows []string) []model.Tenant {
	lower := strings.ToLower(header)

	type span struct{ start, end int }
	positions := make(map[string]span)
	for _, col := range columnAliases {
		for _, alias := range col.aliases {
			if pos := strings.Index(lower, alias); pos != -1 {
				positions[col.field] = span{pos, pos + col.width}
				break
			}
		}
	}
	if len(positions) == 0 {
		return nil
	}

	var tenants []model.Tenant
	for _, row := range rows {
		if strings.TrimSpace(row) == "" {
			continue
		}
		cells := make(map[string]string, len(positions))
		for field, sp := range positions {
			if sp.start >= len(row) {
				continue
			}
			end := min(sp.end, len(row))
			cells[field] = strings.TrimSpace(row[sp.start:end])
		}
		if t, ok := tenantFromCells(cells); ok {
			tenants = append(tenants, t)
		}
	}
	return tenants
}

func parseDelimitedRows(header string, rows []string) []model.Tenant {
	headerCells := strings.Split(strings.ToLower(header), "\t")

	index := make(map[string]int)
	for _, col := range columnAliases {
		for i, cell := range headerCells {
			cell = strings.TrimSpace(cell)
			if containsAny(cell, col.aliases) {
				if _, taken := index[col.field]; !taken {
					index[col.field] = i
				}
			}
		}
	}
	if len(index) == 0 {
		return nil
	}

	var tenants []model.Tenant
	for _, row := range rows {
		if strings.TrimSpace(row) == "" {
			continue
		}
		rowCells := strings.Split(row, "\t")
		cells := make(map[string]string, len(index))
		for field, i := range index {
			if i < len(rowCells) {
				cells[field] = strings.TrimSpace(rowCells[i])
			}
		}
		if t, ok := tenantFromCells(cells); ok {
			tenants = append(tenants, t)
		}
	}
	return tenants
}

// tenantFromCells builds a tenant record from raw column values. Rows with
// no unit and no tenant name are layout noise, not tenants.
func tenantFromCells(cells map[string]string) (model.Tenant, bool) {
	t := model.Tenant{
		Unit: cells["unit"],
		Name: cells["tenant"],
	}
	if t.Unit == "" && t.Name == "" {
		return model.Tenant{}, false
	}

	if v, ok := parseAmount(cells["square_footage"]); ok {
		t.SquareFootage = &v
	}
	if v, ok := parseAmount(cells["rent"]); ok {
		t.CurrentRent = &v
	}
	if v, ok := parseAmount(cells["security_deposit"]); ok {
		t.SecurityDeposit = &v
	}
	if d, ok := parseDate(cells["start_date"]); ok {
		t.LeaseStart = &d
	}
	if d, ok := parseDate(cells["end_date"]); ok {
		t.LeaseEnd = &d
	}

	// Occupied means a real tenant name and nonzero rent.
	name := strings.ToLower(t.Name)
	t.Occupied = t.Name != "" &&
		!containsAny(name, vacancyTerms) &&
		t.CurrentRent != nil && *t.CurrentRent > 0

	return t, true
}

// Validate requires at least one tenant row.
func (e *RentRoll) Validate(result model.ExtractionResult) bool {
	return len(result.Facts.Tenants) > 0
}
