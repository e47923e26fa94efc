package extractor

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sells-group/underwrite-cli/internal/model"
)

// OperatingStatement is a superset of the P&L extractor: the same revenue
// and expense classification plus budget-vs-actual pairs per line item and
// the reporting period.
type OperatingStatement struct {
	pnl *ProfitAndLoss
}

// NewOperatingStatement returns the operating statement extractor.
func NewOperatingStatement() *OperatingStatement {
	return &OperatingStatement{pnl: NewProfitAndLoss()}
}

func (e *OperatingStatement) Kind() model.ExtractorKind { return model.KindOperatingStatement }

var opStatementFilenameTerms = []string{"operating", "statement", "performance", "actual"}

var opStatementContentIndicators = []*regexp.Regexp{
	regexp.MustCompile(`operating\s*statement`),
	regexp.MustCompile(`property\s*performance`),
	regexp.MustCompile(`actual\s*vs\.?\s*budget`),
	regexp.MustCompile(`variance\s*report`),
	regexp.MustCompile(`year\s*to\s*date`),
}

func (e *OperatingStatement) CanHandle(text, filenameHint string) bool {
	if containsAny(strings.ToLower(filenameHint), opStatementFilenameTerms) {
		return true
	}
	lower := strings.ToLower(text)
	for _, re := range opStatementContentIndicators {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func (e *OperatingStatement) Extract(text string) model.ExtractionResult {
	fields := model.NewFieldSet()

	revenue, expenses := e.pnl.parseLineItems(text)
	putStatementFields(fields, revenue, expenses)

	budget := parseBudgetLines(text)
	for i, b := range budget {
		p := fmt.Sprintf("budget[%d]", i)
		fields.Put(p+".description", b.Description, confParsed)
		fields.Put(p+".actual", b.Actual, confParsed)
		fields.Put(p+".budget", b.Budget, confParsed)
		fields.Put(p+".variance", b.Variance, confParsed)
		if b.VariancePct != nil {
			fields.Put(p+".variance_pct", *b.VariancePct, confParsed)
		}
	}

	period := parsePeriod(text)
	if period != nil {
		if period.Start != nil {
			fields.Put("period.start", isoDate(*period.Start), confParsed)
		}
		if period.End != nil {
			fields.Put("period.end", isoDate(*period.End), confParsed)
		}
		if period.Type != "" {
			fields.Put("period.type", period.Type, confFuzzy)
		}
	}

	facts := model.Facts{Revenue: revenue, Expenses: expenses, Budget: budget, Period: period}
	return model.NewExtractionResult(model.KindOperatingStatement, fields, facts, excerpt(text))
}

var (
	budgetSectionStart = []*regexp.Regexp{
		regexp.MustCompile(`budget\s*comparison`),
		regexp.MustCompile(`variance\s*analysis`),
		regexp.MustCompile(`actual\s*vs\.?\s*budget`),
	}
	budgetSectionEnd = []*regexp.Regexp{
		regexp.MustCompile(`notes`),
		regexp.MustCompile(`summary`),
		regexp.MustCompile(`end\s*of\s*report`),
	}
)

// parseBudgetLines reads "description  actual  budget" rows from the budget
// comparison section. Variance is actual minus budget; the percentage is
// omitted when the budget is zero.
func parseBudgetLines(text string) []model.BudgetLine {
	sectionText := section(text, budgetSectionStart, budgetSectionEnd)
	if sectionText == "" {
		return nil
	}

	var lines []model.BudgetLine
	for _, raw := range strings.Split(sectionText, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		if isHeaderLine(lower, []string{"budget", "variance", "actual", "total"}) {
			continue
		}

		amounts := lineAmounts(trimmed)
		if len(amounts) < 2 {
			continue
		}

		line := model.BudgetLine{
			Description: stripDescription(trimmed),
			Actual:      amounts[0],
			Budget:      amounts[1],
		}
		line.Variance = line.Actual - line.Budget
		if line.Budget != 0 {
			pct := line.Variance / line.Budget * 100
			line.VariancePct = &pct
		}
		lines = append(lines, line)
	}
	return lines
}

var periodRangeRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)period(?:\s+from)?\s+(\w+\s+\d{1,2},?\s+\d{4})\s+(?:to|through)\s+(\w+\s+\d{1,2},?\s+\d{4})`),
	regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{2,4})\s*-\s*(\d{1,2}/\d{1,2}/\d{2,4})`),
}

var periodAsOfRe = regexp.MustCompile(`(?i)as\s+of\s+(\w+\s+\d{1,2},?\s+\d{4})`)

// parsePeriod finds the reporting period and classifies it as monthly,
// quarterly, or annual by span.
func parsePeriod(text string) *model.Period {
	for _, re := range periodRangeRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		start, okStart := parseDate(m[1])
		end, okEnd := parseDate(m[2])
		if !okStart || !okEnd {
			continue
		}
		p := &model.Period{Start: &start, End: &end}
		p.Type = classifyPeriod(start, end)
		return p
	}

	if m := periodAsOfRe.FindStringSubmatch(text); m != nil {
		if end, ok := parseDate(m[1]); ok {
			return &model.Period{End: &end}
		}
	}
	return nil
}

func classifyPeriod(start, end time.Time) string {
	days := int(end.Sub(start).Hours() / 24)
	switch {
	case days <= 31:
		return "monthly"
	case days <= 92:
		return "quarterly"
	default:
		return "annual"
	}
}

// Validate requires financial line items or budget rows.
func (e *OperatingStatement) Validate(result model.ExtractionResult) bool {
	return len(result.Facts.Revenue) > 0 ||
		len(result.Facts.Expenses) > 0 ||
		len(result.Facts.Budget) > 0
}
