package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sells-group/underwrite-cli/internal/model"
)

// ProfitAndLoss classifies statement line items into revenue and expense
// categories and derives gross income, total expenses, and NOI. When a line
// carries two amounts they are read as current and prior period, and a
// period-over-period variance is computed per item.
type ProfitAndLoss struct{}

// NewProfitAndLoss returns the P&L statement extractor.
func NewProfitAndLoss() *ProfitAndLoss { return &ProfitAndLoss{} }

func (e *ProfitAndLoss) Kind() model.ExtractorKind { return model.KindProfitAndLoss }

var pnlFilenameIndicators = []struct {
	term   string
	weight float64
}{
	{"p&l", 0.3},
	{"profit", 0.2},
	{"loss", 0.2},
	{"income", 0.2},
	{"operating", 0.1},
}

var pnlContentIndicators = []struct {
	re     *regexp.Regexp
	weight float64
}{
	{regexp.MustCompile(`profit\s*(?:and|&)\s*loss`), 0.2},
	{regexp.MustCompile(`income\s*statement`), 0.15},
	{regexp.MustCompile(`operating\s*statement`), 0.1},
	{regexp.MustCompile(`revenues?`), 0.1},
	{regexp.MustCompile(`expenses?`), 0.05},
	{regexp.MustCompile(`net\s*operating\s*income`), 0.05},
	{regexp.MustCompile(`gross\s*income`), 0.05},
}

func (e *ProfitAndLoss) CanHandle(text, filenameHint string) bool {
	score := 0.0

	name := strings.ToLower(filenameHint)
	for _, ind := range pnlFilenameIndicators {
		if strings.Contains(name, ind.term) {
			score += ind.weight
		}
	}

	lower := strings.ToLower(text)
	for _, ind := range pnlContentIndicators {
		if ind.re.MatchString(lower) {
			score += ind.weight
		}
	}

	return score >= canHandleThreshold
}

func (e *ProfitAndLoss) Extract(text string) model.ExtractionResult {
	fields := model.NewFieldSet()
	revenue, expenses := e.parseLineItems(text)
	putStatementFields(fields, revenue, expenses)
	facts := model.Facts{Revenue: revenue, Expenses: expenses}
	return model.NewExtractionResult(model.KindProfitAndLoss, fields, facts, excerpt(text))
}

var (
	revenueSectionStart = []*regexp.Regexp{
		regexp.MustCompile(`revenue`),
		regexp.MustCompile(`income`),
		regexp.MustCompile(`receipts`),
	}
	revenueSectionEnd = []*regexp.Regexp{
		regexp.MustCompile(`expenses`),
		regexp.MustCompile(`costs`),
		regexp.MustCompile(`deductions`),
	}
	expenseSectionStart = regexp.MustCompile(`expenses|costs|deductions`)
	expenseSectionEnd   = []*regexp.Regexp{
		regexp.MustCompile(`net\s*operating\s*income`),
		regexp.MustCompile(`net\s*income`),
		regexp.MustCompile(`summary`),
	}
)

// parseLineItems splits the statement into its revenue and expense sections
// and reads one categorized item per amount-bearing line.
func (e *ProfitAndLoss) parseLineItems(text string) (revenue, expenses []model.LineItem) {
	revSection := section(text, revenueSectionStart, revenueSectionEnd)
	revenue = parseItems(revSection, revenueCategories, []string{"revenue", "income", "receipts", "total"})

	// The expense section starts where the revenue section ended.
	expStart := []*regexp.Regexp{expenseSectionStart}
	expSection := section(text, expStart, expenseSectionEnd)
	expenses = parseItems(expSection, expenseCategories, []string{"expense", "cost", "deduction", "total"})
	return revenue, expenses
}

// putStatementFields records per-item fields and the derived summary. NOI is
// gross income minus total expenses; with no parsed items at all the summary
// fields are required-but-missing.
func putStatementFields(fields *model.FieldSet, revenue, expenses []model.LineItem) {
	putItems(fields, "revenue", revenue)
	putItems(fields, "expense", expenses)

	if len(revenue) == 0 && len(expenses) == 0 {
		fields.MarkRequiredMissing("summary.gross_income")
		fields.MarkRequiredMissing("summary.total_expenses")
		fields.MarkRequiredMissing("summary.noi")
		return
	}

	grossIncome := 0.0
	for _, item := range revenue {
		grossIncome += item.Amount
	}
	totalExpenses := 0.0
	for _, item := range expenses {
		totalExpenses += item.Amount
	}

	fields.Put("summary.gross_income", grossIncome, confParsed)
	fields.Put("summary.total_expenses", totalExpenses, confParsed)
	fields.Put("summary.noi", grossIncome-totalExpenses, confParsed)
	if grossIncome > 0 {
		fields.Put("summary.expense_ratio", totalExpenses/grossIncome*100, confParsed)
	}
}

func putItems(fields *model.FieldSet, prefix string, items []model.LineItem) {
	for i, item := range items {
		p := fmt.Sprintf("%s[%d]", prefix, i)
		amountConf := confParsed
		categoryConf := confExact
		if item.Category == "other" {
			// Uncategorized items carry lower confidence across the board.
			amountConf = confCategorized
			categoryConf = confCategorized
		}
		fields.Put(p+".description", item.Description, confParsed)
		fields.Put(p+".category", item.Category, categoryConf)
		fields.Put(p+".amount", item.Amount, amountConf)
		if item.Prior != nil {
			fields.Put(p+".prior", *item.Prior, amountConf)
		}
		if item.Variance != nil {
			fields.Put(p+".variance", *item.Variance, amountConf)
		}
	}
}

// parseItems reads categorized line items out of one statement section,
// skipping blank lines and section headers.
func parseItems(sectionText string, categories []categoryPattern, headerTerms []string) []model.LineItem {
	if sectionText == "" {
		return nil
	}

	var items []model.LineItem
	for _, line := range strings.Split(sectionText, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		if isHeaderLine(lower, headerTerms) {
			continue
		}

		amounts := lineAmounts(trimmed)
		if len(amounts) == 0 {
			continue
		}

		item := model.LineItem{
			Description: stripDescription(trimmed),
			Amount:      amounts[0],
			Category:    categorize(lower, categories),
		}
		if len(amounts) >= 2 {
			prior := amounts[1]
			item.Prior = &prior
			// Variance vs prior period is undefined when the prior is zero.
			if prior != 0 {
				v := (item.Amount - prior) / prior
				item.Variance = &v
			}
		}
		items = append(items, item)
	}
	return items
}

// isHeaderLine reports whether a line is a section header or total row
// rather than a line item. Header terms only disqualify a line when it has
// no leading description beyond them.
func isHeaderLine(lower string, headerTerms []string) bool {
	for _, term := range headerTerms {
		if strings.HasPrefix(lower, term) {
			return true
		}
	}
	return false
}

type categoryPattern struct {
	name string
	re   *regexp.Regexp
}

var revenueCategories = []categoryPattern{
	{"rental_income", regexp.MustCompile(`rent(?:al)?\s*income|base\s*rent`)},
	{"parking_income", regexp.MustCompile(`parking`)},
	{"other_income", regexp.MustCompile(`other\s*income|recovery|reimbursement|late\s*fee|miscellaneous`)},
}

var expenseCategories = []categoryPattern{
	{"property_taxes", regexp.MustCompile(`propert(?:y|ies)\s*tax(?:es)?|real\s*estate\s*tax(?:es)?`)},
	{"insurance", regexp.MustCompile(`insurance`)},
	{"utilities", regexp.MustCompile(`utilit(?:y|ies)|electric|water|gas\b`)},
	{"repairs_maintenance", regexp.MustCompile(`repairs?\s*(?:and|&)?\s*maintenance|maintenance`)},
	{"management_fees", regexp.MustCompile(`management\s*fees?`)},
	{"payroll", regexp.MustCompile(`payroll|salaries`)},
	{"administrative", regexp.MustCompile(`administrative|professional\s*fees?|legal|accounting`)},
}

// categorize maps a line description to its canonical category, falling back
// to "other".
func categorize(lower string, categories []categoryPattern) string {
	for _, c := range categories {
		if c.re.MatchString(lower) {
			return c.name
		}
	}
	return "other"
}

// Validate requires at least one revenue or expense item.
func (e *ProfitAndLoss) Validate(result model.ExtractionResult) bool {
	return len(result.Facts.Revenue) > 0 || len(result.Facts.Expenses) > 0
}
