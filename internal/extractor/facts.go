package extractor

import "regexp"

// DocumentFacts are financial figures stated directly in the document body,
// outside of any statement structure ("NOI: $851,250", "Loan Amount:
// $9,500,000"). They fill metric inputs the structured extractors did not
// produce; caller-supplied loan terms fill whatever remains.
type DocumentFacts struct {
	NOI           *float64
	OccupancyRate *float64
	PropertyValue *float64
	LoanAmount    *float64
	DebtService   *float64
}

var (
	noiFactRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)NOI[:\s|]+\$?([\d,]+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)net\s*operating\s*income[:\s|]+\$?([\d,]+(?:\.\d+)?)`),
	}
	occupancyFactRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)occupancy[:\s|]+(\d+(?:\.\d+)?\s*%)`),
		regexp.MustCompile(`(?i)occupied[:\s|]+(\d+(?:\.\d+)?\s*%)`),
	}
	propertyValueFactRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)property\s*value[:\s|]+\$?([\d,]+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)appraised\s*value[:\s|]+\$?([\d,]+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)market\s*value[:\s|]+\$?([\d,]+(?:\.\d+)?)`),
	}
	loanAmountFactRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)loan\s*amount[:\s|]+\$?([\d,]+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)mortgage\s*amount[:\s|]+\$?([\d,]+(?:\.\d+)?)`),
	}
	debtServiceFactRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:annual\s*)?debt\s*service[:\s|]+\$?([\d,]+(?:\.\d+)?)`),
	}
)

// ScanDocumentFacts pulls labeled financial figures from raw text. Absent
// labels stay nil; nothing is estimated or backfilled here.
func ScanDocumentFacts(text string) DocumentFacts {
	return DocumentFacts{
		NOI:           scanAmount(text, noiFactRes),
		OccupancyRate: scanPercent(text, occupancyFactRes),
		PropertyValue: scanAmount(text, propertyValueFactRes),
		LoanAmount:    scanAmount(text, loanAmountFactRes),
		DebtService:   scanAmount(text, debtServiceFactRes),
	}
}

func scanAmount(text string, res []*regexp.Regexp) *float64 {
	for _, re := range res {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, ok := parseAmount(m[1]); ok {
				return &v
			}
		}
	}
	return nil
}

func scanPercent(text string, res []*regexp.Regexp) *float64 {
	for _, re := range res {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, ok := parsePercent(m[1]); ok {
				return &v
			}
		}
	}
	return nil
}
