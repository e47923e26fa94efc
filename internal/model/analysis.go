package model

// Analysis is the full engine output for one document. Extractions is empty
// when no registered extractor accepted the text; that is a terminal outcome,
// not an error.
type Analysis struct {
	Extractions []ExtractionResult `json:"extractions"`
	Metrics     FinancialMetrics   `json:"metrics"`
	Risk        RiskScore          `json:"risk"`
	Validation  ValidationReport   `json:"validation"`
}

// Matched reports which extractor kinds produced a result.
func (a Analysis) Matched() []ExtractorKind {
	kinds := make([]ExtractorKind, 0, len(a.Extractions))
	for _, e := range a.Extractions {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}
