package model

// Document is the unit of work for the engine: plain text produced by the
// upstream text-extraction layer plus the original filename as a routing hint.
type Document struct {
	Text         string `json:"text"`
	FilenameHint string `json:"filename_hint,omitempty"`
}

// LoanTerms are caller-supplied figures merged into the metric inputs when
// the document itself does not state them. Nil means not supplied.
type LoanTerms struct {
	LoanAmount    *float64 `json:"loan_amount,omitempty"`
	DebtService   *float64 `json:"debt_service,omitempty"`
	PropertyValue *float64 `json:"property_value,omitempty"`
}

// Float returns a pointer to v. Convenience for building optional inputs.
func Float(v float64) *float64 { return &v }
