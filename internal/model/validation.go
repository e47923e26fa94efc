package model

import "time"

// Issue is one problem found while validating extracted data.
type Issue struct {
	Severity     Severity `json:"severity"`
	Field        string   `json:"field"`
	Message      string   `json:"message"`
	CurrentValue any      `json:"current_value,omitempty"`
}

// ValidationReport is the cross-extractor consistency verdict for one
// document. OverallValid is false when any required field is missing or a
// structural invariant is violated.
type ValidationReport struct {
	OverallValid    bool      `json:"overall_valid"`
	ConfidenceScore float64   `json:"confidence_score"`
	Issues          []Issue   `json:"issues"`
	ValidatedAt     time.Time `json:"validated_at"`
}

// CriticalCount returns the number of critical issues.
func (r ValidationReport) CriticalCount() int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == SeverityCritical {
			n++
		}
	}
	return n
}
