package model

import "sort"

// ExtractorKind identifies which specialized extractor produced a result.
type ExtractorKind string

const (
	KindRentRoll           ExtractorKind = "rent_roll"
	KindProfitAndLoss      ExtractorKind = "profit_and_loss"
	KindOperatingStatement ExtractorKind = "operating_statement"
	KindLease              ExtractorKind = "lease"
)

// Specificity orders extractor kinds for conflict resolution: when two
// extractors report the same field, the narrower document type wins. An
// operating statement is a superset of a P&L, so it ranks above it.
func (k ExtractorKind) Specificity() int {
	switch k {
	case KindOperatingStatement:
		return 3
	case KindRentRoll, KindLease:
		return 2
	case KindProfitAndLoss:
		return 1
	default:
		return 0
	}
}

// ExtractionResult is the output of one extractor run. Fields and
// FieldConfidence always carry the same key set; OverallConfidence is
// recomputed from FieldConfidence at construction and never hand-set.
type ExtractionResult struct {
	Kind              ExtractorKind      `json:"kind"`
	Fields            map[string]any     `json:"fields"`
	FieldConfidence   map[string]float64 `json:"field_confidence"`
	RequiredMissing   []string           `json:"required_missing,omitempty"`
	OverallConfidence float64            `json:"overall_confidence"`
	Facts             Facts              `json:"facts"`
	RawExcerpt        string             `json:"raw_excerpt,omitempty"`
}

// FieldSet accumulates extracted fields with their confidence scores.
// Extractors add fields as they parse; NewExtractionResult seals the set
// into a result with a derived overall confidence.
type FieldSet struct {
	values          map[string]any
	confidence      map[string]float64
	requiredMissing []string
}

// NewFieldSet returns an empty field set.
func NewFieldSet() *FieldSet {
	return &FieldSet{
		values:     make(map[string]any),
		confidence: make(map[string]float64),
	}
}

// Put records a field with its confidence, clamping confidence to [0,1].
func (s *FieldSet) Put(path string, value any, conf float64) {
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	s.values[path] = value
	s.confidence[path] = conf
}

// MarkRequiredMissing records a required field that could not be found.
// Required absences count as confidence zero in the overall mean; optional
// absences are simply never added and do not affect it.
func (s *FieldSet) MarkRequiredMissing(path string) {
	s.requiredMissing = append(s.requiredMissing, path)
}

// Len returns the number of present fields.
func (s *FieldSet) Len() int { return len(s.values) }

// NewExtractionResult seals a field set into an ExtractionResult for the
// given extractor kind. The overall confidence is the arithmetic mean of all
// field confidences with required-but-missing fields counted as zero. A set
// with no fields at all yields 0.0, never an undefined value.
func NewExtractionResult(kind ExtractorKind, fields *FieldSet, facts Facts, excerpt string) ExtractionResult {
	missing := append([]string(nil), fields.requiredMissing...)
	sort.Strings(missing)
	return ExtractionResult{
		Kind:              kind,
		Fields:            fields.values,
		FieldConfidence:   fields.confidence,
		RequiredMissing:   missing,
		OverallConfidence: meanConfidence(fields.confidence, missing),
		Facts:             facts,
		RawExcerpt:        excerpt,
	}
}

// RecomputeOverall derives the overall confidence from the per-field scores.
// Exposed so consumers can verify a result has not drifted from its inputs.
func (r ExtractionResult) RecomputeOverall() float64 {
	return meanConfidence(r.FieldConfidence, r.RequiredMissing)
}

// FieldCount returns the number of extracted fields. Used by the validation
// service to weight each extraction's contribution to document confidence.
func (r ExtractionResult) FieldCount() int { return len(r.Fields) }

func meanConfidence(confidence map[string]float64, requiredMissing []string) float64 {
	n := len(confidence) + len(requiredMissing)
	if n == 0 {
		return 0.0
	}
	sum := 0.0
	for _, c := range confidence {
		sum += c
	}
	// Required-but-missing fields contribute 0 to the sum, n to the count.
	return sum / float64(n)
}
