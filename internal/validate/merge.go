// Package validate merges fields across extractor results, runs cross-field
// consistency checks, and produces the document-level validity and
// confidence verdict.
package validate

import "github.com/sells-group/underwrite-cli/internal/model"

// MergedField is the winning value for one field path after conflict
// resolution, tagged with the extractor that supplied it.
type MergedField struct {
	Value      any
	Confidence float64
	Kind       model.ExtractorKind
}

// Merge combines field maps from all extractions of one document. When two
// extractors report the same path, the more specific extractor kind wins;
// at equal specificity the higher confidence wins; remaining ties keep the
// earlier extraction. Callers pass extractions in registry order, which
// makes the final tie-break deterministic regardless of how the extractors
// were scheduled.
func Merge(extractions []model.ExtractionResult) map[string]MergedField {
	merged := make(map[string]MergedField)
	for _, ex := range extractions {
		for path, value := range ex.Fields {
			candidate := MergedField{
				Value:      value,
				Confidence: ex.FieldConfidence[path],
				Kind:       ex.Kind,
			}
			current, exists := merged[path]
			if !exists || beats(candidate, current) {
				merged[path] = candidate
			}
		}
	}
	return merged
}

// beats reports whether the candidate strictly wins over the incumbent.
// Equal candidates do not win, preserving registration order.
func beats(candidate, incumbent MergedField) bool {
	cs, is := candidate.Kind.Specificity(), incumbent.Kind.Specificity()
	if cs != is {
		return cs > is
	}
	return candidate.Confidence > incumbent.Confidence
}

// Number reads a merged field as a float, handling the numeric types the
// extractors produce.
func Number(merged map[string]MergedField, path string) *float64 {
	f, ok := merged[path]
	if !ok {
		return nil
	}
	switch v := f.Value.(type) {
	case float64:
		return &v
	case int:
		fv := float64(v)
		return &fv
	default:
		return nil
	}
}
