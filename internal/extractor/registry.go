package extractor

import (
	"go.uber.org/zap"

	"github.com/sells-group/underwrite-cli/internal/model"
)

// Registry holds the ordered set of registered extractors. The order is the
// documented tie-break for conflict resolution downstream, so it must stay
// fixed for the life of the process.
type Registry struct {
	extractors []Extractor
}

// NewRegistry creates a registry with the given extractors in registration
// order.
func NewRegistry(extractors ...Extractor) *Registry {
	return &Registry{extractors: extractors}
}

// DefaultRegistry returns the standard set: operating statement before P&L so
// the narrower kind sits earlier in tie-break order, then rent roll and lease.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewOperatingStatement(),
		NewProfitAndLoss(),
		NewRentRoll(),
		NewLease(),
	)
}

// All returns the registered extractors in registration order.
func (r *Registry) All() []Extractor {
	return r.extractors
}

// Match evaluates CanHandle for every registered extractor and returns all
// that accept the document, in registration order. Multiple matches are
// expected (an operating statement also reads as a P&L); zero matches is a
// valid terminal outcome.
func (r *Registry) Match(text, filenameHint string) []Extractor {
	var matched []Extractor
	for _, e := range r.extractors {
		if e.CanHandle(text, filenameHint) {
			matched = append(matched, e)
		}
	}
	if len(matched) == 0 {
		zap.L().Debug("extract: no extractor matched", zap.String("filename", filenameHint))
	}
	return matched
}

// Kinds returns the kinds of the given extractors, preserving order.
func Kinds(extractors []Extractor) []model.ExtractorKind {
	kinds := make([]model.ExtractorKind, 0, len(extractors))
	for _, e := range extractors {
		kinds = append(kinds, e.Kind())
	}
	return kinds
}
