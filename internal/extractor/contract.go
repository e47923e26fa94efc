// Package extractor turns raw document text into structured, confidence-scored
// fields. Each document type has a specialized extractor behind a common
// contract; the Registry decides which ones apply to a given text.
package extractor

import "github.com/sells-group/underwrite-cli/internal/model"

// Extractor is the contract every document-type extractor implements.
//
// CanHandle is a cheap stateless heuristic: it must not panic on malformed
// input and returns false on any uncertainty. Extract must never fail for
// text CanHandle accepted; internal problems surface as low or zero
// confidence, not errors. Validate is the extractor-local sanity check on a
// result it produced.
type Extractor interface {
	Kind() model.ExtractorKind
	CanHandle(text, filenameHint string) bool
	Extract(text string) model.ExtractionResult
	Validate(result model.ExtractionResult) bool
}

// excerptLen caps the audit excerpt carried on each result.
const excerptLen = 240

func excerpt(text string) string {
	if len(text) <= excerptLen {
		return text
	}
	return text[:excerptLen]
}
