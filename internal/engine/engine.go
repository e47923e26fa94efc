// Package engine orchestrates one document's trip through the pipeline:
// extractor dispatch, field merging, metric computation, risk assessment,
// and validation. The whole run is computation-only; concurrency inside a
// run never changes the result because merges follow registry order, not
// completion order.
package engine

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/underwrite-cli/internal/config"
	"github.com/sells-group/underwrite-cli/internal/extractor"
	"github.com/sells-group/underwrite-cli/internal/metrics"
	"github.com/sells-group/underwrite-cli/internal/model"
	"github.com/sells-group/underwrite-cli/internal/risk"
	"github.com/sells-group/underwrite-cli/internal/validate"
)

// Engine wires the registry, risk engine, and validation service together.
// It holds no per-document state and is safe for concurrent use, one call
// per document.
type Engine struct {
	registry  *extractor.Registry
	risk      *risk.Engine
	validator *validate.Service
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry replaces the default extractor set.
func WithRegistry(r *extractor.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithClock fixes the analysis timestamp source. Tests use this to make
// expiration rules and report timestamps reproducible.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine from risk and validation configuration.
func New(riskCfg config.RiskConfig, valCfg config.ValidationConfig, opts ...Option) *Engine {
	e := &Engine{
		registry:  extractor.DefaultRegistry(),
		risk:      risk.New(riskCfg),
		validator: validate.New(valCfg),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze runs the full pipeline for one document. Zero matched extractors
// is a terminal outcome, not an error: the analysis carries no extractions
// and whatever metrics the caller-supplied loan terms allow. An error is
// returned only for an extractor implementation bug (a recovered panic); in
// that case the analysis still carries every extraction that succeeded, but
// no metrics are computed from the partial set.
func (e *Engine) Analyze(ctx context.Context, doc model.Document, loan model.LoanTerms) (*model.Analysis, error) {
	log := zap.L().With(zap.String("filename", doc.FilenameHint))

	matched := e.registry.Match(doc.Text, doc.FilenameHint)
	log.Debug("engine: extractors matched", zap.Int("count", len(matched)))

	extractions, err := e.runExtractors(ctx, matched, doc.Text)
	if err != nil {
		return &model.Analysis{Extractions: extractions}, err
	}

	now := e.now().UTC()
	m := metrics.Compute(e.metricInputs(extractions, doc.Text, loan))
	facts := mergedFacts(extractions)

	analysis := &model.Analysis{
		Extractions: extractions,
		Metrics:     m,
		Risk:        e.risk.Assess(m, facts, now),
		Validation:  e.validator.Report(extractions, m, now),
	}

	log.Info("engine: analysis complete",
		zap.Int("extractions", len(extractions)),
		zap.Int("risk_score", analysis.Risk.Score),
		zap.Bool("valid", analysis.Validation.OverallValid),
	)
	return analysis, nil
}

// runExtractors executes every matched extractor concurrently and returns
// results in registry order. A panic in one extractor is an implementation
// bug: it is recovered, the other results are kept, and the error aborts
// downstream metric computation.
func (e *Engine) runExtractors(ctx context.Context, matched []extractor.Extractor, text string) ([]model.ExtractionResult, error) {
	if len(matched) == 0 {
		return nil, nil
	}

	results := make([]*model.ExtractionResult, len(matched))
	g, _ := errgroup.WithContext(ctx)

	for i, ex := range matched {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = eris.Errorf("engine: extractor %s panicked: %v", ex.Kind(), r)
				}
			}()
			result := ex.Extract(text)
			if !ex.Validate(result) {
				zap.L().Debug("engine: extractor self-validation failed",
					zap.String("kind", string(ex.Kind())),
					zap.Float64("confidence", result.OverallConfidence),
				)
			}
			results[i] = &result
			return nil
		})
	}

	err := g.Wait()

	// Collect in slot (registry) order regardless of completion order.
	extractions := make([]model.ExtractionResult, 0, len(matched))
	for _, r := range results {
		if r != nil {
			extractions = append(extractions, *r)
		}
	}
	if err != nil {
		return extractions, err
	}
	return extractions, nil
}

// metricInputs assembles the normalized input bag: merged extractor fields
// first, labeled figures from the document body second, caller-supplied
// loan terms last. Occupancy is the one exception: a rate stated in the
// document wins over the unit-count derivation.
func (e *Engine) metricInputs(extractions []model.ExtractionResult, text string, loan model.LoanTerms) metrics.Inputs {
	merged := validate.Merge(extractions)
	scanned := extractor.ScanDocumentFacts(text)

	in := metrics.Inputs{
		GrossIncome:   validate.Number(merged, "summary.gross_income"),
		TotalExpenses: validate.Number(merged, "summary.total_expenses"),
		NOI:           validate.Number(merged, "summary.noi"),
		OccupancyRate: validate.Number(merged, "summary.occupancy_rate"),
	}

	in.NOI = coalesce(in.NOI, scanned.NOI)
	in.OccupancyRate = coalesce(scanned.OccupancyRate, in.OccupancyRate)
	in.PropertyValue = coalesce(scanned.PropertyValue, loan.PropertyValue)
	in.LoanAmount = coalesce(scanned.LoanAmount, loan.LoanAmount)
	in.DebtService = coalesce(scanned.DebtService, loan.DebtService)

	return in
}

func coalesce(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func mergedFacts(extractions []model.ExtractionResult) model.Facts {
	facts := make([]model.Facts, 0, len(extractions))
	for _, ex := range extractions {
		facts = append(facts, ex.Facts)
	}
	return model.MergeFacts(facts)
}
