package validate

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/underwrite-cli/internal/config"
	"github.com/sells-group/underwrite-cli/internal/model"
)

// Service runs cross-extractor validation for one document. It holds only
// configuration and is safe for concurrent use.
type Service struct {
	cfg config.ValidationConfig
}

// New creates a validation service.
func New(cfg config.ValidationConfig) *Service {
	return &Service{cfg: cfg}
}

// DefaultConfig mirrors the config package defaults for library callers.
func DefaultConfig() config.ValidationConfig {
	return config.ValidationConfig{
		CriticalPenalty:      0.10,
		WarningPenalty:       0.05,
		InfoPenalty:          0.01,
		OccupancyMismatchPts: 10.0,
		HighExpenseRatioPct:  80.0,
	}
}

// Report validates the merged extraction output against computed metrics.
// OverallValid is false when any required field is missing or a structural
// invariant is broken; metrics that do not depend on the invalid field are
// still reported by the caller. The document confidence starts as the
// field-count-weighted mean of extraction confidences and is demoted per
// issue found.
func (s *Service) Report(extractions []model.ExtractionResult, m model.FinancialMetrics, now time.Time) model.ValidationReport {
	var issues []model.Issue

	issues = append(issues, requiredFieldIssues(extractions)...)
	issues = append(issues, s.structuralIssues(extractions, m)...)
	issues = append(issues, s.consistencyIssues(extractions, m)...)

	confidence := weightedConfidence(extractions)
	confidence = s.demote(confidence, issues)

	report := model.ValidationReport{
		OverallValid:    !hasCritical(issues),
		ConfidenceScore: confidence,
		Issues:          issues,
		ValidatedAt:     now,
	}

	if !report.OverallValid {
		zap.L().Info("validate: document failed validation",
			zap.Int("issues", len(issues)),
			zap.Int("critical", report.CriticalCount()),
		)
	}
	return report
}

// requiredFieldIssues surfaces every required-but-missing field recorded by
// the extractors.
func requiredFieldIssues(extractions []model.ExtractionResult) []model.Issue {
	var issues []model.Issue
	for _, ex := range extractions {
		for _, path := range ex.RequiredMissing {
			issues = append(issues, model.Issue{
				Severity: model.SeverityCritical,
				Field:    path,
				Message:  fmt.Sprintf("required field missing from %s extraction", ex.Kind),
			})
		}
	}
	return issues
}

// structuralIssues checks invariants that make an extraction internally
// impossible rather than merely incomplete.
func (s *Service) structuralIssues(extractions []model.ExtractionResult, m model.FinancialMetrics) []model.Issue {
	var issues []model.Issue

	facts := model.MergeFacts(factsOf(extractions))

	if lease := facts.Lease; lease != nil &&
		lease.Commencement != nil && lease.Expiration != nil &&
		lease.Expiration.Before(*lease.Commencement) {
		issues = append(issues, model.Issue{
			Severity:     model.SeverityCritical,
			Field:        "dates.expiration",
			Message:      fmt.Sprintf("lease expiration %s precedes commencement %s", lease.Expiration.Format("2006-01-02"), lease.Commencement.Format("2006-01-02")),
			CurrentValue: lease.Expiration.Format("2006-01-02"),
		})
	}

	if m.OccupancyRate != nil && (*m.OccupancyRate < 0 || *m.OccupancyRate > 100) {
		issues = append(issues, model.Issue{
			Severity:     model.SeverityCritical,
			Field:        "occupancy_rate",
			Message:      fmt.Sprintf("occupancy rate %.1f%% outside [0,100]", *m.OccupancyRate),
			CurrentValue: *m.OccupancyRate,
		})
	}

	for i, t := range facts.Tenants {
		if t.SquareFootage != nil && *t.SquareFootage <= 0 {
			issues = append(issues, model.Issue{
				Severity:     model.SeverityCritical,
				Field:        fmt.Sprintf("tenant[%d].square_footage", i),
				Message:      fmt.Sprintf("non-positive square footage for unit %s", t.Unit),
				CurrentValue: *t.SquareFootage,
			})
		}
		if t.CurrentRent != nil && *t.CurrentRent < 0 {
			issues = append(issues, model.Issue{
				Severity:     model.SeverityCritical,
				Field:        fmt.Sprintf("tenant[%d].current_rent", i),
				Message:      fmt.Sprintf("negative rent for unit %s", t.Unit),
				CurrentValue: *t.CurrentRent,
			})
		}
		if t.Occupied && t.Name == "" {
			issues = append(issues, model.Issue{
				Severity: model.SeverityWarning,
				Field:    fmt.Sprintf("tenant[%d].name", i),
				Message:  fmt.Sprintf("occupied unit %s has no tenant name", t.Unit),
			})
		}
	}

	if m.GrossIncome != nil && m.TotalExpenses != nil && *m.TotalExpenses > *m.GrossIncome {
		issues = append(issues, model.Issue{
			Severity:     model.SeverityCritical,
			Field:        "noi",
			Message:      fmt.Sprintf("expenses %.2f exceed gross income %.2f", *m.TotalExpenses, *m.GrossIncome),
			CurrentValue: *m.TotalExpenses,
		})
	}

	return issues
}

// consistencyIssues compares figures reported by different sources for the
// same semantic concept.
func (s *Service) consistencyIssues(extractions []model.ExtractionResult, m model.FinancialMetrics) []model.Issue {
	var issues []model.Issue

	merged := Merge(extractions)

	if m.ExpenseRatio != nil && *m.ExpenseRatio > s.cfg.HighExpenseRatioPct {
		issues = append(issues, model.Issue{
			Severity:     model.SeverityWarning,
			Field:        "expense_ratio",
			Message:      fmt.Sprintf("expense ratio %.1f%% above %.0f%%", *m.ExpenseRatio, s.cfg.HighExpenseRatioPct),
			CurrentValue: *m.ExpenseRatio,
		})
	}

	// The rent roll occupancy and the metric occupancy should agree within
	// tolerance when both exist.
	if rrOcc := Number(merged, "summary.occupancy_rate"); rrOcc != nil && m.OccupancyRate != nil {
		diff := *rrOcc - *m.OccupancyRate
		if diff < 0 {
			diff = -diff
		}
		if diff > s.cfg.OccupancyMismatchPts {
			issues = append(issues, model.Issue{
				Severity:     model.SeverityWarning,
				Field:        "occupancy_rate",
				Message:      fmt.Sprintf("occupancy mismatch: rent roll %.1f%% vs metrics %.1f%%", *rrOcc, *m.OccupancyRate),
				CurrentValue: *m.OccupancyRate,
			})
		}
	}

	return issues
}

// weightedConfidence is the mean of extraction confidences weighted by the
// number of fields each contributed. Zero extractions or zero fields yield
// 0.0 so downstream comparisons always have a number.
func weightedConfidence(extractions []model.ExtractionResult) float64 {
	totalFields := 0
	sum := 0.0
	for _, ex := range extractions {
		n := ex.FieldCount()
		totalFields += n
		sum += ex.OverallConfidence * float64(n)
	}
	if totalFields == 0 {
		return 0.0
	}
	return sum / float64(totalFields)
}

// demote applies the per-issue confidence penalties, clamping to [0,1].
func (s *Service) demote(confidence float64, issues []model.Issue) float64 {
	for _, issue := range issues {
		switch issue.Severity {
		case model.SeverityCritical:
			confidence -= s.cfg.CriticalPenalty
		case model.SeverityWarning:
			confidence -= s.cfg.WarningPenalty
		default:
			confidence -= s.cfg.InfoPenalty
		}
	}
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

func hasCritical(issues []model.Issue) bool {
	for _, i := range issues {
		if i.Severity == model.SeverityCritical {
			return true
		}
	}
	return false
}

func factsOf(extractions []model.ExtractionResult) []model.Facts {
	out := make([]model.Facts, 0, len(extractions))
	for _, ex := range extractions {
		out = append(out, ex.Facts)
	}
	return out
}
