package risk

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/underwrite-cli/internal/config"
	"github.com/sells-group/underwrite-cli/internal/model"
)

// Engine evaluates the risk rule set against computed metrics and raw
// extracted facts. It holds only configuration, so one instance is safe for
// concurrent use across documents.
type Engine struct {
	cfg config.RiskConfig
}

// New creates a risk engine with the given thresholds.
func New(cfg config.RiskConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Assess runs every rule independently and combines the results into a
// composite score. Each rule fires at most one flag. The score is a metric-
// distance baseline plus fixed severity weights per flag, clamped to
// [0,100]; flags are summed, never branched on, so identical inputs always
// produce an identical score regardless of evaluation order. The analysis
// date is passed in rather than read from the clock to keep runs
// reproducible.
func (e *Engine) Assess(m model.FinancialMetrics, facts model.Facts, now time.Time) model.RiskScore {
	var flags []model.RiskFlag
	add := func(f *model.RiskFlag) {
		if f != nil {
			flags = append(flags, *f)
		}
	}

	add(e.tenantConcentration(facts))
	add(e.leaseExpiration(facts, now))
	add(e.belowMarketRent(facts))
	add(e.aboveMarketExpense(m, facts))
	add(e.occupancyLow(m))
	add(e.dscrWeak(m))
	add(e.leverageHigh(m))

	score := e.baseline(m)
	for _, f := range flags {
		score += e.weight(f.Severity)
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	zap.L().Debug("risk: assessment complete",
		zap.Int("score", score),
		zap.Int("flags", len(flags)),
	)
	return model.RiskScore{Score: score, Flags: flags}
}

func (e *Engine) weight(s model.Severity) int {
	switch s {
	case model.SeverityCritical:
		return e.cfg.CriticalWeight
	case model.SeverityWarning:
		return e.cfg.WarningWeight
	default:
		return e.cfg.InfoWeight
	}
}

// baseline scores the distance of DSCR, cap rate, and occupancy from healthy
// levels. Each available metric contributes a sub-score in [0,1]; the mean is
// scaled to BaselineMax. Absent metrics are excluded rather than treated as
// unhealthy, so missing data raises no score on its own.
func (e *Engine) baseline(m model.FinancialMetrics) int {
	var subs []float64

	if m.DSCR != nil {
		// Healthy at 1.5x coverage and above, worst at 0.5x.
		subs = append(subs, clamp01((1.5-*m.DSCR)/1.0))
	}
	if m.CapRate != nil {
		// A cap rate below 5% means the price is rich relative to income.
		subs = append(subs, clamp01((0.05-*m.CapRate)/0.05))
	}
	if m.OccupancyRate != nil {
		// Healthy at 95% occupancy, worst at 55%.
		subs = append(subs, clamp01((95-*m.OccupancyRate)/40))
	}

	if len(subs) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range subs {
		sum += s
	}
	return int(math.Round(sum / float64(len(subs)) * float64(e.cfg.BaselineMax)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// tenantConcentration flags a single tenant whose rent share strictly
// exceeds the configured threshold. A share exactly at the threshold does
// not trigger.
func (e *Engine) tenantConcentration(facts model.Facts) *model.RiskFlag {
	total := 0.0
	for _, t := range facts.Tenants {
		if t.CurrentRent != nil {
			total += *t.CurrentRent
		}
	}
	if total <= 0 {
		return nil
	}

	topShare := 0.0
	topName := ""
	for _, t := range facts.Tenants {
		if t.CurrentRent == nil {
			continue
		}
		share := *t.CurrentRent / total * 100
		if share > topShare {
			topShare = share
			topName = t.Name
		}
	}

	if topShare <= e.cfg.TenantConcentrationPct {
		return nil
	}
	return &model.RiskFlag{
		Code:     model.FlagTenantConcentration,
		Severity: model.SeverityWarning,
		Message:  fmt.Sprintf("tenant %q holds %.1f%% of total rent (threshold %.0f%%)", topName, topShare, e.cfg.TenantConcentrationPct),
	}
}

// leaseExpiration flags the earliest lease expiring inside the lookahead
// window, from either the lease abstract or rent roll rows.
func (e *Engine) leaseExpiration(facts model.Facts, now time.Time) *model.RiskFlag {
	horizon := now.AddDate(0, e.cfg.LeaseExpiryMonths, 0)

	var candidates []time.Time
	if facts.Lease != nil && facts.Lease.Expiration != nil {
		candidates = append(candidates, *facts.Lease.Expiration)
	}
	for _, t := range facts.Tenants {
		if t.LeaseEnd != nil {
			candidates = append(candidates, *t.LeaseEnd)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Before(candidates[j]) })

	for _, exp := range candidates {
		if exp.Before(now) {
			continue
		}
		if !exp.After(horizon) {
			return &model.RiskFlag{
				Code:     model.FlagLeaseExpirationNear,
				Severity: model.SeverityWarning,
				Message:  fmt.Sprintf("lease expires %s, within %d months of analysis date", exp.Format("2006-01-02"), e.cfg.LeaseExpiryMonths),
			}
		}
	}
	return nil
}

// belowMarketRent flags the unit furthest below the market rent comparable.
// Units without both rent and square footage are skipped.
func (e *Engine) belowMarketRent(facts model.Facts) *model.RiskFlag {
	worstPSF := math.MaxFloat64
	worstUnit := ""
	for _, t := range facts.Tenants {
		if !t.Occupied || t.CurrentRent == nil || t.SquareFootage == nil || *t.SquareFootage <= 0 {
			continue
		}
		psf := *t.CurrentRent * 12 / *t.SquareFootage
		if psf < worstPSF {
			worstPSF = psf
			worstUnit = t.Unit
		}
	}

	if worstPSF >= e.cfg.MarketRentPSF {
		return nil
	}
	return &model.RiskFlag{
		Code:     model.FlagRentBelowMarket,
		Severity: model.SeverityInfo,
		Message:  fmt.Sprintf("unit %s rents at $%.2f/SF, below market comparable $%.2f/SF", worstUnit, worstPSF, e.cfg.MarketRentPSF),
	}
}

// aboveMarketExpense flags the expense category most in excess of its
// market share of gross income.
func (e *Engine) aboveMarketExpense(m model.FinancialMetrics, facts model.Facts) *model.RiskFlag {
	if m.GrossIncome == nil || *m.GrossIncome <= 0 || len(e.cfg.MarketExpensePct) == 0 {
		return nil
	}

	byCategory := make(map[string]float64)
	for _, item := range facts.Expenses {
		byCategory[item.Category] += item.Amount
	}

	worstExcess := 0.0
	worstCategory := ""
	worstShare := 0.0
	// Iterate config categories in sorted order for determinism.
	categories := make([]string, 0, len(e.cfg.MarketExpensePct))
	for c := range e.cfg.MarketExpensePct {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, category := range categories {
		threshold := e.cfg.MarketExpensePct[category]
		amount, ok := byCategory[category]
		if !ok {
			continue
		}
		share := amount / *m.GrossIncome * 100
		if share > threshold && share-threshold > worstExcess {
			worstExcess = share - threshold
			worstCategory = category
			worstShare = share
		}
	}

	if worstCategory == "" {
		return nil
	}
	return &model.RiskFlag{
		Code:     model.FlagExpenseAboveMarket,
		Severity: model.SeverityWarning,
		Message:  fmt.Sprintf("%s at %.1f%% of gross income exceeds market threshold %.1f%%", worstCategory, worstShare, e.cfg.MarketExpensePct[worstCategory]),
	}
}

// occupancyLow escalates from warning to critical as occupancy falls.
func (e *Engine) occupancyLow(m model.FinancialMetrics) *model.RiskFlag {
	if m.OccupancyRate == nil {
		return nil
	}
	occ := *m.OccupancyRate
	switch {
	case occ < e.cfg.OccupancyCriticalPct:
		return &model.RiskFlag{
			Code:     model.FlagOccupancyLow,
			Severity: model.SeverityCritical,
			Message:  fmt.Sprintf("occupancy %.1f%% below %.0f%% - high vacancy risk", occ, e.cfg.OccupancyCriticalPct),
		}
	case occ < e.cfg.OccupancyWarnPct:
		return &model.RiskFlag{
			Code:     model.FlagOccupancyLow,
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("occupancy %.1f%% below %.0f%%", occ, e.cfg.OccupancyWarnPct),
		}
	}
	return nil
}

// dscrWeak fires warning below the warn threshold and critical below the
// critical threshold. An absent DSCR is insufficient data, not risk, so it
// never fires.
func (e *Engine) dscrWeak(m model.FinancialMetrics) *model.RiskFlag {
	if m.DSCR == nil {
		return nil
	}
	dscr := *m.DSCR
	switch {
	case dscr < e.cfg.DSCRCritical:
		return &model.RiskFlag{
			Code:     model.FlagDSCRWeak,
			Severity: model.SeverityCritical,
			Message:  fmt.Sprintf("DSCR %.2f below %.2f - negative cash flow", dscr, e.cfg.DSCRCritical),
		}
	case dscr < e.cfg.DSCRWarn:
		return &model.RiskFlag{
			Code:     model.FlagDSCRWeak,
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("DSCR %.2f below %.2f - tight coverage", dscr, e.cfg.DSCRWarn),
		}
	}
	return nil
}

// leverageHigh flags LTV above the configured leverage thresholds.
func (e *Engine) leverageHigh(m model.FinancialMetrics) *model.RiskFlag {
	if m.LTV == nil {
		return nil
	}
	ltv := *m.LTV
	switch {
	case ltv > e.cfg.LTVCriticalPct:
		return &model.RiskFlag{
			Code:     model.FlagLeverageHigh,
			Severity: model.SeverityCritical,
			Message:  fmt.Sprintf("LTV %.1f%% above %.0f%% - excessive leverage", ltv, e.cfg.LTVCriticalPct),
		}
	case ltv > e.cfg.LTVWarnPct:
		return &model.RiskFlag{
			Code:     model.FlagLeverageHigh,
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("LTV %.1f%% above %.0f%% - high leverage", ltv, e.cfg.LTVWarnPct),
		}
	}
	return nil
}
