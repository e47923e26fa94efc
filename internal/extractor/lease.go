package extractor

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sells-group/underwrite-cli/internal/model"
)

// Lease abstracts a lease document: financial terms, key dates, and the
// free-text provisions an underwriter reviews by hand. Dates are normalized
// to canonical civil dates; a lease that expires before it commences fails
// Validate instead of being silently accepted.
type Lease struct{}

// NewLease returns the lease extractor.
func NewLease() *Lease { return &Lease{} }

func (e *Lease) Kind() model.ExtractorKind { return model.KindLease }

var leaseFilenameTerms = []string{"lease", "agreement", "contract"}

var leaseContentIndicators = []*regexp.Regexp{
	regexp.MustCompile(`lease\s*agreement`),
	regexp.MustCompile(`tenant\s*lease`),
	regexp.MustCompile(`rental\s*agreement`),
	regexp.MustCompile(`landlord\s*and\s*tenant`),
	regexp.MustCompile(`premises\s*lease`),
	regexp.MustCompile(`term\s*of\s*lease`),
}

func (e *Lease) CanHandle(text, filenameHint string) bool {
	if containsAny(strings.ToLower(filenameHint), leaseFilenameTerms) {
		return true
	}
	lower := strings.ToLower(text)
	for _, re := range leaseContentIndicators {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func (e *Lease) Extract(text string) model.ExtractionResult {
	fields := model.NewFieldSet()
	abstract := &model.LeaseAbstract{}

	e.extractFinancialTerms(text, fields, abstract)
	e.extractDates(text, fields, abstract)
	e.extractParties(text, fields, abstract)
	e.extractPremises(text, fields, abstract)
	e.extractProvisions(text, fields, abstract)

	facts := model.Facts{Lease: abstract}
	return model.NewExtractionResult(model.KindLease, fields, facts, excerpt(text))
}

var baseRentRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)base\s*rent[:\s]+\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)monthly\s*rent[:\s]+\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)annual\s*rent[:\s]+\$?\s*([\d,]+\.?\d*)`),
}

var securityDepositRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)security\s*deposit[:\s]+\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)deposit[:\s]+\$?\s*([\d,]+\.?\d*)`),
}

var (
	escalationSectionStart = []*regexp.Regexp{
		regexp.MustCompile(`rent\s*escalation`),
		regexp.MustCompile(`rent\s*increase`),
		regexp.MustCompile(`rental\s*adjustment`),
	}
	escalationSectionEnd = []*regexp.Regexp{
		regexp.MustCompile(`security\s*deposit`),
		regexp.MustCompile(`operating\s*expenses`),
		regexp.MustCompile(`utilities`),
	}
	escalationRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?%|\$\s*[\d,]+\.?\d*)\s*(?:increase|adjustment)\s*(?:in|on|at)\s*(?:year|month)\s*(\d+)`)
)

func (e *Lease) extractFinancialTerms(text string, fields *model.FieldSet, abstract *model.LeaseAbstract) {
	if v, ok := firstAmount(text, baseRentRes); ok {
		abstract.BaseRent = &v
		fields.Put("financial.base_rent", v, confExact)
	} else {
		fields.MarkRequiredMissing("financial.base_rent")
	}

	if v, ok := firstAmount(text, securityDepositRes); ok {
		abstract.SecurityDeposit = &v
		fields.Put("financial.security_deposit", v, confExact)
	}

	escSection := section(text, escalationSectionStart, escalationSectionEnd)
	if escSection != "" {
		for i, m := range escalationRe.FindAllStringSubmatch(escSection, -1) {
			amountToken := m[1]
			year := 0
			fmt.Sscanf(m[2], "%d", &year)

			kind := "fixed"
			if strings.Contains(amountToken, "%") {
				kind = "percentage"
			}
			amount, ok := parseAmount(amountToken)
			if !ok {
				continue
			}

			esc := model.Escalation{Year: year, Amount: amount, Kind: kind}
			abstract.Escalations = append(abstract.Escalations, esc)

			p := fmt.Sprintf("financial.escalation[%d]", i)
			fields.Put(p+".year", year, confParsed)
			fields.Put(p+".amount", amount, confParsed)
			fields.Put(p+".kind", kind, confParsed)
		}
	}
}

var (
	commencementRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)commencement\s*date[:\s]+(\w+\s+\d{1,2},?\s+\d{4}|\d{1,2}/\d{1,2}/\d{2,4})`),
		regexp.MustCompile(`(?i)lease\s*(?:shall\s*)?commences?\s*(?:on)?[:\s]+(\w+\s+\d{1,2},?\s+\d{4}|\d{1,2}/\d{1,2}/\d{2,4})`),
		regexp.MustCompile(`(?i)beginning\s*(?:on|date)[:\s]+(\w+\s+\d{1,2},?\s+\d{4}|\d{1,2}/\d{1,2}/\d{2,4})`),
	}
	expirationRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)expiration\s*date[:\s]+(\w+\s+\d{1,2},?\s+\d{4}|\d{1,2}/\d{1,2}/\d{2,4})`),
		regexp.MustCompile(`(?i)lease\s*(?:shall\s*)?(?:terminates?|ends?)\s*(?:on)?[:\s]+(\w+\s+\d{1,2},?\s+\d{4}|\d{1,2}/\d{1,2}/\d{2,4})`),
		regexp.MustCompile(`(?i)ending\s*(?:on|date)[:\s]+(\w+\s+\d{1,2},?\s+\d{4}|\d{1,2}/\d{1,2}/\d{2,4})`),
	}
	termRe = regexp.MustCompile(`(?i)(?:term|period)\s*of\s*(\d+)\s*(year|month)s?|(\d+)[-\s](year|month)\s*(?:term|lease)`)
)

func (e *Lease) extractDates(text string, fields *model.FieldSet, abstract *model.LeaseAbstract) {
	if d, ok := firstDate(text, commencementRes); ok {
		abstract.Commencement = &d
		fields.Put("dates.commencement", isoDate(d), confExact)
	} else {
		fields.MarkRequiredMissing("dates.commencement")
	}

	if d, ok := firstDate(text, expirationRes); ok {
		abstract.Expiration = &d
		fields.Put("dates.expiration", isoDate(d), confExact)
	} else {
		fields.MarkRequiredMissing("dates.expiration")
	}

	if abstract.Commencement != nil && abstract.Expiration != nil &&
		!abstract.Expiration.Before(*abstract.Commencement) {
		months := monthsBetween(*abstract.Commencement, *abstract.Expiration)
		abstract.TermMonths = &months
		fields.Put("dates.term_months", months, confParsed)
	} else if m := termRe.FindStringSubmatch(text); m != nil {
		months := parseTermMatch(m)
		if months > 0 {
			abstract.TermMonths = &months
			fields.Put("dates.term_months", months, confFuzzy)
		}
	}
}

func parseTermMatch(m []string) int {
	value, unit := m[1], m[2]
	if value == "" {
		value, unit = m[3], m[4]
	}
	n := 0
	fmt.Sscanf(value, "%d", &n)
	if strings.EqualFold(unit, "year") {
		n *= 12
	}
	return n
}

var tenantNameRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)tenant[:\s]+([^,\n]+)`),
	regexp.MustCompile(`(?i)lessee[:\s]+([^,\n]+)`),
}

func (e *Lease) extractParties(text string, fields *model.FieldSet, abstract *model.LeaseAbstract) {
	for _, re := range tenantNameRes {
		if m := re.FindStringSubmatch(text); m != nil {
			name := strings.TrimSpace(m[1])
			if name != "" {
				abstract.TenantName = name
				fields.Put("tenant.name", name, confParsed)
				return
			}
		}
	}
	fields.MarkRequiredMissing("tenant.name")
}

var (
	leaseSFRe   = regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*(?:square\s*feet|sq\.?\s*ft\.?|sf\b)`)
	leaseUnitRe = regexp.MustCompile(`(?i)(?:unit|suite)\s*(?:number|#)?\s*([A-Z0-9-]+)`)
)

var leaseTypes = []struct {
	name string
	re   *regexp.Regexp
}{
	{"Commercial", regexp.MustCompile(`(?i)commercial\s*lease`)},
	{"Retail", regexp.MustCompile(`(?i)retail\s*lease`)},
	{"Office", regexp.MustCompile(`(?i)office\s*lease`)},
	{"Industrial", regexp.MustCompile(`(?i)industrial\s*lease`)},
	{"Warehouse", regexp.MustCompile(`(?i)warehouse\s*lease`)},
}

func (e *Lease) extractPremises(text string, fields *model.FieldSet, abstract *model.LeaseAbstract) {
	if m := leaseSFRe.FindStringSubmatch(text); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			abstract.SquareFootage = &v
			fields.Put("premises.square_footage", v, confParsed)
		}
	}
	if m := leaseUnitRe.FindStringSubmatch(text); m != nil {
		abstract.UnitNumber = m[1]
		fields.Put("premises.unit", m[1], confParsed)
	}
	for _, lt := range leaseTypes {
		if lt.re.MatchString(text) {
			abstract.LeaseType = lt.name
			fields.Put("lease_type", lt.name, confCategorized)
			break
		}
	}
}

var provisionSections = []struct {
	kind  string
	start *regexp.Regexp
}{
	{"option_to_extend", regexp.MustCompile(`option\s*to\s*(?:extend|renew)`)},
	{"early_termination", regexp.MustCompile(`early\s*termination`)},
	{"right_of_first_refusal", regexp.MustCompile(`right\s*of\s*first\s*refusal`)},
	{"tenant_improvements", regexp.MustCompile(`tenant\s*improvements?`)},
	{"exclusivity", regexp.MustCompile(`exclusive\s*use`)},
	{"sublease_rights", regexp.MustCompile(`sublease|assignment`)},
	{"parking", regexp.MustCompile(`parking`)},
	{"signage", regexp.MustCompile(`signage`)},
}

var provisionEnd = []*regexp.Regexp{
	regexp.MustCompile(`\n\s*\d+\.`),
	regexp.MustCompile(`section\s+\d`),
	regexp.MustCompile(`article\s+`),
}

func (e *Lease) extractProvisions(text string, fields *model.FieldSet, abstract *model.LeaseAbstract) {
	i := 0
	for _, ps := range provisionSections {
		body := section(text, []*regexp.Regexp{ps.start}, provisionEnd)
		if body == "" {
			continue
		}
		prov := model.Provision{
			Type:    ps.kind,
			Content: strings.TrimSpace(body),
			Summary: summarizeProvision(body),
		}
		if ps.kind == "option_to_extend" {
			abstract.RenewalOptions = append(abstract.RenewalOptions, prov)
		} else {
			abstract.Provisions = append(abstract.Provisions, prov)
		}

		p := fmt.Sprintf("provision[%d]", i)
		fields.Put(p+".type", prov.Type, confCategorized)
		fields.Put(p+".summary", prov.Summary, confFuzzy)
		i++
	}
}

var legalFillerRe = regexp.MustCompile(`(?:provided|however|notwithstanding|whereas|therefore)\s*,?\s*`)

// summarizeProvision reduces a clause to its first sentence, capped at 100
// characters.
func summarizeProvision(text string) string {
	cleaned := legalFillerRe.ReplaceAllString(strings.ToLower(text), "")
	first := cleaned
	if idx := strings.IndexAny(cleaned, ".!?"); idx > 0 {
		first = cleaned[:idx]
	}
	first = strings.TrimSpace(first)
	if len(first) > 100 {
		first = first[:97] + "..."
	}
	if first == "" {
		return ""
	}
	return strings.ToUpper(first[:1]) + first[1:]
}

func firstAmount(text string, res []*regexp.Regexp) (float64, bool) {
	for _, re := range res {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, ok := parseAmount(m[1]); ok {
				return v, true
			}
		}
	}
	return 0, false
}

func firstDate(text string, res []*regexp.Regexp) (t time.Time, ok bool) {
	for _, re := range res {
		if m := re.FindStringSubmatch(text); m != nil {
			if d, dok := parseDate(m[1]); dok {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// Validate rejects a lease whose expiration precedes its commencement and
// requires at least the base financial terms to be present.
func (e *Lease) Validate(result model.ExtractionResult) bool {
	lease := result.Facts.Lease
	if lease == nil {
		return false
	}
	if lease.Commencement != nil && lease.Expiration != nil &&
		lease.Expiration.Before(*lease.Commencement) {
		return false
	}
	return lease.BaseRent != nil || lease.TenantName != ""
}
