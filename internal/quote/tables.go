package quote

import "math"

// maxUnits is the largest unit count covered by conforming-limit tables.
const maxUnits = 4

// VAFeeTier holds funding-fee rates by down-payment tier: below 5%,
// 5-9.99%, and 10% or more.
type VAFeeTier struct {
	NoDown      float64
	FivePctDown float64
	TenPctDown  float64
}

// VAFundingFeeTable is the published VA funding-fee schedule, split by
// first-time versus subsequent entitlement use.
type VAFundingFeeTable struct {
	FirstTime  VAFeeTier
	Subsequent VAFeeTier
}

// MIStep is one row of the conventional PMI step function: the annual MI
// rate charged while the first-lien LTV is at or below MaxLTV.
type MIStep struct {
	MaxLTV float64
	Rate   float64
}

// FHAMIPRates holds annual MIP rates keyed by term bucket (over / up to 15
// years), balance bucket (base loan amount vs. the conforming threshold),
// and LTV tier.
type FHAMIPRates struct {
	LongConformingLowLTV   float64 // term > 15y, conforming balance, LTV <= 95%
	LongConformingHighLTV  float64
	LongHighBalanceLowLTV  float64 // term > 15y, above threshold, LTV <= 95%
	LongHighBalanceHighLTV float64
	ShortConformingLowLTV  float64 // term <= 15y, conforming balance, LTV <= 90%
	ShortConformingHighLTV float64
	ShortHighBalanceTier1  float64 // term <= 15y, above threshold, LTV <= 78%
	ShortHighBalanceTier2  float64 // 78% < LTV <= 90%
	ShortHighBalanceTier3  float64
}

// Tables bundles every rate and limit table the engine consults. It is
// immutable configuration injected at construction time so updated limit
// schedules can be swapped in without touching calculation logic.
type Tables struct {
	// LoanLimits maps loan type to conforming limits indexed by unit
	// count minus one. Jumbo and VA rows are unbounded.
	LoanLimits map[LoanType][]float64

	VAFundingFees VAFundingFeeTable

	// ConventionalMISteps must be ordered by ascending MaxLTV. The last
	// row acts as the catch-all above the final threshold.
	ConventionalMISteps []MIStep
	FHAMIP              FHAMIPRates

	// FHAConformingThreshold splits conforming from high-balance FHA MIP
	// pricing.
	FHAConformingThreshold float64
	FHAUpfrontMIPRate      float64

	DefaultTaxRate       float64
	DefaultInsuranceRate float64

	// SecondLienRateSpread is added to the first-lien rate when a second
	// lien carries no explicit rate.
	SecondLienRateSpread float64

	MaxCLTV            float64
	ConventionalMaxLTV float64
	FHAMaxLTV          float64
}

var (
	conventionalLoanLimits = []float64{806_500, 1_032_650, 1_248_150, 1_551_250}
	fhaLoanLimits          = []float64{629_050, 805_300, 973_400, 1_209_750}
)

func unboundedLimits() []float64 {
	inf := math.Inf(1)
	return []float64{inf, inf, inf, inf}
}

// DefaultTables returns the current published limit and fee schedules.
func DefaultTables() Tables {
	return Tables{
		LoanLimits: map[LoanType][]float64{
			Conventional: conventionalLoanLimits,
			FHA:          fhaLoanLimits,
			Jumbo:        unboundedLimits(),
			VA:           unboundedLimits(),
			USDA:         conventionalLoanLimits,
		},
		VAFundingFees: VAFundingFeeTable{
			FirstTime:  VAFeeTier{NoDown: 0.0215, FivePctDown: 0.0150, TenPctDown: 0.0125},
			Subsequent: VAFeeTier{NoDown: 0.0330, FivePctDown: 0.0150, TenPctDown: 0.0125},
		},
		ConventionalMISteps: []MIStep{
			{MaxLTV: 0.85, Rate: 0.0012},
			{MaxLTV: 0.90, Rate: 0.0021},
			{MaxLTV: 0.95, Rate: 0.0030},
			{MaxLTV: 0.97, Rate: 0.0043},
			{MaxLTV: math.Inf(1), Rate: 0.0050},
		},
		FHAMIP: FHAMIPRates{
			LongConformingLowLTV:   0.0050,
			LongConformingHighLTV:  0.0055,
			LongHighBalanceLowLTV:  0.0070,
			LongHighBalanceHighLTV: 0.0075,
			ShortConformingLowLTV:  0.0015,
			ShortConformingHighLTV: 0.0040,
			ShortHighBalanceTier1:  0.0015,
			ShortHighBalanceTier2:  0.0040,
			ShortHighBalanceTier3:  0.0065,
		},
		FHAConformingThreshold: 726_200,
		FHAUpfrontMIPRate:      0.0175,
		DefaultTaxRate:         0.0065,
		DefaultInsuranceRate:   0.0020,
		SecondLienRateSpread:   1.0,
		MaxCLTV:                1.05,
		ConventionalMaxLTV:     0.95,
		FHAMaxLTV:              0.965,
	}
}

// limitFor returns the conforming limit for the loan type and unit count.
func (t Tables) limitFor(lt LoanType, units int) float64 {
	limits, ok := t.LoanLimits[lt]
	if !ok || units < 1 || units > len(limits) {
		return math.Inf(1)
	}
	return limits[units-1]
}

// conventionalMIRate returns the annual PMI rate for a conventional loan
// at the given first-lien LTV. LTV at or below 80% carries no PMI.
func (t Tables) conventionalMIRate(ltv float64) float64 {
	if ltv <= 0.80 {
		return 0
	}
	for _, step := range t.ConventionalMISteps {
		if ltv <= step.MaxLTV {
			return step.Rate
		}
	}
	return 0
}

// fhaMIRate returns the annual MIP rate for an FHA loan. The base loan
// amount (excluding upfront MIP) selects the balance bucket.
func (t Tables) fhaMIRate(ltv float64, termYears int, baseLoanAmount float64) float64 {
	r := t.FHAMIP
	if termYears > 15 {
		if baseLoanAmount <= t.FHAConformingThreshold {
			if ltv <= 0.95 {
				return r.LongConformingLowLTV
			}
			return r.LongConformingHighLTV
		}
		if ltv <= 0.95 {
			return r.LongHighBalanceLowLTV
		}
		return r.LongHighBalanceHighLTV
	}
	if baseLoanAmount <= t.FHAConformingThreshold {
		if ltv <= 0.90 {
			return r.ShortConformingLowLTV
		}
		return r.ShortConformingHighLTV
	}
	switch {
	case ltv <= 0.78:
		return r.ShortHighBalanceTier1
	case ltv <= 0.90:
		return r.ShortHighBalanceTier2
	default:
		return r.ShortHighBalanceTier3
	}
}

// vaFundingFeeRate selects the fee rate by usage and down-payment tier.
func (t Tables) vaFundingFeeRate(downPaymentPct float64, firstTime bool) float64 {
	tier := t.VAFundingFees.Subsequent
	if firstTime {
		tier = t.VAFundingFees.FirstTime
	}
	switch {
	case downPaymentPct >= 0.10:
		return tier.TenPctDown
	case downPaymentPct >= 0.05:
		return tier.FivePctDown
	default:
		return tier.NoDown
	}
}
