package quote

// BuydownYear is one reduced-rate year within a temporary buydown.
type BuydownYear struct {
	Year           int
	Rate           float64
	Payment        float64
	MonthlySavings float64
	AnnualSubsidy  float64
}

// BuydownScenario is a named temporary-rate buydown schedule. Years is
// empty for the standard (unreduced) scenario. After the reduction window
// the payment reverts to BasePayment.
type BuydownScenario struct {
	Name         string
	Years        []BuydownYear
	BasePayment  float64
	BaseRate     float64
	TotalSubsidy float64
}

// BuydownScenarios holds the standard payment plus the three temporary
// buydown variants.
type BuydownScenarios struct {
	Standard BuydownScenario
	ThreeOne BuydownScenario
	TwoOne   BuydownScenario
	OneOne   BuydownScenario
}

var buydownReductions = []struct {
	name       string
	reductions []float64
}{
	{"3/1 Buydown", []float64{3.0, 2.0, 1.0}},
	{"2/1 Buydown", []float64{2.0, 1.0}},
	{"1/1 Buydown", []float64{1.0}},
}

// BuildBuydowns computes the 3/1, 2/1, and 1/1 temporary buydown schedules
// against the standard payment. The loan amount must exclude financed
// upfront MIP or funding fees so subsidies are not computed on fees. Each
// reduced year's payment re-amortizes the full original term at the
// reduced rate; the subsidy is the payment savings over that year.
func BuildBuydowns(loanAmount, baseRate float64, termYears int) BuydownScenarios {
	basePayment := monthlyPI(loanAmount, baseRate, termYears)

	build := func(name string, reductions []float64) BuydownScenario {
		sc := BuydownScenario{
			Name:        name,
			BasePayment: basePayment,
			BaseRate:    baseRate,
			Years:       make([]BuydownYear, 0, len(reductions)),
		}
		for i, reduction := range reductions {
			reducedRate := baseRate - reduction
			reducedPayment := monthlyPI(loanAmount, reducedRate, termYears)
			monthlySavings := basePayment - reducedPayment
			annualSubsidy := monthlySavings * 12
			sc.TotalSubsidy += annualSubsidy
			sc.Years = append(sc.Years, BuydownYear{
				Year:           i + 1,
				Rate:           reducedRate,
				Payment:        reducedPayment,
				MonthlySavings: monthlySavings,
				AnnualSubsidy:  annualSubsidy,
			})
		}
		return sc
	}

	return BuydownScenarios{
		Standard: BuydownScenario{
			Name:        "Standard",
			BasePayment: basePayment,
			BaseRate:    baseRate,
		},
		ThreeOne: build(buydownReductions[0].name, buydownReductions[0].reductions),
		TwoOne:   build(buydownReductions[1].name, buydownReductions[1].reductions),
		OneOne:   build(buydownReductions[2].name, buydownReductions[2].reductions),
	}
}
