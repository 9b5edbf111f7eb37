package quote

import (
	"math"

	errx "github.com/loanx-agent/server/internal/core/error"
	logx "github.com/loanx-agent/server/pkg/logger"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// monthlyPI computes the amortized monthly principal & interest payment.
// A zero rate degrades to straight-line repayment.
func monthlyPI(loanAmount, annualRate float64, termYears int) float64 {
	monthlyRate := annualRate / 12 / 100
	totalPayments := float64(termYears * 12)

	if monthlyRate > 0 {
		factor := math.Pow(1+monthlyRate, totalPayments)
		return loanAmount * (monthlyRate * factor) / (factor - 1)
	}
	return loanAmount / totalPayments
}

// fhaAverageBalanceMIP computes the monthly FHA MIP on a 12-month
// average-balance basis: the base-loan P&I payment is rounded to cents,
// eleven amortization steps are simulated with every intermediate figure
// rounded to cents, and the starting balance plus the eleven end-of-month
// balances are averaged into the MI basis.
func fhaAverageBalanceMIP(baseLoanAmount, annualRate float64, termYears int, annualMIPRate float64) (float64, error) {
	if baseLoanAmount <= 0 || annualRate < 0 || termYears <= 0 {
		return 0, errx.Newf(errx.KindComputation,
			"degenerate input for FHA average-balance simulation")
	}

	payment := round2(monthlyPI(baseLoanAmount, annualRate, termYears))
	monthlyRate := annualRate / 12 / 100

	balance := baseLoanAmount
	sum := balance
	for month := 0; month < 11; month++ {
		interest := round2(balance * monthlyRate)
		principal := round2(payment - interest)
		balance = round2(balance - principal)
		sum += balance
	}

	avgBalance := sum / 12
	mip := round2(avgBalance * annualMIPRate / 12)
	if math.IsNaN(mip) || math.IsInf(mip, 0) {
		return 0, errx.Newf(errx.KindComputation, "FHA average-balance simulation diverged")
	}
	return mip, nil
}

// secondLienPayment computes the monthly payment on a subordinate lien.
// Interest-only liens pay rate-carry only; fully amortized liens repay
// over their own declared term.
func secondLienPayment(amount, annualRate float64, lienType SecondLienType, termYears int) float64 {
	if lienType == InterestOnly {
		return (amount * annualRate / 100) / 12
	}
	return monthlyPI(amount, annualRate, termYears)
}

// Calculate computes the monthly payment breakdown for a resolved
// structure. It never fails: the one simulated component (FHA MIP) falls
// back to a flat approximation on numeric trouble.
func (c *Calculator) Calculate(s *ResolvedStructure) PaymentBreakdown {
	pb := PaymentBreakdown{
		FirstLienPI:      monthlyPI(s.LoanAmount, s.AnnualRate, s.TermYears),
		MonthlyTax:       s.AnnualPropertyTax / 12,
		MonthlyInsurance: s.AnnualHomeInsurance / 12,
		HOAFee:           s.HOAFee,
	}

	switch s.LoanType {
	case Conventional:
		// PMI applies only above 80% first-lien LTV. A piggyback second
		// lien that keeps the first lien at or under 80% waives it.
		if s.LTV > 0.80 {
			pb.MIRate = c.tables.conventionalMIRate(s.LTV)
			pb.MonthlyMI = (s.LoanAmount * pb.MIRate) / 12
		}
	case FHA:
		// FHA charges MIP regardless of any second lien. The basis is the
		// base loan amount, excluding the financed upfront MIP.
		pb.MIRate = c.tables.fhaMIRate(s.LTV, s.TermYears, s.BaseLoanAmount)
		mip, err := fhaAverageBalanceMIP(s.BaseLoanAmount, s.AnnualRate, s.TermYears, pb.MIRate)
		if err != nil {
			logx.Warn().Err(err).
				Float64("base_loan_amount", s.BaseLoanAmount).
				Float64("annual_rate", s.AnnualRate).
				Msg("FHA MIP simulation failed; using flat approximation")
			mip = (s.BaseLoanAmount * pb.MIRate) / 12
		}
		pb.MonthlyMI = mip
	}

	if s.HasSecondLien() {
		pb.SecondLienPayment = secondLienPayment(
			s.SecondLienAmount, s.SecondLienRate, s.SecondLienType, s.SecondLienTermYears)
	}

	pb.Total = pb.FirstLienPI +
		pb.SecondLienPayment +
		pb.MonthlyTax +
		pb.MonthlyInsurance +
		pb.MonthlyMI +
		pb.HOAFee

	return pb
}
