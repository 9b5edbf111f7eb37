package quote

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMonthlyPIAmortizesToZero(t *testing.T) {
	loanAmount, annualRate, termYears := 400000.0, 7.0, 30
	payment := monthlyPI(loanAmount, annualRate, termYears)
	require.InDelta(t, 2661.21, payment, 0.01)

	// Paying the computed amount every month retires the full balance.
	monthlyRate := annualRate / 12 / 100
	balance := loanAmount
	for month := 0; month < termYears*12; month++ {
		balance = balance*(1+monthlyRate) - payment
	}
	require.InDelta(t, 0.0, balance, 0.01)
}

func TestMonthlyPIZeroRate(t *testing.T) {
	require.InDelta(t, 1000.0, monthlyPI(360000, 0, 30), 0.0001)
}

func TestConventionalPMISteps(t *testing.T) {
	calc := testCalculator()
	ctx := context.Background()

	cases := []struct {
		downPct string
		miRate  float64
	}{
		{"20%", 0},      // LTV 80, no PMI
		{"15%", 0.0012}, // LTV 85
		{"10%", 0.0021}, // LTV 90
		{"5%", 0.0030},  // LTV 95
	}
	for _, tc := range cases {
		s, err := calc.Resolve(ctx, Request{HomePrice: 500000, DownPayment: tc.downPct})
		require.NoError(t, err)
		pb := calc.Calculate(s)
		require.InDelta(t, tc.miRate, pb.MIRate, 1e-9, "down %s", tc.downPct)
		require.InDelta(t, s.LoanAmount*tc.miRate/12, pb.MonthlyMI, 0.001, "down %s", tc.downPct)
	}
}

func TestPiggybackSecondLienWaivesPMI(t *testing.T) {
	calc := testCalculator()

	s, err := calc.Resolve(context.Background(), Request{
		HomePrice:        750000,
		DownPayment:      "10%",
		SecondLienAmount: "10%",
	})
	require.NoError(t, err)
	require.Equal(t, 0.8, s.LTV)
	require.Equal(t, 0.9, s.CLTV)

	pb := calc.Calculate(s)
	require.Equal(t, 0.0, pb.MonthlyMI)
	require.Greater(t, pb.SecondLienPayment, 0.0)
}

func TestFHAAverageBalanceMIP(t *testing.T) {
	base, rate, term := 300000.0, 6.5, 30
	mipRate := 0.0055

	mip, err := fhaAverageBalanceMIP(base, rate, term, mipRate)
	require.NoError(t, err)

	// The averaged balance sits just below the opening balance, so the
	// simulated MIP lands under the flat approximation but close to it.
	flat := base * mipRate / 12
	require.Less(t, mip, flat)
	require.Greater(t, mip, flat*0.98)
}

func TestFHAAverageBalanceMIPDegenerateInput(t *testing.T) {
	_, err := fhaAverageBalanceMIP(0, 6.5, 30, 0.0055)
	require.Error(t, err)

	_, err = fhaAverageBalanceMIP(300000, -1, 30, 0.0055)
	require.Error(t, err)

	_, err = fhaAverageBalanceMIP(300000, 6.5, 0, 0.0055)
	require.Error(t, err)
}

func TestFHACalculateChargesMIPOnBaseAmount(t *testing.T) {
	calc := testCalculator()

	s, err := calc.Resolve(context.Background(), Request{
		HomePrice: 400000,
		LoanType:  "fha",
	})
	require.NoError(t, err)

	pb := calc.Calculate(s)
	require.Equal(t, 0.0055, pb.MIRate) // 30y, conforming balance, LTV 96.5%
	require.Greater(t, pb.MonthlyMI, 0.0)

	// The MI basis excludes the financed upfront MIP.
	flatOnBase := s.BaseLoanAmount * pb.MIRate / 12
	require.InDelta(t, flatOnBase, pb.MonthlyMI, flatOnBase*0.02)
}

func TestSecondLienPaymentModes(t *testing.T) {
	io := secondLienPayment(100000, 6.5, InterestOnly, 30)
	require.InDelta(t, 541.67, io, 0.01)

	amortized := secondLienPayment(100000, 7.0, FullyAmortized, 30)
	require.InDelta(t, 665.30, amortized, 0.01)

	// An interest-only lien never touches principal, so it stays cheaper
	// than the amortized equivalent at the same rate.
	require.Less(t,
		secondLienPayment(100000, 7.0, InterestOnly, 30),
		secondLienPayment(100000, 7.0, FullyAmortized, 30))
}

func TestCalculateKnownScenario(t *testing.T) {
	calc := testCalculator()

	s, err := calc.Resolve(context.Background(), Request{
		HomePrice:          "$500,000",
		DownPayment:        "20%",
		FICOScore:          760,
		LoanTermYears:      30,
		AnnualInterestRate: floatPtr(7.0),
	})
	require.NoError(t, err)

	pb := calc.Calculate(s)
	require.InDelta(t, 2661.21, pb.FirstLienPI, 0.01)
	require.InDelta(t, 270.83, pb.MonthlyTax, 0.01)
	require.InDelta(t, 83.33, pb.MonthlyInsurance, 0.01)
	require.Equal(t, 0.0, pb.MonthlyMI)
	require.InDelta(t, 3015.37, pb.Total, 0.01)
}

func TestCalculateTotalSumsComponents(t *testing.T) {
	calc := testCalculator()

	s, err := calc.Resolve(context.Background(), Request{
		HomePrice:          500000,
		DownPayment:        "20%",
		AnnualInterestRate: floatPtr(7.0),
		HOAFee:             250,
	})
	require.NoError(t, err)

	pb := calc.Calculate(s)
	sum := pb.FirstLienPI + pb.SecondLienPayment + pb.MonthlyTax +
		pb.MonthlyInsurance + pb.MonthlyMI + pb.HOAFee
	require.InDelta(t, sum, pb.Total, 1e-9)
	require.Equal(t, 250.0, pb.HOAFee)
	require.InDelta(t, 270.83, pb.MonthlyTax, 0.01)
	require.InDelta(t, 83.33, pb.MonthlyInsurance, 0.01)
	require.False(t, math.IsNaN(pb.Total))
}
