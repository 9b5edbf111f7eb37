package quote

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildBuydownsSchedules(t *testing.T) {
	bd := BuildBuydowns(400000, 7.0, 30)

	require.Empty(t, bd.Standard.Years)
	require.InDelta(t, 2661.21, bd.Standard.BasePayment, 0.01)
	require.Equal(t, 7.0, bd.Standard.BaseRate)

	require.Len(t, bd.ThreeOne.Years, 3)
	require.Len(t, bd.TwoOne.Years, 2)
	require.Len(t, bd.OneOne.Years, 1)

	// 3/1 steps down three points in year one, then climbs back by one
	// point per year.
	require.Equal(t, 4.0, bd.ThreeOne.Years[0].Rate)
	require.Equal(t, 5.0, bd.ThreeOne.Years[1].Rate)
	require.Equal(t, 6.0, bd.ThreeOne.Years[2].Rate)
	require.Equal(t, 5.0, bd.TwoOne.Years[0].Rate)
	require.Equal(t, 6.0, bd.OneOne.Years[0].Rate)
}

func TestBuildBuydownsSubsidyAccounting(t *testing.T) {
	bd := BuildBuydowns(400000, 7.0, 30)

	for _, sc := range []BuydownScenario{bd.ThreeOne, bd.TwoOne, bd.OneOne} {
		var sum float64
		prevPayment := 0.0
		for _, y := range sc.Years {
			// Each reduced year re-amortizes the full term at its rate.
			require.InDelta(t, monthlyPI(400000, y.Rate, 30), y.Payment, 1e-9)
			require.InDelta(t, sc.BasePayment-y.Payment, y.MonthlySavings, 1e-9)
			require.InDelta(t, y.MonthlySavings*12, y.AnnualSubsidy, 1e-9)
			require.Greater(t, y.Payment, prevPayment)
			prevPayment = y.Payment
			sum += y.AnnualSubsidy
		}
		require.InDelta(t, sum, sc.TotalSubsidy, 1e-9, sc.Name)
		require.Less(t, prevPayment, sc.BasePayment)
	}

	// Deeper buydowns cost more upfront.
	require.Greater(t, bd.ThreeOne.TotalSubsidy, bd.TwoOne.TotalSubsidy)
	require.Greater(t, bd.TwoOne.TotalSubsidy, bd.OneOne.TotalSubsidy)
}
