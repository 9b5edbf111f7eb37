package quote

import (
	"testing"

	"github.com/stretchr/testify/require"

	errx "github.com/loanx-agent/server/internal/core/error"
)

func TestParseAmountNumericPassthrough(t *testing.T) {
	got, err := ParseAmount(500000.0)
	require.NoError(t, err)
	require.Equal(t, 500000.0, got)

	got, err = ParseAmount(250000)
	require.NoError(t, err)
	require.Equal(t, 250000.0, got)
}

func TestParseAmountStrings(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"500000", 500000},
		{"$500,000", 500000},
		{"  $1,250,000  ", 1250000},
		{"500k", 500000},
		{"20K", 20000},
		{"1.5m", 1500000},
		{"500 thousand", 500000},
		{"2 grand", 2000},
		{"1.5 million", 1500000},
		{"3 mil", 3000000},
		{"500 dollars down", 500},
		{"100 bucks", 100},
		{"$20k down payment", 20000},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		require.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseAmountPercent(t *testing.T) {
	got, err := ParseAmount("20%")
	require.NoError(t, err)
	require.Equal(t, 0.20, got)

	got, err = ParseAmount("3.5%")
	require.NoError(t, err)
	require.Equal(t, 0.035, got)

	// The percent rule beats shorthand suffixes.
	got, err = ParseAmount("20k%")
	require.NoError(t, err)
	require.Equal(t, 0.20, got)

	// A percent sign with no digits resolves to zero rather than failing.
	got, err = ParseAmount("%")
	require.NoError(t, err)
	require.Equal(t, 0.0, got)
}

func TestParseAmountFailures(t *testing.T) {
	for _, in := range []any{"a nice house", "", nil, true} {
		_, err := ParseAmount(in)
		require.Error(t, err, "input %v", in)
		require.Equal(t, errx.KindParse, errx.KindOf(err))
	}
}

func TestParseLoanTypeAliases(t *testing.T) {
	cases := map[string]LoanType{
		"conventional": Conventional,
		"Conv":         Conventional,
		"CONFORMING":   Conventional,
		"fha":          FHA,
		"va":           VA,
		"veteran":      VA,
		"veterans":     VA,
		"jumbo":        Jumbo,
		"usda":         USDA,
		"rural":        USDA,
	}
	for in, want := range cases {
		got, err := ParseLoanType(in)
		require.NoError(t, err, "input %q", in)
		require.Equal(t, want, got, "input %q", in)
	}

	_, err := ParseLoanType("balloon")
	require.Error(t, err)
	require.Equal(t, errx.KindInvalidEnum, errx.KindOf(err))
	require.Contains(t, errx.UserMessage(err), "Invalid loan type")
}

func TestParseSecondLienType(t *testing.T) {
	for _, in := range []string{"fully_amortized", "fully amortized", "amortizing"} {
		got, err := ParseSecondLienType(in)
		require.NoError(t, err)
		require.Equal(t, FullyAmortized, got)
	}
	for _, in := range []string{"interest_only", "interest only", "IO"} {
		got, err := ParseSecondLienType(in)
		require.NoError(t, err)
		require.Equal(t, InterestOnly, got)
	}

	_, err := ParseSecondLienType("balloon")
	require.Error(t, err)
	require.Equal(t, errx.KindInvalidEnum, errx.KindOf(err))
}

func TestParseOccupancyDefaultsAndAliases(t *testing.T) {
	got, err := ParseOccupancy("")
	require.NoError(t, err)
	require.Equal(t, PrimaryResidence, got)

	got, err = ParseOccupancy("second home")
	require.NoError(t, err)
	require.Equal(t, SecondHome, got)

	got, err = ParseOccupancy("investment")
	require.NoError(t, err)
	require.Equal(t, InvestmentProperty, got)

	_, err = ParseOccupancy("vacation")
	require.Error(t, err)
}

func TestParsePropertyTypeDefaultsAndAliases(t *testing.T) {
	got, err := ParsePropertyType("")
	require.NoError(t, err)
	require.Equal(t, SingleFamily, got)

	got, err = ParsePropertyType("single family")
	require.NoError(t, err)
	require.Equal(t, SingleFamily, got)

	got, err = ParsePropertyType("non-warrantable condo")
	require.NoError(t, err)
	require.Equal(t, NonWarrantableCondo, got)

	_, err = ParsePropertyType("castle")
	require.Error(t, err)
	require.Equal(t, errx.KindInvalidEnum, errx.KindOf(err))
}
