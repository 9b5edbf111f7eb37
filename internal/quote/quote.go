// Package quote implements the mortgage payment calculation engine: input
// normalization, loan structuring with limit and LTV policy validation,
// amortized cost calculation with mortgage insurance, temporary buydown
// scenarios, and report rendering. Every calculation is a pure function of
// its request plus one external rate lookup; there is no shared mutable
// state, so concurrent quoting is safe.
package quote

import "context"

// RateSource supplies the annual first-lien rate for a quote. When
// explicit is non-nil it is returned unchanged; otherwise implementations
// consult a market source and must degrade to a static fallback rather
// than fail.
type RateSource interface {
	Resolve(ctx context.Context, explicit *float64, loanType LoanType, termYears int) float64
}

// Calculator is the quote pipeline: structuring, cost calculation,
// buydown generation, and formatting over injected tables and rates.
type Calculator struct {
	tables Tables
	rates  RateSource
}

// NewCalculator builds a Calculator over the given tables and rate source.
func NewCalculator(tables Tables, rates RateSource) *Calculator {
	return &Calculator{tables: tables, rates: rates}
}

// Quote runs one full calculation and renders the textual report. It
// returns an error only for input or structural problems; rate-fetch and
// MI-simulation trouble recover internally. No partial report is ever
// produced.
func (c *Calculator) Quote(ctx context.Context, req Request) (string, error) {
	s, err := c.Resolve(ctx, req)
	if err != nil {
		return "", err
	}
	return c.Report(s), nil
}

// Report renders the full report for an already-resolved structure. Split
// from Quote so callers caching by resolved structure can skip rendering
// on a hit.
func (c *Calculator) Report(s *ResolvedStructure) string {
	pb := c.Calculate(s)

	// Buydown subsidies are computed on the pre-fee loan amount so
	// financed upfront MIP or funding fees do not inflate the basis.
	bd := BuildBuydowns(s.BaseLoanAmount, s.AnnualRate, s.TermYears)

	return Render(s, pb, bd)
}
