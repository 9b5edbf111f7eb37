package quote

import (
	"fmt"
	"strconv"
	"strings"
)

// money renders a dollar amount rounded to cents with comma grouping.
func money(v float64) string {
	s := strconv.FormatFloat(round2(v), 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign = "-"
		intPart = intPart[1:]
	}
	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return sign + b.String() + "." + fracPart
}

// formatRate renders an annual rate rounded to 3 decimals, dropping
// trailing zeros but keeping at least one decimal ("7.0", "6.125").
func formatRate(v float64) string {
	s := strconv.FormatFloat(round3(v), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// formatLTV renders a fractional LTV as a percentage with one decimal.
func formatLTV(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// formatShare renders a fraction of the purchase price, dropping decimals
// for whole percentages ("20%", "12.50%").
func formatShare(v float64) string {
	pct := v * 100
	if pct == float64(int64(pct)) {
		return fmt.Sprintf("%d%%", int64(pct))
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// Render assembles the structured textual quote report: headline payment,
// itemized breakdown, loan structure, assumptions, buydown options, and
// conditional disclaimers. It carries no numeric logic of its own.
func Render(s *ResolvedStructure, pb PaymentBreakdown, bd BuydownScenarios) string {
	var b strings.Builder

	b.WriteString("\n<rate-calculation>\n")
	fmt.Fprintf(&b, "    <payment>$%s</payment>\n\n", money(pb.Total))

	b.WriteString("    <breakdown>\n")
	fmt.Fprintf(&b, "        First Lien Payment: $%s\n", money(pb.FirstLienPI))
	if s.HasSecondLien() {
		fmt.Fprintf(&b, "        Second Lien Payment: $%s (%s)\n",
			money(pb.SecondLienPayment), s.SecondLienType.Display())
	}
	taxRate := 0.0
	if s.HomePrice > 0 {
		taxRate = s.AnnualPropertyTax / s.HomePrice * 100
	}
	fmt.Fprintf(&b, "        Property Taxes: $%s ($%s annually at %.2f%%)\n",
		money(pb.MonthlyTax), money(s.AnnualPropertyTax), taxRate)
	fmt.Fprintf(&b, "        Insurance: $%s ($%s annually)\n",
		money(pb.MonthlyInsurance), money(s.AnnualHomeInsurance))
	if pb.HOAFee > 0 {
		fmt.Fprintf(&b, "        HOA Fees: $%s\n", money(pb.HOAFee))
	}
	if pb.MonthlyMI > 0 {
		miType := "MIP"
		if s.LoanType == Conventional {
			miType = "PMI"
		}
		fmt.Fprintf(&b, "        %s: $%s (at %.2f%% annually)\n",
			miType, money(pb.MonthlyMI), pb.MIRate*100)
	} else if s.LoanType == Conventional && s.HasSecondLien() {
		fmt.Fprintf(&b, "        PMI: $0 (avoided with second lien - first lien LTV at %s)\n",
			formatLTV(s.LTV))
	}
	b.WriteString("    </breakdown>\n\n")

	b.WriteString("    <loan-details>\n")
	fmt.Fprintf(&b, "        Purchase Price: $%s\n", money(s.HomePrice))
	downShare := 0.0
	if s.HomePrice > 0 {
		downShare = s.DownPayment / s.HomePrice
	}
	fmt.Fprintf(&b, "        Down Payment: $%s (%s)\n\n", money(s.DownPayment), formatShare(downShare))
	b.WriteString("        First Lien Details:\n")
	fmt.Fprintf(&b, "        • Amount: $%s\n", money(s.LoanAmount))
	fmt.Fprintf(&b, "        • Interest Rate: %s%%\n", formatRate(s.AnnualRate))
	fmt.Fprintf(&b, "        • Term: %d years\n", s.TermYears)
	fmt.Fprintf(&b, "        • Type: %s\n", s.LoanType.Display())
	fmt.Fprintf(&b, "        • LTV: %s\n", formatLTV(s.LTV))

	if s.HasSecondLien() {
		lienShare := 0.0
		if s.HomePrice > 0 {
			lienShare = s.SecondLienAmount / s.HomePrice
		}
		lienTypeDisplay := s.SecondLienType.Display()
		if s.SecondLienType == FullyAmortized {
			lienTypeDisplay = fmt.Sprintf("Fully Amortized (%d years)", s.SecondLienTermYears)
		}
		b.WriteString("\n        Second Lien Details:\n")
		fmt.Fprintf(&b, "        • Amount: $%s (%s of purchase price)\n",
			money(s.SecondLienAmount), formatShare(lienShare))
		fmt.Fprintf(&b, "        • Interest Rate: %s%%\n", formatRate(s.SecondLienRate))
		fmt.Fprintf(&b, "        • Type: %s\n\n", lienTypeDisplay)
		fmt.Fprintf(&b, "        Combined LTV (CLTV): %s\n", formatLTV(s.CLTV))
	}

	if s.LoanType == VA {
		usage := "Subsequent"
		if s.VAFirstTime {
			usage = "First-time"
		}
		fmt.Fprintf(&b, "        VA Funding Fee: $%s (%s use)", money(s.VAFundingFee), usage)
		if s.VAExempt {
			b.WriteString(" - EXEMPT")
		}
		b.WriteString("\n")
	}
	b.WriteString("    </loan-details>\n\n")

	b.WriteString("    <assumptions>\n")
	fmt.Fprintf(&b, "        • Credit Score (FICO): %d\n", s.FICOScore)
	fmt.Fprintf(&b, "        • Occupancy: %s\n", s.Occupancy.Display())
	fmt.Fprintf(&b, "        • Property Type: %s\n", s.PropertyType.Display())
	fmt.Fprintf(&b, "        • Units: %d\n", s.Units)
	if s.LoanType == FHA && s.UpfrontMIP > 0 {
		fmt.Fprintf(&b, "        • FHA Upfront MIP: $%s (financed)\n", money(s.UpfrontMIP))
	}
	if s.HasSecondLien() {
		fmt.Fprintf(&b, "        • Second lien rate assumption: First lien rate + 1.0%%\n")
	}
	b.WriteString("    </assumptions>\n")

	renderBuydowns(&b, bd)

	if s.Units != 1 || s.Occupancy != PrimaryResidence || s.PropertyType != SingleFamily {
		b.WriteString("    <disclaimer>These adjustments add complexity to the rate. For a reliable quote and full details, connect with a licensed LoanX loan officer.</disclaimer>\n")
	}
	if s.HasSecondLien() {
		b.WriteString("    <disclaimer>Second lien calculations are estimates. Actual rates and terms may vary by lender. Consult with a licensed loan officer for accurate quotes on subordinate financing.</disclaimer>\n")
	}

	b.WriteString("</rate-calculation>\n")
	return b.String()
}

func renderBuydowns(b *strings.Builder, bd BuydownScenarios) {
	b.WriteString("    <buydown-options>\n")
	fmt.Fprintf(b, "        <variant type=\"Standard\">\n")
	fmt.Fprintf(b, "            All Months: $%s @ %s%%\n",
		money(bd.Standard.BasePayment), formatRate(bd.Standard.BaseRate))
	b.WriteString("        </variant>\n")

	for _, sc := range []BuydownScenario{bd.ThreeOne, bd.TwoOne, bd.OneOne} {
		fmt.Fprintf(b, "\n        <variant type=%q>\n", sc.Name)
		for _, y := range sc.Years {
			fmt.Fprintf(b, "            Year %d: $%s @ %s%% (saves $%s/mo, $%s annual subsidy)\n",
				y.Year, money(y.Payment), formatRate(y.Rate),
				money(y.MonthlySavings), money(y.AnnualSubsidy))
		}
		fmt.Fprintf(b, "            Year %d+: $%s @ %s%%\n\n",
			len(sc.Years)+1, money(sc.BasePayment), formatRate(sc.BaseRate))
		fmt.Fprintf(b, "            Total Upfront Subsidy: $%s\n", money(sc.TotalSubsidy))
		b.WriteString("        </variant>\n")
	}

	b.WriteString("    </buydown-options>\n\n")
	b.WriteString("    <buydown-note>Subsidy amounts represent the upfront cost paid by seller, lender, or builder to reduce the buyer's interest rate during the initial years.</buydown-note>\n")
}
