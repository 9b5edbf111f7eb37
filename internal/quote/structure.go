package quote

import (
	"context"
	"math"
	"strings"

	errx "github.com/loanx-agent/server/internal/core/error"
)

// optionalAmount parses a flexible monetary field, treating nil and blank
// strings as absent.
func optionalAmount(v any) (float64, bool, error) {
	if v == nil {
		return 0, false, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return 0, false, nil
	}
	f, err := ParseAmount(v)
	if err != nil {
		return 0, false, err
	}
	return f, true, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Resolve runs the structuring engine: it normalizes every input, applies
// the defaulting rules in their fixed precedence, validates limits and LTV
// policy, resolves the rate, and finances upfront fees. The returned
// structure is immutable; later stages only read it.
//
// The resolution order is a hard contract because later defaults depend on
// earlier ones: price/amount presence, type normalization, home-price
// derivation, LTV-driven sizing, down-payment defaults, loan-amount
// derivation, limit and LTV validation, rate resolution, financed fees,
// then escrow defaults.
func (c *Calculator) Resolve(ctx context.Context, req Request) (*ResolvedStructure, error) {
	homePrice, hasHomePrice, err := optionalAmount(req.HomePrice)
	if err != nil {
		return nil, err
	}
	loanAmount, hasLoanAmount, err := optionalAmount(req.LoanAmount)
	if err != nil {
		return nil, err
	}

	downPayment, hasDownPayment, err := optionalAmount(req.DownPayment)
	if err != nil {
		return nil, err
	}
	// A percentage down payment converts against the home price as soon as
	// the price is known.
	if hasDownPayment && isPercentInput(req.DownPayment) && hasHomePrice {
		downPayment = homePrice * downPayment
	}

	secondLien, hasSecondLien, err := optionalAmount(req.SecondLienAmount)
	if err != nil {
		return nil, err
	}
	secondLienIsPercent := hasSecondLien && isPercentInput(req.SecondLienAmount)
	if secondLienIsPercent && hasHomePrice {
		secondLien = homePrice * secondLien
		secondLienIsPercent = false
	}

	annualTax, hasTax, err := optionalAmount(req.AnnualPropertyTax)
	if err != nil {
		return nil, err
	}
	annualInsurance, hasInsurance, err := optionalAmount(req.AnnualHomeInsurance)
	if err != nil {
		return nil, err
	}
	targetLTV, hasTargetLTV, err := optionalAmount(req.LTV)
	if err != nil {
		return nil, err
	}

	if !hasHomePrice && !hasLoanAmount {
		return nil, errx.Newf(errx.KindValidation, "Either home_price or loan_amount must be provided.")
	}

	loanTypeToken := req.LoanType
	if strings.TrimSpace(loanTypeToken) == "" {
		loanTypeToken = string(Conventional)
	}
	loanType, err := ParseLoanType(loanTypeToken)
	if err != nil {
		return nil, err
	}

	secondLienType := InterestOnly
	if strings.TrimSpace(req.SecondLienType) != "" {
		secondLienType, err = ParseSecondLienType(req.SecondLienType)
		if err != nil {
			return nil, err
		}
	}

	occupancy, err := ParseOccupancy(req.Occupancy)
	if err != nil {
		return nil, err
	}
	propertyType, err := ParsePropertyType(req.PropertyType)
	if err != nil {
		return nil, err
	}

	units := req.Units
	if units == 0 {
		units = 1
	}
	if units < 1 || units > maxUnits {
		return nil, errx.Newf(errx.KindValidation, "Unit count %d is out of range; properties must have 1-%d units.", units, maxUnits)
	}

	termYears := req.LoanTermYears
	if termYears <= 0 {
		termYears = 30
	}
	secondLienTermYears := req.SecondLienTermYears
	if secondLienTermYears <= 0 {
		secondLienTermYears = 30
	}
	ficoScore := req.FICOScore
	if ficoScore == 0 {
		ficoScore = 760
	}
	vaFirstTime := true
	if req.VAFirstTime != nil {
		vaFirstTime = *req.VAFirstTime
	}

	// Derive home price from the loan amount when absent.
	if !hasHomePrice {
		if !hasDownPayment {
			downPayment = loanAmount * 0.25
			hasDownPayment = true
		}
		homePrice = loanAmount + downPayment
		if secondLienIsPercent {
			secondLien = homePrice * secondLien
			secondLienIsPercent = false
		}
	}

	// An explicit target LTV sizes the first lien directly; the down
	// payment becomes whatever space remains after any second lien.
	if hasTargetLTV {
		if targetLTV > 1 {
			targetLTV = targetLTV / 100
		}
		loanAmount = homePrice * targetLTV
		hasLoanAmount = true
		if hasSecondLien {
			downPayment = homePrice - loanAmount - secondLien
		} else {
			downPayment = homePrice - loanAmount
		}
		hasDownPayment = true
	}

	// Loan-type specific down-payment defaults, reduced by any second lien.
	if !hasDownPayment {
		switch loanType {
		case FHA:
			downPayment = homePrice * 0.035
		case VA, USDA:
			downPayment = 0
		default:
			downPayment = homePrice * 0.20
		}
		if hasSecondLien {
			downPayment = math.Max(0, downPayment-secondLien)
		}
	}

	if !hasLoanAmount {
		if hasSecondLien {
			loanAmount = homePrice - downPayment - secondLien
		} else {
			loanAmount = homePrice - downPayment
		}
	}

	if downPayment < 0 {
		return nil, errx.Newf(errx.KindValidation,
			"Invalid loan structure: down payment cannot be negative. Please check your second lien amount and down payment inputs.")
	}

	// Conventional loans above the conforming limit escalate to jumbo.
	// The promotion is one-way within a calculation.
	if loanType == Conventional && loanAmount > c.tables.limitFor(Conventional, units) {
		loanType = Jumbo
	}

	if loanType == Conventional || loanType == FHA {
		if limit := c.tables.limitFor(loanType, units); loanAmount > limit {
			return nil, errx.Newf(errx.KindValidation,
				"First lien amount $%.2f exceeds %s limit of $%.2f for %d unit(s).",
				loanAmount, loanType, limit, units)
		}
	}

	var ltv, cltv float64
	if homePrice > 0 {
		ltv = round3(loanAmount / homePrice)
	}
	cltv = ltv
	if secondLien > 0 && homePrice > 0 {
		cltv = round3((loanAmount + secondLien) / homePrice)
	}

	if cltv > c.tables.MaxCLTV {
		return nil, errx.Newf(errx.KindValidation,
			"Combined LTV of %.1f%% exceeds maximum allowable CLTV of %.0f%%. This structure may not be feasible.",
			cltv*100, c.tables.MaxCLTV*100)
	}

	// LTV policy: conventional between 95% and 96.5% auto-downgrades to
	// FHA; above 96.5% is a hard error for either program.
	if loanType == Conventional && ltv > c.tables.ConventionalMaxLTV {
		if ltv > c.tables.FHAMaxLTV {
			return nil, errx.Newf(errx.KindValidation,
				"First lien LTV of %.1f%% exceeds conventional loan limit of %.0f%%. Consider FHA loan.",
				ltv*100, c.tables.ConventionalMaxLTV*100)
		}
		loanType = FHA
	} else if loanType == FHA && ltv > c.tables.FHAMaxLTV {
		return nil, errx.Newf(errx.KindValidation,
			"First lien LTV of %.1f%% exceeds FHA loan limit of %.1f%%.",
			ltv*100, c.tables.FHAMaxLTV*100)
	}

	annualRate := c.rates.Resolve(ctx, req.AnnualInterestRate, loanType, termYears)

	secondLienRate := 0.0
	if secondLien > 0 {
		if req.SecondLienRate != nil {
			secondLienRate = *req.SecondLienRate
		} else {
			secondLienRate = annualRate + c.tables.SecondLienRateSpread
		}
	}

	// Financed upfront fees: FHA upfront MIP and the VA funding fee are
	// rolled into the first-lien amount. BaseLoanAmount stays pre-fee.
	baseLoanAmount := loanAmount
	var upfrontMIP, vaFundingFee float64
	switch loanType {
	case FHA:
		upfrontMIP = baseLoanAmount * c.tables.FHAUpfrontMIPRate
		loanAmount = baseLoanAmount + upfrontMIP
	case VA:
		vaFundingFee = c.calculateVAFundingFee(loanAmount, downPayment, vaFirstTime, req.VAExempt)
		loanAmount += vaFundingFee
	}

	if !hasTax {
		annualTax = homePrice * c.tables.DefaultTaxRate
	}
	if !hasInsurance {
		annualInsurance = homePrice * c.tables.DefaultInsuranceRate
	}

	return &ResolvedStructure{
		HomePrice:           homePrice,
		DownPayment:         downPayment,
		LoanAmount:          loanAmount,
		BaseLoanAmount:      baseLoanAmount,
		LoanType:            loanType,
		Units:               units,
		TermYears:           termYears,
		AnnualRate:          annualRate,
		LTV:                 ltv,
		CLTV:                cltv,
		SecondLienAmount:    secondLien,
		SecondLienType:      secondLienType,
		SecondLienRate:      secondLienRate,
		SecondLienTermYears: secondLienTermYears,
		UpfrontMIP:          upfrontMIP,
		VAFundingFee:        vaFundingFee,
		VAFirstTime:         vaFirstTime,
		VAExempt:            req.VAExempt,
		AnnualPropertyTax:   annualTax,
		AnnualHomeInsurance: annualInsurance,
		HOAFee:              req.HOAFee,
		FICOScore:           ficoScore,
		Occupancy:           occupancy,
		PropertyType:        propertyType,
	}, nil
}

// calculateVAFundingFee computes the VA funding fee for the first lien.
// Exempt veterans pay nothing; otherwise the fee-rate row is selected by
// entitlement use and down-payment tier and applied to the loan amount.
func (c *Calculator) calculateVAFundingFee(loanAmount, downPayment float64, firstTime, exempt bool) float64 {
	if exempt {
		return 0
	}
	homePrice := loanAmount + downPayment
	downPaymentPct := 0.0
	if homePrice > 0 {
		downPaymentPct = downPayment / homePrice
	}
	return loanAmount * c.tables.vaFundingFeeRate(downPaymentPct, firstTime)
}
