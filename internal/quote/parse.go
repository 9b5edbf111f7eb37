package quote

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	errx "github.com/loanx-agent/server/internal/core/error"
)

var (
	numberRe       = regexp.MustCompile(`[\d.]+`)
	currencyRe     = regexp.MustCompile(`[$,]`)
	fillerWordRe   = regexp.MustCompile(`\b(dollars?|bucks?|down|payment)\b`)
	thousandWordRe = regexp.MustCompile(`\b(k|thousand|grand)\b`)
	millionWordRe  = regexp.MustCompile(`\b(m|million|mil)\b`)
	kSuffixRe      = regexp.MustCompile(`(\d+(?:\.\d+)?)k\b`)
	mSuffixRe      = regexp.MustCompile(`(\d+(?:\.\d+)?)m\b`)
)

const acceptedFormatsHint = "Please provide numbers in formats like '500000', '$500,000', '500k', '20%', or '500 thousand'."

func parseErr(raw string) *errx.Error {
	return errx.Newf(errx.KindParse, "Invalid input format: no numeric value found in %q. %s", raw, acceptedFormatsHint)
}

// ParseAmount converts a flexible monetary input into a float. Numeric
// values pass through unchanged. Strings accept currency symbols, comma
// grouping, filler words ("500 dollars down"), shorthand suffixes
// ("20k", "1.5m", "500 thousand", "2 grand"), and percentages ("20%"
// resolves to 0.20). The percent rule wins over every other rule.
func ParseAmount(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, parseErr(v.String())
		}
		return f, nil
	case string:
		return parseAmountString(v)
	case nil:
		return 0, parseErr("<nil>")
	default:
		return 0, parseErr("unsupported value")
	}
}

func parseAmountString(raw string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))

	// Percent inputs resolve to a decimal fraction before any other rule.
	if strings.Contains(s, "%") {
		num := numberRe.FindString(s)
		if num == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, parseErr(raw)
		}
		return f / 100.0, nil
	}

	s = currencyRe.ReplaceAllString(s, "")
	s = fillerWordRe.ReplaceAllString(s, "")

	multiplier := 1.0
	if thousandWordRe.MatchString(s) {
		multiplier = 1_000
		s = thousandWordRe.ReplaceAllString(s, "")
	} else if millionWordRe.MatchString(s) {
		multiplier = 1_000_000
		s = millionWordRe.ReplaceAllString(s, "")
	}

	// Suffixes glued to the digits ("20k", "1.5m") short-circuit the
	// word-boundary multiplier path.
	if m := kSuffixRe.FindStringSubmatch(s); m != nil {
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, parseErr(raw)
		}
		return f * 1_000, nil
	}
	if m := mSuffixRe.FindStringSubmatch(s); m != nil {
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, parseErr(raw)
		}
		return f * 1_000_000, nil
	}

	num := numberRe.FindString(strings.TrimSpace(s))
	if num == "" {
		return 0, parseErr(raw)
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, parseErr(raw)
	}
	return f * multiplier, nil
}

// isPercentInput reports whether a raw input was expressed as a percentage,
// which changes how the parsed value is applied (fraction of home price).
func isPercentInput(value any) bool {
	s, ok := value.(string)
	return ok && strings.Contains(s, "%")
}

// ParseLoanType normalizes a free-form loan-type token. Alias matching is
// case-insensitive; unknown tokens fail with an InvalidEnum error listing
// the accepted values.
func ParseLoanType(raw string) (LoanType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "conventional", "conv", "conforming":
		return Conventional, nil
	case "fha":
		return FHA, nil
	case "va", "veteran", "veterans":
		return VA, nil
	case "jumbo":
		return Jumbo, nil
	case "usda", "rural":
		return USDA, nil
	}
	return "", errx.Newf(errx.KindInvalidEnum,
		"Invalid loan type %q. Must be 'conventional', 'fha', 'va', 'jumbo', or 'usda'.", raw)
}

// ParseSecondLienType normalizes a free-form second-lien-type token.
func ParseSecondLienType(raw string) (SecondLienType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fully_amortized", "fully amortized", "amortized", "amortizing":
		return FullyAmortized, nil
	case "interest_only", "interest only", "io":
		return InterestOnly, nil
	}
	return "", errx.Newf(errx.KindInvalidEnum,
		"Invalid second lien type %q. Must be 'fully_amortized' or 'interest_only'.", raw)
}

// ParseOccupancy maps an occupancy token to its canonical value. Empty
// input defaults to primary residence.
func ParseOccupancy(raw string) (Occupancy, error) {
	switch normalizeToken(raw) {
	case "":
		return PrimaryResidence, nil
	case "primaryresidence", "primary":
		return PrimaryResidence, nil
	case "secondhome", "second":
		return SecondHome, nil
	case "investmentproperty", "investment":
		return InvestmentProperty, nil
	}
	return "", errx.Newf(errx.KindInvalidEnum,
		"Invalid occupancy %q. Must be 'PrimaryResidence', 'SecondHome', or 'InvestmentProperty'.", raw)
}

// ParsePropertyType maps a property-type token to its canonical value.
// Empty input defaults to single family.
func ParsePropertyType(raw string) (PropertyType, error) {
	if strings.TrimSpace(raw) == "" {
		return SingleFamily, nil
	}
	token := normalizeToken(raw)
	for pt := range propertyTypeDisplay {
		if token == strings.ToLower(string(pt)) {
			return pt, nil
		}
	}
	return "", errx.Newf(errx.KindInvalidEnum, "Invalid property type %q.", raw)
}

func normalizeToken(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}
