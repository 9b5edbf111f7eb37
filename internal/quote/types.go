package quote

// LoanType identifies the first-lien loan program. The zero value is not
// valid; use ParseLoanType to normalize free-form input.
type LoanType string

const (
	Conventional LoanType = "conventional"
	FHA          LoanType = "fha"
	VA           LoanType = "va"
	Jumbo        LoanType = "jumbo"
	USDA         LoanType = "usda"
)

var loanTypeDisplay = map[LoanType]string{
	Conventional: "Conventional",
	FHA:          "FHA",
	VA:           "VA",
	Jumbo:        "Jumbo",
	USDA:         "USDA",
}

// Display returns the human-readable name for the loan type.
func (lt LoanType) Display() string {
	if d, ok := loanTypeDisplay[lt]; ok {
		return d
	}
	return string(lt)
}

// SecondLienType identifies how a subordinate lien is repaid.
type SecondLienType string

const (
	FullyAmortized SecondLienType = "fully_amortized"
	InterestOnly   SecondLienType = "interest_only"
)

func (st SecondLienType) Display() string {
	if st == InterestOnly {
		return "Interest-Only"
	}
	return "Fully Amortized"
}

// Occupancy is the declared use of the property.
type Occupancy string

const (
	InvestmentProperty Occupancy = "InvestmentProperty"
	PrimaryResidence   Occupancy = "PrimaryResidence"
	SecondHome         Occupancy = "SecondHome"
)

var occupancyDisplay = map[Occupancy]string{
	InvestmentProperty: "Investment Property",
	PrimaryResidence:   "Primary Residence",
	SecondHome:         "Second Home",
}

func (o Occupancy) Display() string {
	if d, ok := occupancyDisplay[o]; ok {
		return d
	}
	return string(o)
}

// PropertyType is the physical property classification.
type PropertyType string

const (
	SingleFamily           PropertyType = "SingleFamily"
	Condo                  PropertyType = "Condo"
	ManufacturedDoubleWide PropertyType = "ManufacturedDoubleWide"
	Condotel               PropertyType = "Condotel"
	Modular                PropertyType = "Modular"
	PUD                    PropertyType = "PUD"
	Timeshare              PropertyType = "Timeshare"
	ManufacturedSingleWide PropertyType = "ManufacturedSingleWide"
	Coop                   PropertyType = "Coop"
	NonWarrantableCondo    PropertyType = "NonWarrantableCondo"
	Townhouse              PropertyType = "Townhouse"
	DetachedCondo          PropertyType = "DetachedCondo"
)

var propertyTypeDisplay = map[PropertyType]string{
	SingleFamily:           "Single Family",
	Condo:                  "Condo",
	ManufacturedDoubleWide: "Manufactured Double Wide",
	Condotel:               "Condotel",
	Modular:                "Modular",
	PUD:                    "PUD",
	Timeshare:              "Timeshare",
	ManufacturedSingleWide: "Manufactured Single Wide",
	Coop:                   "Coop",
	NonWarrantableCondo:    "Non-Warrantable Condo",
	Townhouse:              "Townhouse",
	DetachedCondo:          "Detached Condo",
}

func (pt PropertyType) Display() string {
	if d, ok := propertyTypeDisplay[pt]; ok {
		return d
	}
	return string(pt)
}

// Request aggregates every input to one quote calculation. Monetary fields
// are `any` because callers supply them as plain numbers or flexible strings
// ("$500,000", "500k", "20%"); ParseAmount resolves them. At least one of
// HomePrice or LoanAmount is required. A Request is constructed fresh per
// invocation and never reused.
type Request struct {
	HomePrice           any
	LoanType            string
	Units               int
	DownPayment         any
	AnnualInterestRate  *float64
	LoanTermYears       int
	LoanAmount          any
	AnnualPropertyTax   any
	AnnualHomeInsurance any
	FICOScore           int
	VAFirstTime         *bool
	VAExempt            bool
	LTV                 any
	Occupancy           string
	PropertyType        string
	HOAFee              float64
	SecondLienAmount    any
	SecondLienType      string
	SecondLienRate      *float64
	SecondLienTermYears int
}

// ResolvedStructure is the immutable output of the structuring engine. No
// field changes after Resolve returns; the cost calculator, buydown
// generator, and formatter only read it.
type ResolvedStructure struct {
	HomePrice   float64
	DownPayment float64

	// LoanAmount includes any financed upfront MIP or VA funding fee.
	// BaseLoanAmount excludes them and is the basis for FHA MI and buydowns.
	LoanAmount     float64
	BaseLoanAmount float64

	LoanType  LoanType
	Units     int
	TermYears int

	// AnnualRate is the resolved first-lien rate as a percentage (7.0 = 7%).
	AnnualRate float64

	LTV  float64
	CLTV float64

	SecondLienAmount    float64
	SecondLienType      SecondLienType
	SecondLienRate      float64
	SecondLienTermYears int

	UpfrontMIP   float64
	VAFundingFee float64
	VAFirstTime  bool
	VAExempt     bool

	AnnualPropertyTax   float64
	AnnualHomeInsurance float64
	HOAFee              float64

	FICOScore    int
	Occupancy    Occupancy
	PropertyType PropertyType
}

// HasSecondLien reports whether a subordinate lien participates in the quote.
func (s *ResolvedStructure) HasSecondLien() bool {
	return s.SecondLienAmount > 0
}

// PaymentBreakdown holds the monthly cost components for one quote.
type PaymentBreakdown struct {
	FirstLienPI       float64
	SecondLienPayment float64
	MonthlyMI         float64
	// MIRate is the annual mortgage-insurance rate applied, as a fraction.
	MIRate           float64
	MonthlyTax       float64
	MonthlyInsurance float64
	HOAFee           float64
	Total            float64
}
