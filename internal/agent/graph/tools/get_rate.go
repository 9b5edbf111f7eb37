package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/loanx-agent/server/internal/agent/model"
	"github.com/loanx-agent/server/internal/agent/repo"
	errx "github.com/loanx-agent/server/internal/core/error"
	"github.com/loanx-agent/server/internal/quote"
	logx "github.com/loanx-agent/server/pkg/logger"
)

// ===================================
// Get Rate Tool
// ===================================

type GetRateInput struct {
	HomePrice                any      `json:"home_price,omitempty"`
	LoanType                 string   `json:"loan_type,omitempty"`
	Units                    int      `json:"units,omitempty"`
	DownPayment              any      `json:"down_payment,omitempty"`
	AnnualInterestRate       *float64 `json:"annual_interest_rate,omitempty"`
	LoanTermYears            int      `json:"loan_term_years,omitempty"`
	LoanAmount               any      `json:"loan_amount,omitempty"`
	AnnualPropertyTax        any      `json:"annual_property_tax,omitempty"`
	AnnualHomeInsurance      any      `json:"annual_home_insurance,omitempty"`
	FicoScore                int      `json:"fico_score,omitempty"`
	VAFirstTime              *bool    `json:"va_first_time,omitempty"`
	VAExempt                 bool     `json:"va_exempt,omitempty"`
	LTV                      any      `json:"ltv,omitempty"`
	Occupancy                string   `json:"occupancy,omitempty"`
	PropertyType             string   `json:"property_type,omitempty"`
	HomeownersAssociationFee float64  `json:"homeowners_association_fee,omitempty"`
	SecondLienAmount         any      `json:"second_lien_amount,omitempty"`
	SecondLienType           string   `json:"second_lien_type,omitempty"`
	SecondLienRate           *float64 `json:"second_lien_rate,omitempty"`
	SecondLienTermYears      int      `json:"second_lien_term_years,omitempty"`
}

type GetRateOutput struct {
	Report string `json:"report,omitempty"`
	Error  string `json:"error,omitempty"`
}

func createGetRateTool(calc *quote.Calculator, cache model.QuoteRepository) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolGetRate,
			Desc: "Calculate monthly mortgage payments with detailed breakdown, including support for second liens/subordinate financing. Primary tool for helping real estate professionals get instant payment quotes with current market rates, including scenarios with down payment assistance (DPA) programs and piggyback loans for MI avoidance. Requires home_price or loan_amount.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"home_price": {
					Type: "string",
					Desc: "The purchase price of the home. Accepts various formats like \"$500,000\", \"500k\", \"500 thousand\".",
				},
				"loan_type": {
					Type: "string",
					Desc: "The type of loan: 'conventional', 'fha', 'va', 'jumbo', or 'usda'. Defaults to 'conventional'.",
				},
				"units": {
					Type: "number",
					Desc: "The number of units in the property (1-4). Defaults to 1.",
				},
				"down_payment": {
					Type: "string",
					Desc: "The down payment amount. Accepts formats like \"20,000\", \"20k\", \"20 grand\", or percentages like \"20%\".",
				},
				"annual_interest_rate": {
					Type: "number",
					Desc: "The annual interest rate as a percentage. If not provided, fetches current Freddie Mac rate + 0.5%.",
				},
				"loan_term_years": {
					Type: "number",
					Desc: "The term of the loan in years. Defaults to 30 years.",
				},
				"loan_amount": {
					Type: "string",
					Desc: "The amount of the loan. Accepts various formats.",
				},
				"annual_property_tax": {
					Type: "string",
					Desc: "The annual property tax amount. Defaults to 0.65% of home price.",
				},
				"annual_home_insurance": {
					Type: "string",
					Desc: "The annual home insurance amount. Defaults to 0.2% of home price.",
				},
				"fico_score": {
					Type: "number",
					Desc: "The FICO score of the borrower. Defaults to 760.",
				},
				"va_first_time": {
					Type: "boolean",
					Desc: "For VA loans, whether this is first-time usage. Defaults to true.",
				},
				"va_exempt": {
					Type: "boolean",
					Desc: "For VA loans, whether veteran is exempt from funding fee. Defaults to false.",
				},
				"ltv": {
					Type: "string",
					Desc: "Loan-to-value ratio. Can be used instead of down payment. Accepts \"80%\" or 0.8.",
				},
				"occupancy": {
					Type: "string",
					Desc: "Property occupancy: 'PrimaryResidence', 'SecondHome', or 'InvestmentProperty'. Defaults to PrimaryResidence.",
				},
				"property_type": {
					Type: "string",
					Desc: "Property type, e.g. 'SingleFamily', 'Condo', 'Townhouse', 'PUD'. Defaults to SingleFamily.",
				},
				"homeowners_association_fee": {
					Type: "number",
					Desc: "Monthly HOA (Homeowners Association) fee. Defaults to 0.",
				},
				"second_lien_amount": {
					Type: "string",
					Desc: "Amount of second lien/subordinate financing/down payment assistance (DPA). Can be dollar amount or percentage (e.g., \"10%\" or \"50000\").",
				},
				"second_lien_type": {
					Type: "string",
					Desc: "Type of second lien: 'fully_amortized' or 'interest_only'. Defaults to 'interest_only'.",
				},
				"second_lien_rate": {
					Type: "number",
					Desc: "Annual interest rate for second lien. Defaults to first lien rate + 1.0%.",
				},
				"second_lien_term_years": {
					Type: "number",
					Desc: "Term for fully amortized second liens. Defaults to 30 years.",
				},
			}),
		},
		func(ctx context.Context, in *GetRateInput) (*GetRateOutput, error) {
			req := quote.Request{
				HomePrice:           in.HomePrice,
				LoanType:            in.LoanType,
				Units:               in.Units,
				DownPayment:         in.DownPayment,
				AnnualInterestRate:  in.AnnualInterestRate,
				LoanTermYears:       in.LoanTermYears,
				LoanAmount:          in.LoanAmount,
				AnnualPropertyTax:   in.AnnualPropertyTax,
				AnnualHomeInsurance: in.AnnualHomeInsurance,
				FICOScore:           in.FicoScore,
				VAFirstTime:         in.VAFirstTime,
				VAExempt:            in.VAExempt,
				LTV:                 in.LTV,
				Occupancy:           in.Occupancy,
				PropertyType:        in.PropertyType,
				HOAFee:              in.HomeownersAssociationFee,
				SecondLienAmount:    in.SecondLienAmount,
				SecondLienType:      in.SecondLienType,
				SecondLienRate:      in.SecondLienRate,
				SecondLienTermYears: in.SecondLienTermYears,
			}

			structure, err := calc.Resolve(ctx, req)
			if err != nil {
				// Input and validation problems are results the model can
				// relay, not tool failures.
				return &GetRateOutput{Error: errx.UserMessage(err)}, nil
			}

			if cache != nil {
				key, keyErr := repo.QuoteKey(structure)
				if keyErr == nil {
					if report, found, getErr := cache.GetReport(ctx, key); getErr == nil && found {
						return &GetRateOutput{Report: report}, nil
					}
					report := calc.Report(structure)
					if saveErr := cache.SaveReport(ctx, key, report); saveErr != nil {
						logx.Warn().Err(saveErr).Msg("failed to cache quote report")
					}
					return &GetRateOutput{Report: report}, nil
				}
				logx.Warn().Err(keyErr).Msg("failed to derive quote cache key")
			}

			return &GetRateOutput{Report: calc.Report(structure)}, nil
		},
	)
}
