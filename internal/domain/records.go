package domain

import (
	"github.com/shopspring/decimal"
)

// MonthlyRecord is one row of the simulator output, immutable once appended.
type MonthlyRecord struct {
	PolicyYear  int `json:"policy_year"`
	MonthInYear int `json:"month_in_year"`
	MonthIndex  int `json:"month_index"`
	AttainedAge int `json:"attained_age"`

	RPPPaid      decimal.Decimal `json:"rpp_paid"`
	RTUPaid      decimal.Decimal `json:"rtu_paid"`
	LumpSumGross decimal.Decimal `json:"lump_sum_gross"`
	LumpSumFee   decimal.Decimal `json:"lump_sum_fee"`

	ChargeRPP   decimal.Decimal `json:"charge_rpp"`
	ChargeRTU   decimal.Decimal `json:"charge_rtu"`
	ChargeTotal decimal.Decimal `json:"charge_total"`

	CostOfInsurance decimal.Decimal `json:"cost_of_insurance"`
	AdminFee        decimal.Decimal `json:"admin_fee"`

	Withdrawal    decimal.Decimal `json:"withdrawal"`
	WithdrawalFee decimal.Decimal `json:"withdrawal_fee"`

	BeginBalance     decimal.Decimal `json:"begin_balance"`
	EndBalance       decimal.Decimal `json:"end_balance"`
	InvestmentBase   decimal.Decimal `json:"investment_base"`
	InvestmentReturn decimal.Decimal `json:"investment_return"`
	LoyaltyBonus     decimal.Decimal `json:"loyalty_bonus"`

	SurrenderValue decimal.Decimal `json:"surrender_value"`
	DeathBenefit   decimal.Decimal `json:"death_benefit"`
	SumAssured     decimal.Decimal `json:"sum_assured"`

	Status PolicyStatus `json:"status"`
}

// AnnualRecord aggregates one policy year of monthly rows. Flows are sums
// over the year; snapshots are taken from the year's final month.
type AnnualRecord struct {
	PolicyYear  int `json:"policy_year"`
	AttainedAge int `json:"attained_age"`
	Months      int `json:"months"`

	PremiumRPPYear  decimal.Decimal `json:"premium_rpp_year"`
	PremiumRTUYear  decimal.Decimal `json:"premium_rtu_year"`
	LumpSumYear     decimal.Decimal `json:"lump_sum_year"`
	ChargesYear     decimal.Decimal `json:"charges_year"`
	CoiYear         decimal.Decimal `json:"coi_year"`
	AdminFeeYear    decimal.Decimal `json:"admin_fee_year"`
	WithdrawalYear  decimal.Decimal `json:"withdrawal_year"`
	WithdrawalFees  decimal.Decimal `json:"withdrawal_fees"`
	ReturnYear      decimal.Decimal `json:"return_year"`
	LoyaltyYear     decimal.Decimal `json:"loyalty_year"`
	InvestmentBase  decimal.Decimal `json:"investment_base"`
	EndBalance      decimal.Decimal `json:"end_balance"`
	RealEndBalance  decimal.Decimal `json:"real_end_balance"`
	SurrenderValue  decimal.Decimal `json:"surrender_value"`
	DeathBenefit    decimal.Decimal `json:"death_benefit"`
	SumAssured      decimal.Decimal `json:"sum_assured"`
	Status          PolicyStatus    `json:"status"`
}

// TotalPremiumYear returns all money paid in during the year, gross of fees.
func (ar *AnnualRecord) TotalPremiumYear() decimal.Decimal {
	return ar.PremiumRPPYear.Add(ar.PremiumRTUYear).Add(ar.LumpSumYear)
}

// MonthlyResult is the complete output of one simulator run.
type MonthlyResult struct {
	Records        []MonthlyRecord `json:"records"`
	Status         PolicyStatus    `json:"status"`
	LastMonth      int             `json:"last_month"`
	LastSolventAge int             `json:"last_solvent_age"`
}

// IllustrationResult combines both projection granularities plus metadata.
// It is the stable entry point consumed by the solver and by callers.
type IllustrationResult struct {
	Monthly        []MonthlyRecord `json:"monthly"`
	Annual         []AnnualRecord  `json:"annual"`
	Status         PolicyStatus    `json:"status"`
	LastMonth      int             `json:"last_month"`
	LastSolventAge int             `json:"last_solvent_age"`
}

// FinalBalance returns the account value at the end of the projection.
func (ir *IllustrationResult) FinalBalance() decimal.Decimal {
	if len(ir.Annual) == 0 {
		return decimal.Zero
	}
	return ir.Annual[len(ir.Annual)-1].EndBalance
}
