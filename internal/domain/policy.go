package domain

import (
	"github.com/shopspring/decimal"
)

// Gender selects the mortality table column used for COI rates.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// PaymentFrequency is how often the recurring premium is collected.
type PaymentFrequency string

const (
	FrequencyAnnual     PaymentFrequency = "annual"
	FrequencySemiAnnual PaymentFrequency = "semiannual"
	FrequencyQuarterly  PaymentFrequency = "quarterly"
	FrequencyMonthly    PaymentFrequency = "monthly"
)

// PeriodsPerYear returns the number of premium collections per policy year.
// Unknown values fall back to annual.
func (f PaymentFrequency) PeriodsPerYear() int {
	switch f {
	case FrequencySemiAnnual:
		return 2
	case FrequencyQuarterly:
		return 4
	case FrequencyMonthly:
		return 12
	default:
		return 1
	}
}

// MonthsPerPeriod returns the gap in months between two collections.
func (f PaymentFrequency) MonthsPerPeriod() int {
	return 12 / f.PeriodsPerYear()
}

// PolicyStatus is the lifecycle state of a simulated policy.
//
// Transitions are one-directional: once any lapsed state is entered the
// policy stays lapsed for every subsequent month, and Completed is reached
// only when the horizon ends while still Active.
type PolicyStatus string

const (
	StatusActive           PolicyStatus = "active"
	StatusLapsedCharges    PolicyStatus = "lapsed_charges"
	StatusLapsedCoiAdmin   PolicyStatus = "lapsed_coi_admin"
	StatusLapsedWithdrawal PolicyStatus = "lapsed_withdrawal"
	StatusLapsedFinal      PolicyStatus = "lapsed_final"
	StatusCompleted        PolicyStatus = "completed"
)

// IsLapsed reports whether the policy has run out of money.
func (s PolicyStatus) IsLapsed() bool {
	switch s {
	case StatusLapsedCharges, StatusLapsedCoiAdmin, StatusLapsedWithdrawal, StatusLapsedFinal:
		return true
	}
	return false
}

// IsTerminal reports whether no further state change is possible.
func (s PolicyStatus) IsTerminal() bool {
	return s.IsLapsed() || s == StatusCompleted
}

// Transition returns the status after attempting to move to next. Terminal
// states are sticky: a lapsed or completed policy ignores the request.
func (s PolicyStatus) Transition(next PolicyStatus) PolicyStatus {
	if s.IsTerminal() {
		return s
	}
	return next
}

// ScheduleBasis discriminates how a schedule window is expressed.
type ScheduleBasis string

const (
	BasisAge  ScheduleBasis = "age"  // attained age, inclusive both ends
	BasisYear ScheduleBasis = "year" // policy year, inclusive both ends
)

// ScheduleWindow is the common start/end boundary carried by every schedule
// record. Both ends are inclusive.
type ScheduleWindow struct {
	Basis ScheduleBasis `yaml:"basis" json:"basis"`
	From  int           `yaml:"from" json:"from"`
	To    int           `yaml:"to" json:"to"`
}

// Contains reports whether the window covers the given policy year or
// attained age, depending on its basis.
func (w ScheduleWindow) Contains(policyYear, attainedAge int) bool {
	v := policyYear
	if w.Basis == BasisAge {
		v = attainedAge
	}
	return v >= w.From && v <= w.To
}

// PausePeriod suppresses premium payment for the months it covers.
type PausePeriod struct {
	ScheduleWindow `yaml:",inline"`
}

// SumAssuredReduction lowers the sum assured to Amount in the first month
// of any policy year the window covers. Increases are ignored.
type SumAssuredReduction struct {
	ScheduleWindow `yaml:",inline"`
	Amount         decimal.Decimal `yaml:"amount" json:"amount"`
}

// LumpSumInvestment is an ad-hoc additional investment credited in the
// first month of each covered policy year, subject to the acquisition fee.
type LumpSumInvestment struct {
	ScheduleWindow `yaml:",inline"`
	Amount         decimal.Decimal `yaml:"amount" json:"amount"`
}

// FrequencyChange switches the payment frequency for the months it covers.
// When several records match the same month the latest one in the list wins.
type FrequencyChange struct {
	ScheduleWindow `yaml:",inline"`
	Frequency      PaymentFrequency `yaml:"frequency" json:"frequency"`
}

// WithdrawalPlan requests a withdrawal of Amount in the first month of each
// covered policy year. The first matching record wins; the amount is
// clamped to the available balance.
type WithdrawalPlan struct {
	ScheduleWindow `yaml:",inline"`
	Amount         decimal.Decimal `yaml:"amount" json:"amount"`
}

// PolicyInput is the immutable per-run configuration of a simulation.
//
// The engine assumes well-formed input; validation is the caller's job
// (see internal/config).
type PolicyInput struct {
	EntryAge          int              `yaml:"entry_age" json:"entry_age"`
	Gender            Gender           `yaml:"gender" json:"gender"`
	PayingTermYears   int              `yaml:"paying_term_years" json:"paying_term_years"`
	InitialFrequency  PaymentFrequency `yaml:"initial_frequency" json:"initial_frequency"`
	InitialSumAssured decimal.Decimal  `yaml:"initial_sum_assured" json:"initial_sum_assured"`
	AnnualRPP         decimal.Decimal  `yaml:"annual_rpp" json:"annual_rpp"`
	AnnualRTU         decimal.Decimal  `yaml:"annual_rtu" json:"annual_rtu"`
	AnnualReturnRate  decimal.Decimal  `yaml:"annual_return_rate" json:"annual_return_rate"`

	Pauses           []PausePeriod         `yaml:"pauses,omitempty" json:"pauses,omitempty"`
	Reductions       []SumAssuredReduction `yaml:"reductions,omitempty" json:"reductions,omitempty"`
	LumpSums         []LumpSumInvestment   `yaml:"lump_sums,omitempty" json:"lump_sums,omitempty"`
	FrequencyChanges []FrequencyChange     `yaml:"frequency_changes,omitempty" json:"frequency_changes,omitempty"`
	Withdrawals      []WithdrawalPlan      `yaml:"withdrawals,omitempty" json:"withdrawals,omitempty"`
}

// AnnualPremium returns the combined RPP and RTU for one policy year.
func (p *PolicyInput) AnnualPremium() decimal.Decimal {
	return p.AnnualRPP.Add(p.AnnualRTU)
}
