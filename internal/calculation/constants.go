package calculation

import "github.com/shopspring/decimal"

// Product constants. These are named so an implementer can retune the
// product without touching the simulation control flow.
const (
	// MaturityAge is the attained age at which an active policy completes.
	// The horizon is (MaturityAge - entry age) months times twelve, so the
	// final simulated year runs at attained age MaturityAge-1.
	MaturityAge = 99

	// MaxPremiumPaymentAge is the last attained age at which recurring
	// premium is collected, regardless of the paying term.
	MaxPremiumPaymentAge = 99

	// MinPaidMonthsForPause is how many paying months must elapse before a
	// pause period is honored.
	MinPaidMonthsForPause = 24

	// LoyaltyMinPaidPeriods is the number of collected premium periods
	// required before the loyalty bonus is credited.
	LoyaltyMinPaidPeriods = 6

	// LoyaltyWithdrawalFreeYears: any withdrawal during the first N policy
	// years permanently disqualifies the loyalty bonus.
	LoyaltyWithdrawalFreeYears = 6
)

var (
	decimalOne      = decimal.NewFromInt(1)
	decimalZero     = decimal.Zero
	decimalTwelve   = decimal.NewFromInt(12)
	decimalThousand = decimal.NewFromInt(1000)

	// DeathBenefitMultiplier scales the sum assured and the account value
	// when deriving the death benefit and the amount-at-risk.
	DeathBenefitMultiplier = decimal.NewFromFloat(1.2)

	// AdminFeeAnnualRate is charged monthly (annual rate / 12) on the prior month-end
	// balance; in month one the base is the net first-month premium.
	AdminFeeAnnualRate = decimal.NewFromFloat(0.012)

	// LumpSumFeeRate is the flat acquisition fee on ad-hoc investments.
	LumpSumFeeRate = decimal.NewFromFloat(0.05)

	// LoyaltyBonusRate applies to the trailing-12-month average balance.
	LoyaltyBonusRate = decimal.NewFromFloat(0.005)

	// MonthlyInflationRate deflates the displayed account value in annual
	// records. Display only; it never feeds back into the simulation.
	MonthlyInflationRate = decimal.NewFromFloat(0.04).Div(decimalTwelve)
)

// TierSchedule is a four-tier by-policy-year rate schedule: year 1, year 2,
// years 3-5, and year 6 onward.
type TierSchedule struct {
	Year1     decimal.Decimal
	Year2     decimal.Decimal
	Year3to5  decimal.Decimal
	Year6Plus decimal.Decimal
}

// RateFor returns the tier rate for a 1-based policy year.
func (ts TierSchedule) RateFor(policyYear int) decimal.Decimal {
	switch {
	case policyYear <= 1:
		return ts.Year1
	case policyYear == 2:
		return ts.Year2
	case policyYear <= 5:
		return ts.Year3to5
	default:
		return ts.Year6Plus
	}
}

var (
	// RPPChargeSchedule is the premium charge on the base recurring premium.
	RPPChargeSchedule = TierSchedule{
		Year1:     decimal.NewFromFloat(0.60),
		Year2:     decimal.NewFromFloat(0.30),
		Year3to5:  decimal.NewFromFloat(0.10),
		Year6Plus: decimal.NewFromFloat(0.025),
	}

	// RTUChargeSchedule is the premium charge on the recurring top-up.
	RTUChargeSchedule = TierSchedule{
		Year1:     decimal.NewFromFloat(0.075),
		Year2:     decimal.NewFromFloat(0.05),
		Year3to5:  decimal.NewFromFloat(0.05),
		Year6Plus: decimal.NewFromFloat(0.03),
	}

	// WithdrawalFeeSchedule applies to amounts actually withdrawn.
	WithdrawalFeeSchedule = TierSchedule{
		Year1:     decimal.NewFromFloat(0.05),
		Year2:     decimal.NewFromFloat(0.04),
		Year3to5:  decimal.NewFromFloat(0.02),
		Year6Plus: decimalZero,
	}

	// SurrenderChargeSchedule converts the ending balance into the cash
	// surrender value.
	SurrenderChargeSchedule = TierSchedule{
		Year1:     decimal.NewFromFloat(0.80),
		Year2:     decimal.NewFromFloat(0.50),
		Year3to5:  decimal.NewFromFloat(0.20),
		Year6Plus: decimalZero,
	}
)
