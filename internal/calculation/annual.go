package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/krishadi/ulgo/internal/domain"
)

// AggregateAnnual reduces the monthly stream into one record per policy
// year: flows are summed, snapshots come from the year's final month. The
// assumed return rate is only used to back out a displayed investment base;
// nothing computed here feeds back into the simulation.
//
// A final year with fewer than twelve months present is aggregated as-is.
func AggregateAnnual(months []domain.MonthlyRecord, annualReturnRate decimal.Decimal) []domain.AnnualRecord {
	if len(months) == 0 {
		return nil
	}

	monthlyRate := annualReturnRate.Div(decimalTwelve)
	lastYear := months[len(months)-1].PolicyYear
	annual := make([]domain.AnnualRecord, 0, lastYear)

	var cur *domain.AnnualRecord
	for i := range months {
		m := &months[i]
		if cur == nil || m.PolicyYear != cur.PolicyYear {
			if cur != nil {
				annual = append(annual, *cur)
			}
			cur = &domain.AnnualRecord{
				PolicyYear:     m.PolicyYear,
				PremiumRPPYear: decimalZero,
				PremiumRTUYear: decimalZero,
				LumpSumYear:    decimalZero,
				ChargesYear:    decimalZero,
				CoiYear:        decimalZero,
				AdminFeeYear:   decimalZero,
				WithdrawalYear: decimalZero,
				WithdrawalFees: decimalZero,
				ReturnYear:     decimalZero,
				LoyaltyYear:    decimalZero,
			}
		}

		cur.Months++
		cur.PremiumRPPYear = cur.PremiumRPPYear.Add(m.RPPPaid)
		cur.PremiumRTUYear = cur.PremiumRTUYear.Add(m.RTUPaid)
		cur.LumpSumYear = cur.LumpSumYear.Add(m.LumpSumGross)
		cur.ChargesYear = cur.ChargesYear.Add(m.ChargeTotal)
		cur.CoiYear = cur.CoiYear.Add(m.CostOfInsurance)
		cur.AdminFeeYear = cur.AdminFeeYear.Add(m.AdminFee)
		cur.WithdrawalYear = cur.WithdrawalYear.Add(m.Withdrawal)
		cur.WithdrawalFees = cur.WithdrawalFees.Add(m.WithdrawalFee)
		cur.ReturnYear = cur.ReturnYear.Add(m.InvestmentReturn)
		cur.LoyaltyYear = cur.LoyaltyYear.Add(m.LoyaltyBonus)

		// End-of-year snapshot, overwritten until the year's last month.
		cur.AttainedAge = m.AttainedAge
		cur.EndBalance = m.EndBalance
		cur.SurrenderValue = m.SurrenderValue
		cur.DeathBenefit = m.DeathBenefit
		cur.SumAssured = m.SumAssured
		cur.Status = m.Status
		cur.RealEndBalance = deflate(m.EndBalance, m.MonthIndex)
		cur.InvestmentBase = backOutInvestmentBase(cur.ReturnYear, monthlyRate)
	}
	annual = append(annual, *cur)

	return annual
}

// deflate converts a nominal balance into a real (inflation-adjusted) one
// using the fixed monthly inflation rate compounded over elapsed months.
func deflate(amount decimal.Decimal, elapsedMonths int) decimal.Decimal {
	if amount.IsZero() || elapsedMonths <= 0 {
		return amount
	}
	factor := decimalOne.Add(MonthlyInflationRate).Pow(decimal.NewFromInt(int64(elapsedMonths)))
	return amount.Div(factor)
}

// backOutInvestmentBase derives the average balance that would have earned
// the year's credited return at the assumed monthly rate. Display only.
func backOutInvestmentBase(returnYear, monthlyRate decimal.Decimal) decimal.Decimal {
	if monthlyRate.IsZero() || returnYear.IsZero() {
		return decimalZero
	}
	return returnYear.Div(monthlyRate).Div(decimalTwelve)
}
