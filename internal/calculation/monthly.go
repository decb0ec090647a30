package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/krishadi/ulgo/internal/domain"
)

// monthState is the accumulator threaded through the simulation loop. Each
// run owns its own instance; there is no shared state between runs.
type monthState struct {
	balance        decimal.Decimal
	prevEndBalance decimal.Decimal
	sumAssured     decimal.Decimal
	status         domain.PolicyStatus

	payingMonths    int  // months spent in paying mode, gates pauses
	paidPeriods     int  // recurring collections made, gates loyalty bonus
	earlyWithdrawal bool // withdrawal during the loyalty-free years
	pausedThisYear  bool
}

func (st *monthState) lapse(cause domain.PolicyStatus) {
	st.status = st.status.Transition(cause)
	if st.balance.IsNegative() {
		st.balance = decimalZero
	}
}

// SimulateMonthly advances the policy one month at a time to maturity and
// returns the ordered record sequence, the final status, the last month
// processed while solvent, and the last solvent attained age.
//
// The step order inside each month is load-bearing: every deduction can push
// the balance negative, which lapses the policy immediately and freezes all
// later effects for that month and every following month. Negative-balance
// conditions are status transitions, never errors.
func (ce *CalculationEngine) SimulateMonthly(input *domain.PolicyInput) *domain.MonthlyResult {
	horizon := (MaturityAge - input.EntryAge) * 12
	if horizon <= 0 {
		return &domain.MonthlyResult{
			Status:         domain.StatusCompleted,
			LastSolventAge: input.EntryAge,
		}
	}

	st := &monthState{
		balance:        decimalZero,
		prevEndBalance: decimalZero,
		sumAssured:     input.InitialSumAssured,
		status:         domain.StatusActive,
	}
	monthlyReturnRate := input.AnnualReturnRate.Div(decimalTwelve)

	records := make([]domain.MonthlyRecord, 0, horizon)
	lastMonth := 0
	lastSolventAge := input.EntryAge

	for m := 1; m <= horizon; m++ {
		policyYear := (m-1)/12 + 1
		monthInYear := (m-1)%12 + 1
		attainedAge := input.EntryAge + (m-1)/12

		rec := domain.MonthlyRecord{
			PolicyYear:  policyYear,
			MonthInYear: monthInYear,
			MonthIndex:  m,
			AttainedAge: attainedAge,
		}
		zeroMonetaryFields(&rec)

		if st.status.IsLapsed() {
			// Frozen: balance pinned to zero, all flows zero.
			rec.SumAssured = st.sumAssured
			rec.DeathBenefit = st.sumAssured
			rec.Status = st.status
			records = append(records, rec)
			continue
		}

		if monthInYear == 1 {
			st.pausedThisYear = false
		}
		rec.BeginBalance = st.balance

		// Step 1: due sum-assured reduction at the start of the policy year.
		// Later matching records win; increases are ignored.
		if monthInYear == 1 {
			for _, r := range input.Reductions {
				if r.Contains(policyYear, attainedAge) && r.Amount.LessThan(st.sumAssured) {
					st.sumAssured = r.Amount
				}
			}
		}
		rec.SumAssured = st.sumAssured

		// Step 2: effective payment frequency, latest matching record wins.
		freq := input.InitialFrequency
		for _, fc := range input.FrequencyChanges {
			if fc.Contains(policyYear, attainedAge) {
				freq = fc.Frequency
			}
		}

		// Step 3: paying status for the month.
		withinTerm := policyYear <= input.PayingTermYears && attainedAge <= MaxPremiumPaymentAge
		paused := false
		if withinTerm && st.payingMonths >= MinPaidMonthsForPause {
			for _, p := range input.Pauses {
				if p.Contains(policyYear, attainedAge) {
					paused = true
					break
				}
			}
		}
		if paused {
			st.pausedThisYear = true
		}
		paying := withinTerm && !paused
		if paying {
			st.payingMonths++
		}

		// Step 4: premium collection.
		if paying {
			periods := freq.PeriodsPerYear()
			if (monthInYear-1)%freq.MonthsPerPeriod() == 0 {
				rec.RPPPaid = input.AnnualRPP.Div(decimal.NewFromInt(int64(periods)))
				rec.RTUPaid = input.AnnualRTU.Div(decimal.NewFromInt(int64(periods)))
				st.balance = st.balance.Add(rec.RPPPaid).Add(rec.RTUPaid)
				st.paidPeriods++
			}
			if monthInYear == 1 {
				for _, ls := range input.LumpSums {
					if ls.Contains(policyYear, attainedAge) {
						rec.LumpSumGross = rec.LumpSumGross.Add(ls.Amount)
					}
				}
				st.balance = st.balance.Add(rec.LumpSumGross)
			}
		}

		// Step 5: premium charges.
		rec.ChargeRPP = rec.RPPPaid.Mul(RPPChargeSchedule.RateFor(policyYear))
		rec.ChargeRTU = rec.RTUPaid.Mul(RTUChargeSchedule.RateFor(policyYear))
		rec.LumpSumFee = rec.LumpSumGross.Mul(LumpSumFeeRate)
		rec.ChargeTotal = rec.ChargeRPP.Add(rec.ChargeRTU).Add(rec.LumpSumFee)
		st.balance = st.balance.Sub(rec.ChargeTotal)
		if st.balance.IsNegative() {
			st.lapse(domain.StatusLapsedCharges)
			lastMonth = m
			finalizeLapsedMonth(&rec, st)
			records = append(records, rec)
			continue
		}

		// Step 6: cost of insurance on the amount-at-risk.
		preCOI := st.balance
		rec.CostOfInsurance = ce.costOfInsurance(preCOI, st.sumAssured, attainedAge, input.Gender)
		st.balance = st.balance.Sub(rec.CostOfInsurance)
		if st.balance.IsNegative() {
			st.lapse(domain.StatusLapsedCoiAdmin)
			lastMonth = m
			finalizeLapsedMonth(&rec, st)
			records = append(records, rec)
			continue
		}

		// Step 7: admin fee. Month one uses the net first-month premium as
		// the base; afterwards the prior month-end balance.
		adminBase := st.prevEndBalance
		if m == 1 {
			adminBase = rec.RPPPaid.Add(rec.RTUPaid).Add(rec.LumpSumGross).Sub(rec.ChargeTotal)
		}
		if adminBase.IsNegative() {
			adminBase = decimalZero
		}
		rec.AdminFee = adminBase.Mul(AdminFeeAnnualRate).Div(decimalTwelve)
		st.balance = st.balance.Sub(rec.AdminFee)
		if st.balance.IsNegative() {
			st.lapse(domain.StatusLapsedCoiAdmin)
			lastMonth = m
			finalizeLapsedMonth(&rec, st)
			records = append(records, rec)
			continue
		}

		// Step 8: planned withdrawal in the year's first month. First
		// matching record wins, clamped to the available balance.
		if monthInYear == 1 {
			requested := decimalZero
			for _, w := range input.Withdrawals {
				if w.Contains(policyYear, attainedAge) && w.Amount.IsPositive() {
					requested = w.Amount
					break
				}
			}
			if requested.IsPositive() {
				feeRate := WithdrawalFeeSchedule.RateFor(policyYear)
				if st.balance.GreaterThanOrEqual(requested) {
					rec.Withdrawal = requested
					rec.WithdrawalFee = requested.Mul(feeRate)
					st.balance = st.balance.Sub(requested).Sub(rec.WithdrawalFee)
					if st.balance.IsNegative() {
						st.lapse(domain.StatusLapsedWithdrawal)
					}
				} else {
					rec.Withdrawal = st.balance
					rec.WithdrawalFee = rec.Withdrawal.Mul(feeRate)
					st.balance = decimalZero
					st.lapse(domain.StatusLapsedWithdrawal)
				}
				if rec.Withdrawal.IsPositive() && policyYear <= LoyaltyWithdrawalFreeYears {
					st.earlyWithdrawal = true
				}
				if st.status.IsLapsed() {
					lastMonth = m
					finalizeLapsedMonth(&rec, st)
					records = append(records, rec)
					continue
				}
			}
		}

		// Step 9: investment credit on the post-withdrawal balance.
		rec.InvestmentBase = st.balance
		if rec.InvestmentBase.IsNegative() {
			rec.InvestmentBase = decimalZero
		}
		rec.InvestmentReturn = rec.InvestmentBase.Mul(monthlyReturnRate)
		st.balance = st.balance.Add(rec.InvestmentReturn)

		// Step 10: loyalty bonus in the year's twelfth month.
		if monthInYear == 12 && paying && !st.pausedThisYear && !st.earlyWithdrawal &&
			st.paidPeriods >= LoyaltyMinPaidPeriods {
			avg := trailingAverageBalance(records, st.balance, m)
			rec.LoyaltyBonus = avg.Mul(LoyaltyBonusRate)
			st.balance = st.balance.Add(rec.LoyaltyBonus)
		}

		// Step 11: finalize the month.
		if st.balance.IsNegative() {
			st.lapse(domain.StatusLapsedFinal)
			lastMonth = m
			finalizeLapsedMonth(&rec, st)
			records = append(records, rec)
			continue
		}
		rec.EndBalance = st.balance
		rec.SurrenderValue = st.balance.Mul(decimalOne.Sub(SurrenderChargeSchedule.RateFor(policyYear)))
		rec.DeathBenefit = deathBenefit(st.sumAssured, st.balance)
		rec.Status = st.status

		st.prevEndBalance = st.balance
		lastMonth = m
		lastSolventAge = attainedAge
		records = append(records, rec)
	}

	status := st.status.Transition(domain.StatusCompleted)

	return &domain.MonthlyResult{
		Records:        records,
		Status:         status,
		LastMonth:      lastMonth,
		LastSolventAge: lastSolventAge,
	}
}

// costOfInsurance charges the amount-at-risk: the larger of 1.2x sum
// assured, 1.2x the pre-COI balance, or the sum assured itself, minus the
// pre-COI balance, floored at zero, times the per-1,000 monthly rate.
func (ce *CalculationEngine) costOfInsurance(preCOIBalance, sumAssured decimal.Decimal, age int, gender domain.Gender) decimal.Decimal {
	covered := sumAssured.Mul(DeathBenefitMultiplier)
	if scaled := preCOIBalance.Mul(DeathBenefitMultiplier); scaled.GreaterThan(covered) {
		covered = scaled
	}
	if sumAssured.GreaterThan(covered) {
		covered = sumAssured
	}
	atRisk := covered.Sub(preCOIBalance)
	if atRisk.IsNegative() {
		atRisk = decimalZero
	}
	rate := ce.coiRate(age, gender)
	return atRisk.Mul(rate).Div(decimalThousand)
}

// deathBenefit is the larger of 1.2x sum assured, 1.2x the ending balance,
// or the sum assured.
func deathBenefit(sumAssured, endBalance decimal.Decimal) decimal.Decimal {
	db := sumAssured.Mul(DeathBenefitMultiplier)
	if scaled := endBalance.Mul(DeathBenefitMultiplier); scaled.GreaterThan(db) {
		db = scaled
	}
	if sumAssured.GreaterThan(db) {
		db = sumAssured
	}
	return db
}

// trailingAverageBalance averages the last twelve month-end balances, using
// the current month's pre-bonus balance as the twelfth point.
func trailingAverageBalance(records []domain.MonthlyRecord, current decimal.Decimal, month int) decimal.Decimal {
	sum := current
	count := 1
	for i := month - 2; i >= 0 && i >= month-12; i-- {
		sum = sum.Add(records[i].EndBalance)
		count++
	}
	return sum.Div(decimal.NewFromInt(int64(count)))
}

// finalizeLapsedMonth pins the lapse-month outputs: the balance is floored
// at zero, surrender value is gone, and the death benefit shows the sum
// assured.
func finalizeLapsedMonth(rec *domain.MonthlyRecord, st *monthState) {
	rec.EndBalance = decimalZero
	rec.SurrenderValue = decimalZero
	rec.SumAssured = st.sumAssured
	rec.DeathBenefit = st.sumAssured
	rec.Status = st.status
	st.prevEndBalance = decimalZero
}

// zeroMonetaryFields gives every decimal field an explicit zero so frozen
// rows and JSON output never carry uninitialized values.
func zeroMonetaryFields(rec *domain.MonthlyRecord) {
	rec.RPPPaid = decimalZero
	rec.RTUPaid = decimalZero
	rec.LumpSumGross = decimalZero
	rec.LumpSumFee = decimalZero
	rec.ChargeRPP = decimalZero
	rec.ChargeRTU = decimalZero
	rec.ChargeTotal = decimalZero
	rec.CostOfInsurance = decimalZero
	rec.AdminFee = decimalZero
	rec.Withdrawal = decimalZero
	rec.WithdrawalFee = decimalZero
	rec.BeginBalance = decimalZero
	rec.EndBalance = decimalZero
	rec.InvestmentBase = decimalZero
	rec.InvestmentReturn = decimalZero
	rec.LoyaltyBonus = decimalZero
	rec.SurrenderValue = decimalZero
	rec.DeathBenefit = decimalZero
	rec.SumAssured = decimalZero
}
