package solver

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/krishadi/ulgo/internal/calculation"
	"github.com/krishadi/ulgo/internal/domain"
)

// SolvencyRules is the rule set a simulated policy must satisfy to count as
// successfully funding its obligations. All rules must hold.
type SolvencyRules struct {
	// TargetAge the projection must reach while solvent.
	TargetAge int

	// TerminalFloor: reaching TargetAge with a near-zero balance is itself
	// a failure.
	TerminalFloor decimal.Decimal

	// NegativeTolerance on per-year ending balances.
	NegativeTolerance decimal.Decimal

	// WithdrawalTolerance when comparing actual withdrawals to the plan.
	WithdrawalTolerance decimal.Decimal

	// ExhaustionThreshold: a short or zero withdrawal is acceptable only
	// when the year's ending balance is below this.
	ExhaustionThreshold decimal.Decimal

	// MinValueAge and MinValueFloor: from MinValueAge onward the ending
	// balance must not fall below the floor.
	MinValueAge   int
	MinValueFloor decimal.Decimal
}

// DefaultSolvencyRules returns the product defaults.
func DefaultSolvencyRules() SolvencyRules {
	return SolvencyRules{
		TargetAge:           calculation.MaturityAge,
		TerminalFloor:       decimal.NewFromInt(1000),
		NegativeTolerance:   decimal.NewFromInt(1),
		WithdrawalTolerance: decimal.NewFromInt(1),
		ExhaustionThreshold: decimal.NewFromInt(1000),
		MinValueAge:         60,
		MinValueFloor:       decimal.NewFromInt(1500000),
	}
}

// Evaluate checks an annual stream against the withdrawal plan. It returns
// false with a human-readable reason on the first rule violation.
func (r SolvencyRules) Evaluate(annual []domain.AnnualRecord, plan []domain.WithdrawalPlan) (bool, string) {
	if len(annual) == 0 {
		return false, "empty projection"
	}

	last := annual[len(annual)-1]
	if last.Status.IsLapsed() {
		return false, fmt.Sprintf("policy lapsed (%s) in year %d at age %d", last.Status, lapseYear(annual), last.AttainedAge)
	}
	if last.AttainedAge+1 < r.TargetAge {
		return false, fmt.Sprintf("projection ends at age %d, before target age %d", last.AttainedAge, r.TargetAge)
	}
	if last.EndBalance.LessThan(r.TerminalFloor) {
		return false, fmt.Sprintf("terminal balance %s below floor %s", last.EndBalance.StringFixed(0), r.TerminalFloor.StringFixed(0))
	}

	for i := range annual {
		yr := &annual[i]

		if yr.EndBalance.LessThan(r.NegativeTolerance.Neg()) {
			return false, fmt.Sprintf("negative balance %s in policy year %d", yr.EndBalance.StringFixed(0), yr.PolicyYear)
		}

		planned := plannedWithdrawal(plan, yr.PolicyYear, yr.AttainedAge)
		if planned.IsPositive() {
			diff := yr.WithdrawalYear.Sub(planned).Abs()
			if diff.GreaterThan(r.WithdrawalTolerance) && yr.EndBalance.GreaterThan(r.ExhaustionThreshold) {
				return false, fmt.Sprintf("year %d withdrew %s of planned %s with funds remaining",
					yr.PolicyYear, yr.WithdrawalYear.StringFixed(0), planned.StringFixed(0))
			}
		}

		if yr.AttainedAge >= r.MinValueAge && yr.EndBalance.LessThan(r.MinValueFloor) {
			return false, fmt.Sprintf("year %d (age %d) balance %s below minimum-value floor %s",
				yr.PolicyYear, yr.AttainedAge, yr.EndBalance.StringFixed(0), r.MinValueFloor.StringFixed(0))
		}
	}

	return true, ""
}

// plannedWithdrawal mirrors the simulator tie-break: first matching record
// wins.
func plannedWithdrawal(plan []domain.WithdrawalPlan, policyYear, attainedAge int) decimal.Decimal {
	for _, w := range plan {
		if w.Contains(policyYear, attainedAge) && w.Amount.IsPositive() {
			return w.Amount
		}
	}
	return decimal.Zero
}

func lapseYear(annual []domain.AnnualRecord) int {
	for i := range annual {
		if annual[i].Status.IsLapsed() {
			return annual[i].PolicyYear
		}
	}
	return annual[len(annual)-1].PolicyYear
}
