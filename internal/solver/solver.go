package solver

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/krishadi/ulgo/internal/calculation"
	"github.com/krishadi/ulgo/internal/domain"
)

// Solver finds the minimum total premium that keeps a policy solvent under
// a funding obligation. It drives the calculation engine repeatedly inside
// a heuristic phase followed by a binary search.
type Solver struct {
	Engine  *calculation.CalculationEngine
	Options Options
	Rules   SolvencyRules
}

// NewSolver creates a solver with explicit options and rules.
func NewSolver(engine *calculation.CalculationEngine, options Options, rules SolvencyRules) *Solver {
	return &Solver{Engine: engine, Options: options, Rules: rules}
}

// NewDefaultSolver creates a solver with default options and rules.
func NewDefaultSolver(engine *calculation.CalculationEngine) *Solver {
	return NewSolver(engine, DefaultOptions(), DefaultSolvencyRules())
}

// Solve searches for the minimum feasible total premium. The returned error
// covers only misuse (bad ratio, term, ages) and context cancellation;
// infeasible inputs produce a Result with Feasible=false and a message.
func (s *Solver) Solve(ctx context.Context, req SolveRequest) (*Result, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	opts := s.Options
	horizonYears := calculation.MaturityAge - req.EntryAge
	totalObligation := s.totalObligation(req, horizonYears)
	minTotal := roundUpToIncrement(opts.MinAnnualRPP.Div(req.RPPRatio), opts.RoundIncrement)
	term := decimal.NewFromInt(int64(req.PayingTermYears))

	iterations := 0

	// Heuristic phase: the feasible region is unknown in advance, so start
	// from a coarse estimate and grow it by stepping the divisor down until
	// the predicate first passes.
	feasible := decimal.Zero
	found := false
	for d := opts.StartDivisor; d.GreaterThanOrEqual(opts.MinDivisor); d = d.Sub(opts.DivisorStep) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		trial := roundUpToIncrement(totalObligation.Div(d).Div(term), opts.RoundIncrement)
		if trial.LessThan(minTotal) {
			trial = minTotal
		}

		iterations++
		if ok, reason := s.trialRun(req, trial); ok {
			feasible = trial
			found = true
			break
		} else {
			s.Engine.Logger.Debugf("heuristic divisor %s premium %s infeasible: %s",
				d.String(), trial.StringFixed(0), reason)
		}
	}

	if !found {
		return &Result{
			Feasible:   false,
			Iterations: iterations,
			Message: fmt.Sprintf("no feasible premium found within heuristic bounds after %d trials; "+
				"the obligation cannot be funded at the assumed return rate", iterations),
		}, nil
	}

	// Binary-search phase: the heuristic's first feasible premium is the
	// ceiling, the RPP floor the bottom. Midpoints snap to round currency
	// increments, with guards against stalling on either bound.
	lo := minTotal
	hi := feasible
	for i := 0; i < opts.MaxIterations && hi.Sub(lo).GreaterThan(opts.Tolerance); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		mid := roundToIncrement(lo.Add(hi).Div(decimal.NewFromInt(2)), opts.RoundIncrement)
		if mid.LessThanOrEqual(lo) {
			mid = lo.Add(opts.RoundIncrement)
		}
		if mid.GreaterThanOrEqual(hi) {
			break
		}

		iterations++
		if ok, _ := s.trialRun(req, mid); ok {
			hi = mid
		} else {
			lo = mid
		}
	}

	// Confirmation run at the converged premium. A failure here is flagged,
	// not silently swallowed.
	input := s.buildInput(req, hi)
	illustration := s.Engine.RunIllustration(input)
	confirmed, reason := s.Rules.Evaluate(illustration.Annual, req.Obligations)

	result := &Result{
		Feasible:          true,
		TotalPremium:      hi,
		AnnualRPP:         input.AnnualRPP,
		AnnualRTU:         input.AnnualRTU,
		Iterations:        iterations,
		ConvergenceInfo:   fmt.Sprintf("converged within %s after %d simulations", opts.Tolerance.StringFixed(0), iterations),
		SolvencyConfirmed: confirmed,
		Illustration:      illustration,
	}
	if !confirmed {
		result.Message = "converged premium failed the final solvency check: " + reason
	}
	return result, nil
}

// BuildObligation constructs a withdrawal plan funding an external rider
// (e.g. future health-care premiums) between two attained ages. Rider table
// misses contribute nothing for that age.
func BuildObligation(fromAge, toAge int, gender domain.Gender, rider calculation.RiderPremiumFunc) []domain.WithdrawalPlan {
	plan := make([]domain.WithdrawalPlan, 0, toAge-fromAge+1)
	for age := fromAge; age <= toAge; age++ {
		premium, ok := rider(age, gender)
		if !ok || !premium.IsPositive() {
			continue
		}
		plan = append(plan, domain.WithdrawalPlan{
			ScheduleWindow: domain.ScheduleWindow{Basis: domain.BasisAge, From: age, To: age},
			Amount:         premium,
		})
	}
	return plan
}

func (s *Solver) validate(req SolveRequest) error {
	if req.RPPRatio.LessThanOrEqual(decimal.Zero) || req.RPPRatio.GreaterThan(decimal.NewFromInt(1)) {
		return &SolverError{Operation: "validate_request", Message: "rpp_ratio must be in (0, 1]"}
	}
	if req.PayingTermYears <= 0 {
		return &SolverError{Operation: "validate_request", Message: "paying_term_years must be positive"}
	}
	if req.EntryAge < 0 || req.EntryAge >= calculation.MaturityAge {
		return &SolverError{Operation: "validate_request",
			Message: fmt.Sprintf("entry_age must be between 0 and %d", calculation.MaturityAge-1)}
	}
	return nil
}

// totalObligation sums the planned withdrawals over the full horizon using
// the simulator's first-match rule.
func (s *Solver) totalObligation(req SolveRequest, horizonYears int) decimal.Decimal {
	total := decimal.Zero
	for year := 1; year <= horizonYears; year++ {
		age := req.EntryAge + year - 1
		total = total.Add(plannedWithdrawal(req.Obligations, year, age))
	}
	return total
}

// trialRun simulates one candidate premium and applies the predicate.
func (s *Solver) trialRun(req SolveRequest, totalPremium decimal.Decimal) (bool, string) {
	input := s.buildInput(req, totalPremium)
	res := s.Engine.RunIllustration(input)
	return s.Rules.Evaluate(res.Annual, req.Obligations)
}

// buildInput assembles a PolicyInput for a candidate total premium, split
// by the requested RPP:RTU ratio.
func (s *Solver) buildInput(req SolveRequest, totalPremium decimal.Decimal) *domain.PolicyInput {
	rpp := totalPremium.Mul(req.RPPRatio).Round(0)
	rtu := totalPremium.Sub(rpp)

	sumAssured := req.SumAssured
	if sumAssured.IsZero() {
		sumAssured = rpp.Mul(s.Options.MinCoverageMultiple)
	}
	freq := req.Frequency
	if freq == "" {
		freq = domain.FrequencyAnnual
	}

	return &domain.PolicyInput{
		EntryAge:          req.EntryAge,
		Gender:            req.Gender,
		PayingTermYears:   req.PayingTermYears,
		InitialFrequency:  freq,
		InitialSumAssured: sumAssured,
		AnnualRPP:         rpp,
		AnnualRTU:         rtu,
		AnnualReturnRate:  req.AnnualReturnRate,
		Withdrawals:       req.Obligations,
	}
}

func roundToIncrement(v, inc decimal.Decimal) decimal.Decimal {
	return v.Div(inc).Round(0).Mul(inc)
}

func roundUpToIncrement(v, inc decimal.Decimal) decimal.Decimal {
	return v.Div(inc).Ceil().Mul(inc)
}
