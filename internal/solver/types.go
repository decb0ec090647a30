package solver

import (
	"github.com/shopspring/decimal"

	"github.com/krishadi/ulgo/internal/domain"
)

// SolveRequest describes a funding obligation to be financed by future
// withdrawals, plus the premium shape to search over.
type SolveRequest struct {
	EntryAge         int                     `yaml:"entry_age" json:"entry_age"`
	Gender           domain.Gender           `yaml:"gender" json:"gender"`
	Obligations      []domain.WithdrawalPlan `yaml:"obligations" json:"obligations"`
	PayingTermYears  int                     `yaml:"paying_term_years" json:"paying_term_years"`
	AnnualReturnRate decimal.Decimal         `yaml:"annual_return_rate" json:"annual_return_rate"`

	// RPPRatio is the RPP share of the total premium, in (0, 1].
	RPPRatio decimal.Decimal `yaml:"rpp_ratio" json:"rpp_ratio"`

	// SumAssured is optional; when zero a minimum coverage multiple of the
	// solved RPP is used.
	SumAssured decimal.Decimal `yaml:"sum_assured,omitempty" json:"sum_assured,omitempty"`

	// Frequency defaults to annual.
	Frequency domain.PaymentFrequency `yaml:"frequency,omitempty" json:"frequency,omitempty"`
}

// Result is the solver output. Feasible=false is a legitimate outcome, not
// an error: some input combinations simply cannot be funded.
type Result struct {
	Feasible bool `json:"feasible"`

	TotalPremium decimal.Decimal `json:"total_premium"`
	AnnualRPP    decimal.Decimal `json:"annual_rpp"`
	AnnualRTU    decimal.Decimal `json:"annual_rtu"`

	Iterations      int    `json:"iterations"`
	ConvergenceInfo string `json:"convergence_info,omitempty"`

	// SolvencyConfirmed is false when the post-convergence confirmation run
	// failed; the premium is still reported for diagnostic display.
	SolvencyConfirmed bool   `json:"solvency_confirmed"`
	Message           string `json:"message,omitempty"`

	Illustration *domain.IllustrationResult `json:"illustration,omitempty"`
}

// Options holds the hand-tuned search constants. They are named so they can
// be adjusted without touching the control flow.
type Options struct {
	// Heuristic phase: the rough estimate divides total expected
	// withdrawals by a decreasing divisor and by the paying term.
	StartDivisor decimal.Decimal
	DivisorStep  decimal.Decimal
	MinDivisor   decimal.Decimal

	// Binary-search phase.
	MaxIterations  int
	Tolerance      decimal.Decimal // currency tolerance on the total premium
	RoundIncrement decimal.Decimal // midpoints snap to this currency step

	// MinAnnualRPP is the product floor below which base coverage
	// mechanics are undefined.
	MinAnnualRPP decimal.Decimal

	// MinCoverageMultiple derives a sum assured from the annual RPP when
	// the request does not carry one.
	MinCoverageMultiple decimal.Decimal
}

// DefaultOptions returns the tuned defaults.
func DefaultOptions() Options {
	return Options{
		StartDivisor:        decimal.NewFromFloat(8.0),
		DivisorStep:         decimal.NewFromFloat(0.5),
		MinDivisor:          decimal.NewFromFloat(0.5),
		MaxIterations:       40,
		Tolerance:           decimal.NewFromInt(10000),
		RoundIncrement:      decimal.NewFromInt(1000),
		MinAnnualRPP:        decimal.NewFromInt(2400000),
		MinCoverageMultiple: decimal.NewFromInt(5),
	}
}

// SolverError reports solver misuse (bad ratio, term, ages). Expected
// infeasibility never takes this path; it is reported in Result.
type SolverError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *SolverError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *SolverError) Unwrap() error {
	return e.Cause
}
