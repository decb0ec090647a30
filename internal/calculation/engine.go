package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/krishadi/ulgo/internal/domain"
)

// Logger is the minimal logging surface the engine needs. The CLI installs
// a stdlib-log backed implementation; tests and library callers get NopLogger.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// CalculationEngine runs policy illustrations. It owns no UI state and
// performs no I/O; every run is independent, so one engine is safe to share
// across concurrent solver trials.
type CalculationEngine struct {
	Rates  RateTable
	Logger Logger
}

// NewCalculationEngine creates an engine with the shipped rate table.
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		Rates:  DefaultRateTable(),
		Logger: NopLogger{},
	}
}

// NewCalculationEngineWithRates creates an engine backed by a custom table.
func NewCalculationEngineWithRates(rates RateTable) *CalculationEngine {
	return &CalculationEngine{
		Rates:  rates,
		Logger: NopLogger{},
	}
}

// SetLogger replaces the engine logger. Passing nil restores NopLogger.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// RunIllustration is the stable entry point: it runs the monthly simulator
// over the full horizon, reduces the output to annual records, and returns
// both streams plus the final policy status.
func (ce *CalculationEngine) RunIllustration(input *domain.PolicyInput) *domain.IllustrationResult {
	monthly := ce.SimulateMonthly(input)
	annual := AggregateAnnual(monthly.Records, input.AnnualReturnRate)

	return &domain.IllustrationResult{
		Monthly:        monthly.Records,
		Annual:         annual,
		Status:         monthly.Status,
		LastMonth:      monthly.LastMonth,
		LastSolventAge: monthly.LastSolventAge,
	}
}

// coiRate looks up the monthly per-1,000 COI rate, clamping the age to the
// table bounds first. A miss contributes zero and is only logged; a single
// missing rate must not fail the run.
func (ce *CalculationEngine) coiRate(age int, gender domain.Gender) decimal.Decimal {
	if ce.Rates == nil {
		return decimalZero
	}
	min, max := ce.Rates.AgeBounds()
	clamped := age
	if clamped < min {
		clamped = min
	}
	if clamped > max {
		clamped = max
	}
	rate, ok := ce.Rates.MonthlyCOIRate(clamped, gender)
	if !ok {
		ce.Logger.Debugf("COI rate missing for age %d gender %s, using zero", clamped, gender)
		return decimalZero
	}
	return rate
}
