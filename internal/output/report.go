package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/krishadi/ulgo/internal/domain"
	"github.com/krishadi/ulgo/internal/solver"
)

// Formatter renders an illustration result in one output format.
type Formatter interface {
	Name() string
	Format(res *domain.IllustrationResult) ([]byte, error)
}

// NewFormatter returns the formatter for a format name.
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "console", "":
		return ConsoleFormatter{}, nil
	case "csv":
		return CSVFormatter{}, nil
	case "json":
		return JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// ConsoleFormatter renders the annual table for terminal display.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(res *domain.IllustrationResult) ([]byte, error) {
	buf := &bytes.Buffer{}

	fmt.Fprintf(buf, "Policy status: %s (last solvent age %d, last month %d)\n\n",
		res.Status, res.LastSolventAge, res.LastMonth)
	fmt.Fprintf(buf, "%4s %4s %14s %14s %12s %12s %14s %14s %14s\n",
		"Year", "Age", "Premium", "Withdrawal", "COI", "Charges", "End Balance", "Surrender", "Death Ben")
	fmt.Fprintln(buf, strings.Repeat("-", 110))

	for i := range res.Annual {
		yr := &res.Annual[i]
		fmt.Fprintf(buf, "%4d %4d %14s %14s %12s %12s %14s %14s %14s\n",
			yr.PolicyYear,
			yr.AttainedAge,
			yr.TotalPremiumYear().StringFixed(0),
			yr.WithdrawalYear.StringFixed(0),
			yr.CoiYear.StringFixed(0),
			yr.ChargesYear.StringFixed(0),
			yr.EndBalance.StringFixed(0),
			yr.SurrenderValue.StringFixed(0),
			yr.DeathBenefit.StringFixed(0),
		)
	}

	return buf.Bytes(), nil
}

// CSVFormatter emits one row per policy year for downstream tooling.
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(res *domain.IllustrationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{
		"PolicyYear", "AttainedAge", "PremiumRPP", "PremiumRTU", "LumpSum",
		"Charges", "COI", "AdminFee", "Withdrawal", "WithdrawalFees",
		"InvestmentReturn", "LoyaltyBonus", "EndBalance", "RealEndBalance",
		"SurrenderValue", "DeathBenefit", "SumAssured", "Status",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i := range res.Annual {
		yr := &res.Annual[i]
		row := []string{
			strconv.Itoa(yr.PolicyYear),
			strconv.Itoa(yr.AttainedAge),
			yr.PremiumRPPYear.StringFixed(2),
			yr.PremiumRTUYear.StringFixed(2),
			yr.LumpSumYear.StringFixed(2),
			yr.ChargesYear.StringFixed(2),
			yr.CoiYear.StringFixed(2),
			yr.AdminFeeYear.StringFixed(2),
			yr.WithdrawalYear.StringFixed(2),
			yr.WithdrawalFees.StringFixed(2),
			yr.ReturnYear.StringFixed(2),
			yr.LoyaltyYear.StringFixed(2),
			yr.EndBalance.StringFixed(2),
			yr.RealEndBalance.StringFixed(2),
			yr.SurrenderValue.StringFixed(2),
			yr.DeathBenefit.StringFixed(2),
			yr.SumAssured.StringFixed(2),
			string(yr.Status),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// JSONFormatter emits the full result, monthly rows included.
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Format(res *domain.IllustrationResult) ([]byte, error) {
	return json.MarshalIndent(res, "", "  ")
}

// FormatSolverResult renders a solver result for terminal display.
func FormatSolverResult(r *solver.Result) []byte {
	buf := &bytes.Buffer{}

	if !r.Feasible {
		fmt.Fprintf(buf, "No feasible premium found.\n%s\n", r.Message)
		return buf.Bytes()
	}

	fmt.Fprintf(buf, "Solved total annual premium: %s\n", r.TotalPremium.StringFixed(0))
	fmt.Fprintf(buf, "  RPP: %s\n", r.AnnualRPP.StringFixed(0))
	fmt.Fprintf(buf, "  RTU: %s\n", r.AnnualRTU.StringFixed(0))
	fmt.Fprintf(buf, "  %s\n", r.ConvergenceInfo)
	if !r.SolvencyConfirmed {
		fmt.Fprintf(buf, "WARNING: %s\n", r.Message)
	}
	return buf.Bytes()
}
