package output

import (
	"encoding/csv"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishadi/ulgo/internal/domain"
	"github.com/krishadi/ulgo/internal/solver"
)

func sampleResult() *domain.IllustrationResult {
	return &domain.IllustrationResult{
		Status:         domain.StatusCompleted,
		LastMonth:      24,
		LastSolventAge: 31,
		Annual: []domain.AnnualRecord{
			{
				PolicyYear:     1,
				AttainedAge:    30,
				Months:         12,
				PremiumRPPYear: decimal.NewFromInt(1200000),
				CoiYear:        decimal.NewFromInt(36000),
				EndBalance:     decimal.NewFromInt(450000),
				SurrenderValue: decimal.NewFromInt(90000),
				DeathBenefit:   decimal.NewFromInt(6000000),
				SumAssured:     decimal.NewFromInt(5000000),
				Status:         domain.StatusActive,
			},
			{
				PolicyYear:     2,
				AttainedAge:    31,
				Months:         12,
				PremiumRPPYear: decimal.NewFromInt(1200000),
				CoiYear:        decimal.NewFromInt(37000),
				EndBalance:     decimal.NewFromInt(1300000),
				SurrenderValue: decimal.NewFromInt(650000),
				DeathBenefit:   decimal.NewFromInt(6000000),
				SumAssured:     decimal.NewFromInt(5000000),
				Status:         domain.StatusActive,
			},
		},
	}
}

func TestNewFormatter(t *testing.T) {
	for name, want := range map[string]string{
		"":        "console",
		"console": "console",
		"csv":     "csv",
		"json":    "json",
	} {
		f, err := NewFormatter(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, f.Name())
	}

	_, err := NewFormatter("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestConsoleFormatter(t *testing.T) {
	out, err := (ConsoleFormatter{}).Format(sampleResult())
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "Policy status: completed")
	assert.Contains(t, text, "last solvent age 31")
	assert.Contains(t, text, "End Balance")

	// One header line, one rule, one row per year.
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	assert.Len(t, lines, 6)
}

func TestCSVFormatter(t *testing.T) {
	out, err := (CSVFormatter{}).Format(sampleResult())
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "PolicyYear", rows[0][0])
	assert.Equal(t, "Status", rows[0][len(rows[0])-1])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "1200000.00", rows[1][2])
	assert.Equal(t, "active", rows[2][len(rows[2])-1])
}

func TestJSONFormatter(t *testing.T) {
	out, err := (JSONFormatter{}).Format(sampleResult())
	require.NoError(t, err)

	var decoded domain.IllustrationResult
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, domain.StatusCompleted, decoded.Status)
	require.Len(t, decoded.Annual, 2)
	assert.True(t, decoded.Annual[0].PremiumRPPYear.Equal(decimal.NewFromInt(1200000)))
}

func TestFormatSolverResult(t *testing.T) {
	feasible := &solver.Result{
		Feasible:          true,
		TotalPremium:      decimal.NewFromInt(6000000),
		AnnualRPP:         decimal.NewFromInt(6000000),
		AnnualRTU:         decimal.Zero,
		ConvergenceInfo:   "converged within 10000 after 20 simulations",
		SolvencyConfirmed: true,
	}
	text := string(FormatSolverResult(feasible))
	assert.Contains(t, text, "Solved total annual premium: 6000000")
	assert.Contains(t, text, "RPP: 6000000")
	assert.NotContains(t, text, "WARNING")

	unconfirmed := *feasible
	unconfirmed.SolvencyConfirmed = false
	unconfirmed.Message = "converged premium failed the final solvency check"
	text = string(FormatSolverResult(&unconfirmed))
	assert.Contains(t, text, "WARNING")

	infeasible := &solver.Result{Feasible: false, Message: "the obligation cannot be funded"}
	text = string(FormatSolverResult(infeasible))
	assert.Contains(t, text, "No feasible premium found")
	assert.Contains(t, text, "cannot be funded")
}
