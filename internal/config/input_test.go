package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishadi/ulgo/internal/domain"
	"github.com/krishadi/ulgo/internal/solver"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_Policy(t *testing.T) {
	path := writeTempConfig(t, `
policy:
  entry_age: 30
  gender: male
  paying_term_years: 20
  initial_frequency: monthly
  initial_sum_assured: 500000000
  annual_rpp: 24000000
  annual_rtu: 6000000
  annual_return_rate: 0.05
  withdrawals:
    - basis: age
      from: 60
      to: 80
      amount: 25000000
`)

	parser := NewInputParser()
	cfg, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Policy)
	assert.Nil(t, cfg.Solve)

	p := cfg.Policy
	assert.Equal(t, 30, p.EntryAge)
	assert.Equal(t, domain.GenderMale, p.Gender)
	assert.Equal(t, domain.FrequencyMonthly, p.InitialFrequency)
	assert.True(t, p.AnnualRPP.Equal(decimal.NewFromInt(24000000)))
	assert.True(t, p.AnnualReturnRate.Equal(decimal.NewFromFloat(0.05)))

	require.Len(t, p.Withdrawals, 1)
	assert.Equal(t, domain.BasisAge, p.Withdrawals[0].Basis)
	assert.Equal(t, 60, p.Withdrawals[0].From)
	assert.Equal(t, 80, p.Withdrawals[0].To)
	assert.True(t, p.Withdrawals[0].Amount.Equal(decimal.NewFromInt(25000000)))
}

func TestLoadFromFile_Solve(t *testing.T) {
	path := writeTempConfig(t, `
solve:
  entry_age: 40
  gender: female
  paying_term_years: 20
  annual_return_rate: 0.04
  rpp_ratio: 0.8
  obligations:
    - basis: age
      from: 65
      to: 85
      amount: 30000000
`)

	parser := NewInputParser()
	cfg, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Solve)
	assert.Nil(t, cfg.Policy)

	assert.Equal(t, 40, cfg.Solve.EntryAge)
	assert.Equal(t, domain.GenderFemale, cfg.Solve.Gender)
	assert.True(t, cfg.Solve.RPPRatio.Equal(decimal.NewFromFloat(0.8)))
	require.Len(t, cfg.Solve.Obligations, 1)
}

func TestLoadFromFile_Missing(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadFromFile_MalformedYAML(t *testing.T) {
	path := writeTempConfig(t, "policy: [unbalanced")
	parser := NewInputParser()
	_, err := parser.LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidateConfiguration_RequiresSection(t *testing.T) {
	parser := NewInputParser()
	err := parser.ValidateConfiguration(&Configuration{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "either policy or solve section is required")
}

func validPolicy() *domain.PolicyInput {
	return &domain.PolicyInput{
		EntryAge:          30,
		Gender:            domain.GenderMale,
		PayingTermYears:   20,
		InitialFrequency:  domain.FrequencyAnnual,
		InitialSumAssured: decimal.NewFromInt(500000000),
		AnnualRPP:         decimal.NewFromInt(24000000),
		AnnualReturnRate:  decimal.NewFromFloat(0.05),
	}
}

func TestValidatePolicy(t *testing.T) {
	parser := NewInputParser()

	tests := []struct {
		name    string
		mutate  func(*domain.PolicyInput)
		wantErr string
	}{
		{"valid", func(p *domain.PolicyInput) {}, ""},
		{"entry age too high", func(p *domain.PolicyInput) { p.EntryAge = 81 }, "entry age"},
		{"bad gender", func(p *domain.PolicyInput) { p.Gender = "other" }, "gender"},
		{"zero term", func(p *domain.PolicyInput) { p.PayingTermYears = 0 }, "paying term"},
		{"negative rpp", func(p *domain.PolicyInput) { p.AnnualRPP = decimal.NewFromInt(-1) }, "annual RPP"},
		{"bad frequency", func(p *domain.PolicyInput) { p.InitialFrequency = "weekly" }, "frequency"},
		{
			"inverted window",
			func(p *domain.PolicyInput) {
				p.Withdrawals = []domain.WithdrawalPlan{
					{ScheduleWindow: domain.ScheduleWindow{Basis: domain.BasisAge, From: 70, To: 60}},
				}
			},
			"withdrawal 0",
		},
		{
			"bad basis",
			func(p *domain.PolicyInput) {
				p.Pauses = []domain.PausePeriod{
					{ScheduleWindow: domain.ScheduleWindow{Basis: "epoch", From: 1, To: 2}},
				}
			},
			"basis",
		},
		{
			"negative reduction",
			func(p *domain.PolicyInput) {
				p.Reductions = []domain.SumAssuredReduction{
					{
						ScheduleWindow: domain.ScheduleWindow{Basis: domain.BasisYear, From: 2, To: 2},
						Amount:         decimal.NewFromInt(-1),
					},
				}
			},
			"reduction 0",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validPolicy()
			tc.mutate(p)
			err := parser.ValidatePolicy(p)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestValidateSolveRequest(t *testing.T) {
	parser := NewInputParser()

	valid := func() *solver.SolveRequest {
		return &solver.SolveRequest{
			EntryAge:         40,
			Gender:           domain.GenderFemale,
			PayingTermYears:  20,
			AnnualReturnRate: decimal.NewFromFloat(0.04),
			RPPRatio:         decimal.NewFromInt(1),
			Obligations: []domain.WithdrawalPlan{
				{
					ScheduleWindow: domain.ScheduleWindow{Basis: domain.BasisAge, From: 65, To: 85},
					Amount:         decimal.NewFromInt(30000000),
				},
			},
		}
	}

	assert.NoError(t, parser.ValidateSolveRequest(valid()))

	noObligations := valid()
	noObligations.Obligations = nil
	err := parser.ValidateSolveRequest(noObligations)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one obligation")

	zeroAmount := valid()
	zeroAmount.Obligations[0].Amount = decimal.Zero
	err = parser.ValidateSolveRequest(zeroAmount)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount must be positive")

	badRatio := valid()
	badRatio.RPPRatio = decimal.NewFromFloat(1.2)
	err = parser.ValidateSolveRequest(badRatio)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rpp ratio")
}
