package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/krishadi/ulgo/internal/domain"
	"github.com/krishadi/ulgo/internal/solver"
)

// Configuration is the complete input file: a policy to illustrate and/or a
// solve request.
type Configuration struct {
	Policy *domain.PolicyInput  `yaml:"policy,omitempty" json:"policy,omitempty"`
	Solve  *solver.SolveRequest `yaml:"solve,omitempty" json:"solve,omitempty"`
}

// InputParser handles parsing of input configuration files. The engine
// itself assumes well-formed input; this is the caller-side guard.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML file.
func (ip *InputParser) LoadFromFile(filename string) (*Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var config Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration.
func (ip *InputParser) ValidateConfiguration(config *Configuration) error {
	if config.Policy == nil && config.Solve == nil {
		return fmt.Errorf("either policy or solve section is required")
	}
	if config.Policy != nil {
		if err := ip.ValidatePolicy(config.Policy); err != nil {
			return fmt.Errorf("policy validation failed: %w", err)
		}
	}
	if config.Solve != nil {
		if err := ip.ValidateSolveRequest(config.Solve); err != nil {
			return fmt.Errorf("solve validation failed: %w", err)
		}
	}
	return nil
}

// ValidatePolicy validates a policy input.
func (ip *InputParser) ValidatePolicy(policy *domain.PolicyInput) error {
	if policy.EntryAge < 0 || policy.EntryAge > 80 {
		return fmt.Errorf("entry age must be between 0 and 80")
	}
	if policy.Gender != domain.GenderMale && policy.Gender != domain.GenderFemale {
		return fmt.Errorf("gender must be 'male' or 'female'")
	}
	if policy.PayingTermYears <= 0 {
		return fmt.Errorf("paying term must be positive")
	}
	if policy.AnnualRPP.LessThan(decimal.Zero) {
		return fmt.Errorf("annual RPP cannot be negative")
	}
	if policy.AnnualRTU.LessThan(decimal.Zero) {
		return fmt.Errorf("annual RTU cannot be negative")
	}
	if policy.InitialSumAssured.LessThan(decimal.Zero) {
		return fmt.Errorf("initial sum assured cannot be negative")
	}
	if policy.AnnualReturnRate.LessThan(decimal.NewFromInt(-1)) {
		return fmt.Errorf("annual return rate cannot be less than -100%%")
	}

	if policy.InitialFrequency != "" {
		if err := validateFrequency(policy.InitialFrequency); err != nil {
			return err
		}
	}
	for i, fc := range policy.FrequencyChanges {
		if err := validateFrequency(fc.Frequency); err != nil {
			return fmt.Errorf("frequency change %d: %w", i, err)
		}
		if err := validateWindow(fc.ScheduleWindow); err != nil {
			return fmt.Errorf("frequency change %d: %w", i, err)
		}
	}
	for i, p := range policy.Pauses {
		if err := validateWindow(p.ScheduleWindow); err != nil {
			return fmt.Errorf("pause %d: %w", i, err)
		}
	}
	for i, r := range policy.Reductions {
		if err := validateWindow(r.ScheduleWindow); err != nil {
			return fmt.Errorf("reduction %d: %w", i, err)
		}
		if r.Amount.LessThan(decimal.Zero) {
			return fmt.Errorf("reduction %d: amount cannot be negative", i)
		}
	}
	for i, ls := range policy.LumpSums {
		if err := validateWindow(ls.ScheduleWindow); err != nil {
			return fmt.Errorf("lump sum %d: %w", i, err)
		}
		if ls.Amount.LessThan(decimal.Zero) {
			return fmt.Errorf("lump sum %d: amount cannot be negative", i)
		}
	}
	for i, w := range policy.Withdrawals {
		if err := validateWindow(w.ScheduleWindow); err != nil {
			return fmt.Errorf("withdrawal %d: %w", i, err)
		}
		if w.Amount.LessThan(decimal.Zero) {
			return fmt.Errorf("withdrawal %d: amount cannot be negative", i)
		}
	}

	return nil
}

// ValidateSolveRequest validates a solve request.
func (ip *InputParser) ValidateSolveRequest(req *solver.SolveRequest) error {
	if req.EntryAge < 0 || req.EntryAge > 80 {
		return fmt.Errorf("entry age must be between 0 and 80")
	}
	if req.Gender != domain.GenderMale && req.Gender != domain.GenderFemale {
		return fmt.Errorf("gender must be 'male' or 'female'")
	}
	if req.PayingTermYears <= 0 {
		return fmt.Errorf("paying term must be positive")
	}
	if req.RPPRatio.LessThanOrEqual(decimal.Zero) || req.RPPRatio.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("rpp ratio must be in (0, 1]")
	}
	if len(req.Obligations) == 0 {
		return fmt.Errorf("at least one obligation record is required")
	}
	for i, w := range req.Obligations {
		if err := validateWindow(w.ScheduleWindow); err != nil {
			return fmt.Errorf("obligation %d: %w", i, err)
		}
		if w.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("obligation %d: amount must be positive", i)
		}
	}
	if req.Frequency != "" {
		if err := validateFrequency(req.Frequency); err != nil {
			return err
		}
	}
	return nil
}

func validateFrequency(f domain.PaymentFrequency) error {
	switch f {
	case domain.FrequencyAnnual, domain.FrequencySemiAnnual, domain.FrequencyQuarterly, domain.FrequencyMonthly:
		return nil
	}
	return fmt.Errorf("frequency must be 'annual', 'semiannual', 'quarterly' or 'monthly'")
}

func validateWindow(w domain.ScheduleWindow) error {
	if w.Basis != domain.BasisAge && w.Basis != domain.BasisYear {
		return fmt.Errorf("schedule basis must be 'age' or 'year'")
	}
	if w.From < 0 || w.To < w.From {
		return fmt.Errorf("schedule window must satisfy 0 <= from <= to")
	}
	return nil
}
