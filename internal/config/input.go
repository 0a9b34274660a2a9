package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rgehrsitz/taxpilot/internal/calculation"
	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/rgehrsitz/taxpilot/internal/strategy"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Configuration is the parsed contents of a profile file
type Configuration struct {
	// Strict rejects negative amounts instead of clamping them to zero
	Strict      bool                    `yaml:"strict"`
	Subtractors string                  `yaml:"subtractors"`
	Profile     domain.FinancialProfile `yaml:"profile"`
	Rules       strategy.Rules          `yaml:"rules"`
	Regimes     RegimeOverrides         `yaml:"regimes"`
	Scenarios   []domain.NamedProfile   `yaml:"scenarios"`

	// Warnings collects the adjustments made in lenient mode
	Warnings []string `yaml:"-"`
}

// RegimeOverrides replaces the built-in regimes when set
type RegimeOverrides struct {
	Old *domain.Regime `yaml:"old"`
	New *domain.Regime `yaml:"new"`
}

// ErrNegativeAmount is returned in strict mode for any negative amount
var ErrNegativeAmount = errors.New("amount cannot be negative")

// InputParser handles parsing of profile configuration files
type InputParser struct {
	// Strict forces strict validation regardless of the file's setting
	Strict bool
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// DefaultConfiguration returns a configuration with default rules and the
// expenses+deductions subtractor set.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Subtractors: string(calculation.SubtractExpensesAndDeductions),
		Rules:       strategy.DefaultRules(),
	}
}

// LoadFromFile loads configuration from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (*Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// LoadFromReader loads configuration from r
func (ip *InputParser) LoadFromReader(r io.Reader) (*Configuration, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return ip.Parse(data)
}

// Parse decodes data over the defaults and validates the result. Rules
// fields left out of the file keep their default values.
func (ip *InputParser) Parse(data []byte) (*Configuration, error) {
	config := DefaultConfiguration()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// ValidateConfiguration validates the loaded configuration. In lenient mode
// negative amounts are clamped to zero and recorded in Warnings.
func (ip *InputParser) ValidateConfiguration(config *Configuration) error {
	if ip.Strict {
		config.Strict = true
	}

	switch calculation.SubtractorSet(config.Subtractors) {
	case calculation.SubtractDeductions, calculation.SubtractExpensesAndDeductions:
	case "":
		config.Subtractors = string(calculation.SubtractExpensesAndDeductions)
	default:
		return fmt.Errorf("unknown subtractor set %q (valid: %s, %s)", config.Subtractors,
			calculation.SubtractDeductions, calculation.SubtractExpensesAndDeductions)
	}

	if err := ip.validateProfile("profile", &config.Profile, config); err != nil {
		return err
	}

	seen := make(map[string]bool, len(config.Scenarios))
	for i := range config.Scenarios {
		sc := &config.Scenarios[i]
		if sc.Name == "" {
			return fmt.Errorf("scenario %d: name is required", i)
		}
		if seen[sc.Name] {
			return fmt.Errorf("scenario %d: duplicate name %q", i, sc.Name)
		}
		seen[sc.Name] = true
		if err := ip.validateProfile("scenario "+sc.Name, &sc.Profile, config); err != nil {
			return err
		}
	}

	if err := config.Rules.Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}

	regimes := []struct {
		key    string
		regime *domain.Regime
	}{
		{calculation.OldRegimeKey, config.Regimes.Old},
		{calculation.NewRegimeKey, config.Regimes.New},
	}
	for _, entry := range regimes {
		key, r := entry.key, entry.regime
		if r == nil {
			continue
		}
		if err := r.Table.Validate(); err != nil {
			return fmt.Errorf("regimes.%s: %w", key, err)
		}
		if r.Key == "" {
			r.Key = key
		}
		if r.Label == "" {
			r.Label = map[string]string{
				calculation.OldRegimeKey: calculation.OldRegimeLabel,
				calculation.NewRegimeKey: calculation.NewRegimeLabel,
			}[key]
		}
	}

	return nil
}

// validateProfile checks every amount is non-negative, clamping in lenient mode
func (ip *InputParser) validateProfile(where string, p *domain.FinancialProfile, config *Configuration) error {
	amounts := []struct {
		name  string
		value *decimal.Decimal
	}{
		{"income", &p.Income},
		{"expenses", &p.Expenses},
		{"deductions", &p.Deductions},
		{"assets.property", &p.Assets.Property},
		{"assets.equipment", &p.Assets.Equipment},
		{"assets.inventory", &p.Assets.Inventory},
		{"assets.cash_and_bank", &p.Assets.CashAndBank},
		{"assets.investments", &p.Assets.Investments},
	}

	for _, a := range amounts {
		if !a.value.IsNegative() {
			continue
		}
		if config.Strict {
			return fmt.Errorf("%s: %s: %w", where, a.name, ErrNegativeAmount)
		}
		config.Warnings = append(config.Warnings, fmt.Sprintf("%s: %s %s clamped to 0", where, a.name, a.value))
		*a.value = decimal.Zero
	}

	if p.EmployeeCount < 0 {
		if config.Strict {
			return fmt.Errorf("%s: employee_count: %w", where, ErrNegativeAmount)
		}
		config.Warnings = append(config.Warnings, fmt.Sprintf("%s: employee_count %d clamped to 0", where, p.EmployeeCount))
		p.EmployeeCount = 0
	}

	return nil
}

// RegimeEngine builds a calculation engine from the configured regimes and
// subtractor set.
func (c *Configuration) RegimeEngine() (*calculation.CalculationEngine, error) {
	var oldRegime, newRegime domain.Regime
	if c.Regimes.Old != nil {
		oldRegime = *c.Regimes.Old
	}
	if c.Regimes.New != nil {
		newRegime = *c.Regimes.New
	}
	engine, err := calculation.NewCalculationEngineWithConfig(oldRegime, newRegime)
	if err != nil {
		return nil, err
	}
	if c.Subtractors != "" {
		engine.Subtractors = calculation.SubtractorSet(c.Subtractors)
	}
	return engine, nil
}
