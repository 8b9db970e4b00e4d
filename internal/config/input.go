package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// validate is shared by every parser; decimals are validated as float64
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// InputParser handles parsing of scenario and regulatory files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a scenario configuration from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// LoadFromFileWithRegulatory loads a scenario file and replaces its regulatory
// data with the contents of regulatoryFile. An empty regulatoryFile behaves
// like LoadFromFile.
func (ip *InputParser) LoadFromFileWithRegulatory(filename, regulatoryFile string) (*domain.Configuration, error) {
	config, err := ip.LoadFromFile(filename)
	if err != nil {
		return nil, err
	}
	if regulatoryFile == "" {
		return config, nil
	}

	regulatory, err := ip.LoadRegulatoryConfig(regulatoryFile)
	if err != nil {
		return nil, err
	}
	config.Regulatory = regulatory
	return config, nil
}

// Parse decodes and validates a scenario configuration
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&config)

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// LoadRegulatoryConfig loads jurisdiction data from a standalone file
func (ip *InputParser) LoadRegulatoryConfig(filename string) (*domain.RegulatoryConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read regulatory file %s: %w", filename, err)
	}

	var regulatory domain.RegulatoryConfig
	if err := yaml.Unmarshal(data, &regulatory); err != nil {
		return nil, fmt.Errorf("failed to parse regulatory YAML: %w", err)
	}
	applyRegulatoryDefaults(&regulatory)

	if err := regulatory.Validate(); err != nil {
		return nil, fmt.Errorf("regulatory validation failed: %w", err)
	}
	return &regulatory, nil
}

// SaveConfiguration writes a configuration as YAML
func (ip *InputParser) SaveConfiguration(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// Regulatory returns the configuration's regulatory data or the defaults
func Regulatory(config *domain.Configuration) domain.RegulatoryConfig {
	if config != nil && config.Regulatory != nil {
		return *config.Regulatory
	}
	return domain.DefaultRegulatoryConfig()
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeValidation(err))
	}

	if config.Regulatory != nil {
		if err := config.Regulatory.Validate(); err != nil {
			return fmt.Errorf("regulatory validation failed: %w", err)
		}
	}

	seen := make(map[string]bool, len(config.Scenarios))
	for i := range config.Scenarios {
		scenario := &config.Scenarios[i]
		if seen[scenario.Name] {
			return fmt.Errorf("%w: duplicate scenario name %q", domain.ErrInvalidInput, scenario.Name)
		}
		seen[scenario.Name] = true

		if err := ip.validateScenario(scenario); err != nil {
			return fmt.Errorf("scenario %d (%s) validation failed: %w", i, scenario.Name, err)
		}
	}
	return nil
}

// validateScenario covers the rules struct tags cannot express
func (ip *InputParser) validateScenario(scenario *domain.Scenario) error {
	if c := scenario.Cascade; c != nil {
		if c.CashValueAtGift == nil && c.ValuationYear < 1 {
			return fmt.Errorf("%w: cascade needs cash_value_at_gift or valuation_year", domain.ErrInvalidInput)
		}
		if c.CashValueAtGift != nil && c.CashValueAtGift.IsNegative() {
			return fmt.Errorf("%w: cash_value_at_gift cannot be negative", domain.ErrInvalidInput)
		}
		for year, v := range c.CashValueOverrides {
			if year < 1 || v.IsNegative() {
				return fmt.Errorf("%w: cash value override for year %d is invalid", domain.ErrInvalidInput, year)
			}
		}
	}

	if p := scenario.Plan; p != nil {
		if p.RPUEnabled && p.RPUMode == domain.RPUManual.String() && p.ManualRPUYear == 0 {
			return fmt.Errorf("%w: manual RPU mode needs manual_rpu_year", domain.ErrInvalidInput)
		}
	}
	return nil
}

// applyDefaults fills optional fields with their documented defaults
func applyDefaults(config *domain.Configuration) {
	defaults := domain.DefaultReportBranding()
	if config.Report.Title == "" {
		config.Report.Title = defaults.Title
	}
	if config.Report.Tagline == "" {
		config.Report.Tagline = defaults.Tagline
	}

	for i := range config.Scenarios {
		if c := config.Scenarios[i].Cascade; c != nil && c.DonorCount == 0 {
			c.DonorCount = 1
		}
		if p := config.Scenarios[i].Plan; p != nil {
			if p.DonorCount == 0 {
				p.DonorCount = 1
			}
			if p.Strategy == "" {
				p.Strategy = domain.TaxMinimizing.String()
			}
			if p.RPUMode == "" {
				p.RPUMode = domain.RPUAuto.String()
			}
		}
	}

	if config.Regulatory != nil {
		applyRegulatoryDefaults(config.Regulatory)
	}
}

// applyRegulatoryDefaults keeps the default planning constants when a
// regulatory file only carries tax tables
func applyRegulatoryDefaults(regulatory *domain.RegulatoryConfig) {
	if reflect.ValueOf(regulatory.Planning).IsZero() {
		regulatory.Planning = domain.DefaultRegulatoryConfig().Planning
	}
}

// describeValidation flattens validator errors into one readable line
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
