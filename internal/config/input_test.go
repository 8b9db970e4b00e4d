package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validScenarioYAML = `
report:
  organization: "Example Family Office"
  contact: "planning@example.com"
scenarios:
  - name: "estate comparison"
    description: "Policy-value gift versus no plan"
    cascade:
      total_assets: 200000000
      premium: 6000000
      cash_value_at_gift: 2000000
      face_amount: 30000000
      gen1_descendants: 0
      gen2_descendants: 0
      ownership_changed: true
      face_to_gen3_directly: true
  - name: "gifting schedule"
    plan:
      target_annual_premium: 10000000
      per_policy_cap: 5000000
      strategy: face_priority
      rpu_enabled: true
      compare_strategies: true
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_Valid(t *testing.T) {
	path := writeFile(t, "scenarios.yaml", validScenarioYAML)

	config, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	require.Len(t, config.Scenarios, 2)

	cascade := config.Scenarios[0].Cascade
	require.NotNil(t, cascade)
	assert.True(t, cascade.TotalAssets.Equal(decimal.NewFromInt(200_000_000)))
	require.NotNil(t, cascade.CashValueAtGift)
	assert.True(t, cascade.CashValueAtGift.Equal(decimal.NewFromInt(2_000_000)))
	assert.Equal(t, 1, cascade.DonorCount, "donor count defaults to 1")

	plan := config.Scenarios[1].Plan
	require.NotNil(t, plan)
	assert.Equal(t, "face_priority", plan.Strategy)
	assert.Equal(t, "auto", plan.RPUMode)
	assert.Equal(t, 1, plan.DonorCount)
	assert.True(t, plan.CompareStrategies)

	assert.Equal(t, "Example Family Office", config.Report.Organization)
	assert.Equal(t, domain.DefaultReportBranding().Title, config.Report.Title)
	assert.Nil(t, config.Regulatory)
	assert.Equal(t, 2025, Regulatory(config).Metadata.DataYear)
}

func TestLoadFromFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{
			name:    "no scenarios",
			content: "scenarios: []\n",
			errText: "Scenarios",
		},
		{
			name:    "scenario without name",
			content: "scenarios:\n  - plan:\n      target_annual_premium: 1\n      per_policy_cap: 1\n",
			errText: "Name",
		},
		{
			name:    "scenario without cascade or plan",
			content: "scenarios:\n  - name: empty\n",
			errText: "required_without",
		},
		{
			name: "unknown strategy",
			content: `scenarios:
  - name: bad
    plan:
      target_annual_premium: 10000000
      per_policy_cap: 5000000
      strategy: greedy
`,
			errText: "oneof",
		},
		{
			name: "zero target premium",
			content: `scenarios:
  - name: zero
    plan:
      target_annual_premium: 0
      per_policy_cap: 5000000
`,
			errText: "TargetAnnualPremium",
		},
		{
			name: "negative premium",
			content: `scenarios:
  - name: negative
    cascade:
      total_assets: 1000
      premium: -5
      cash_value_at_gift: 0
`,
			errText: "Premium",
		},
		{
			name: "missing cash value source",
			content: `scenarios:
  - name: novalue
    cascade:
      total_assets: 1000
      premium: 5
`,
			errText: "valuation_year",
		},
		{
			name: "manual rpu without year",
			content: `scenarios:
  - name: manual
    plan:
      target_annual_premium: 10000000
      per_policy_cap: 5000000
      rpu_enabled: true
      rpu_mode: manual
`,
			errText: "manual_rpu_year",
		},
		{
			name: "duplicate names",
			content: `scenarios:
  - name: same
    cascade: {total_assets: 1, premium: 0, cash_value_at_gift: 0}
  - name: same
    cascade: {total_assets: 1, premium: 0, cash_value_at_gift: 0}
`,
			errText: "duplicate",
		},
		{
			name:    "malformed yaml",
			content: "scenarios: [",
			errText: "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.yaml", tt.content)
			_, err := NewInputParser().LoadFromFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := NewInputParser().LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

const regulatoryYAML = `
metadata:
  jurisdiction: "TW"
  data_year: 2026
  description: "Hypothetical raised exemption"
tax:
  gift_brackets:
    name: gift
    brackets:
      - {upper_bound: 28110000, rate: 0.10, quick_deduction: 0}
      - {upper_bound: 56210000, rate: 0.15, quick_deduction: 1405500}
      - {rate: 0.20, quick_deduction: 4216000}
  gift_deductions:
    annual_exemption: 5000000
  estate_brackets:
    name: estate
    brackets:
      - {upper_bound: 56210000, rate: 0.10, quick_deduction: 0}
      - {upper_bound: 112420000, rate: 0.15, quick_deduction: 2810500}
      - {rate: 0.20, quick_deduction: 8431500}
  estate_deductions:
    exemption: 13330000
    spouse: 5330000
    funeral: 1380000
    per_descendant: 560000
`

func TestLoadFromFileWithRegulatory(t *testing.T) {
	scenarios := writeFile(t, "scenarios.yaml", validScenarioYAML)
	regulatory := writeFile(t, "regulatory.yaml", regulatoryYAML)

	config, err := NewInputParser().LoadFromFileWithRegulatory(scenarios, regulatory)
	require.NoError(t, err)
	require.NotNil(t, config.Regulatory)

	reg := Regulatory(config)
	assert.Equal(t, 2026, reg.Metadata.DataYear)
	assert.True(t, reg.Tax.GiftDeductions.AnnualExemption.Equal(decimal.NewFromInt(5_000_000)))
	assert.True(t, reg.Tax.GiftBrackets.Brackets[2].Unbounded())
	// Planning constants fall back to the defaults when the file omits them
	assert.True(t, reg.Planning.MaxPerPolicyPremium.Equal(decimal.NewFromInt(6_000_000)))
	assert.Equal(t, 10, reg.Planning.MaxRPUYear)

	config, err = NewInputParser().LoadFromFileWithRegulatory(scenarios, "")
	require.NoError(t, err)
	assert.Nil(t, config.Regulatory)
}

func TestLoadRegulatoryConfig_Invalid(t *testing.T) {
	broken := writeFile(t, "regulatory.yaml", `
tax:
  gift_brackets:
    name: gift
    brackets:
      - {upper_bound: 28110000, rate: 0.10, quick_deduction: 0}
      - {upper_bound: 56210000, rate: 0.15, quick_deduction: 999}
      - {rate: 0.20, quick_deduction: 4216000}
`)
	_, err := NewInputParser().LoadRegulatoryConfig(broken)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "continuity")
}

func TestSaveConfiguration_RoundTrip(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.Parse([]byte(validScenarioYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, parser.SaveConfiguration(config, path))

	reloaded, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.Scenarios[0].Name, reloaded.Scenarios[0].Name)
	assert.True(t, reloaded.Scenarios[0].Cascade.FaceAmount.Equal(decimal.NewFromInt(30_000_000)))
	assert.Equal(t, config.Scenarios[1].Plan.Strategy, reloaded.Scenarios[1].Plan.Strategy)
}
