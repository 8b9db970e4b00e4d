package calculation

import (
	"context"
	"testing"

	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewCalculationEngine(t *testing.T) {
	engine := NewCalculationEngine()

	assert.NotNil(t, engine, "Should create engine")
	assert.NotNil(t, engine.GiftCalc, "Should initialize gift calculator")
	assert.NotNil(t, engine.EstateCalc, "Should initialize estate calculator")
	assert.NotNil(t, engine.Cascade, "Should initialize cascade simulator")
	assert.NotNil(t, engine.Planner, "Should initialize planner")
	assert.NotNil(t, engine.Logger, "Should initialize logger")
	assert.Equal(t, 2025, engine.Regulatory.Metadata.DataYear)
}

func TestCalculationEngine_SetLogger(t *testing.T) {
	engine := NewCalculationEngine()

	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)
	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")

	_, err := engine.SimulateCascade(scenarioB())
	require.NoError(t, err)
	assert.NotEmpty(t, customLogger.messages, "Cascade should log debug steps")

	engine.SetLogger(nil)
	assert.NotNil(t, engine.Logger, "Should not be nil")
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
	assert.IsType(t, NopLogger{}, engine.Planner.Logger)
}

func TestCalculationEngine_AcceptsZapLogger(t *testing.T) {
	engine := NewCalculationEngine()
	engine.SetLogger(zap.NewNop().Sugar())

	_, err := engine.Plan(scenarioA(domain.FacePriority))
	assert.NoError(t, err)
}

func TestCalculationEngine_CustomRegulatoryConfig(t *testing.T) {
	cfg := domain.DefaultRegulatoryConfig()
	cfg.Tax.GiftDeductions.AnnualExemption = dec(5_000_000)
	engine := NewCalculationEngineWithConfig(cfg)

	schedule, err := engine.Plan(scenarioA(domain.TaxMinimizing))
	require.NoError(t, err)
	assert.True(t, schedule.TotalTax.IsZero())

	// The default engine is unaffected
	schedule, err = NewCalculationEngine().Plan(scenarioA(domain.TaxMinimizing))
	require.NoError(t, err)
	assert.True(t, schedule.TotalTax.Equal(dec(256_000)))
}

func TestCalculationEngine_PlanAllStrategies(t *testing.T) {
	schedules, err := NewCalculationEngine().PlanAllStrategies(scenarioA(domain.FaceMaximizing))
	require.NoError(t, err)
	require.Len(t, schedules, 3)
	assert.Equal(t, domain.TaxMinimizing, schedules[0].Strategy)
	assert.Equal(t, domain.FacePriority, schedules[1].Strategy)
	assert.Equal(t, domain.FaceMaximizing, schedules[2].Strategy)
	assert.True(t, schedules[1].TotalTax.Equal(dec(1_012_000)))
}

func TestCalculationEngine_CascadeInputFromScenario(t *testing.T) {
	engine := NewCalculationEngine()

	t.Run("explicit cash value", func(t *testing.T) {
		input, err := engine.CascadeInputFromScenario(&domain.CascadeScenario{
			TotalAssets: dec(200_000_000), Premium: dec(6_000_000),
			CashValueAtGift: domain.DecimalPtr(dec(2_000_000)), DonorCount: 1,
		})
		require.NoError(t, err)
		assert.True(t, input.CashValueAtGift.Equal(dec(2_000_000)))
	})

	t.Run("valued from schedule", func(t *testing.T) {
		input, err := engine.CascadeInputFromScenario(&domain.CascadeScenario{
			TotalAssets: dec(200_000_000), Premium: dec(6_000_000),
			ValuationYear: 2, DonorCount: 1,
		})
		require.NoError(t, err)
		assert.True(t, input.CashValueAtGift.Equal(dec(6_000_000)))
	})

	t.Run("valued from override", func(t *testing.T) {
		input, err := engine.CascadeInputFromScenario(&domain.CascadeScenario{
			Premium: dec(6_000_000), ValuationYear: 1, DonorCount: 1,
			CashValueOverrides: map[int]decimal.Decimal{1: dec(1_000_000)},
		})
		require.NoError(t, err)
		assert.True(t, input.CashValueAtGift.Equal(dec(1_000_000)))
	})

	t.Run("neither given", func(t *testing.T) {
		_, err := engine.CascadeInputFromScenario(&domain.CascadeScenario{Premium: dec(1), DonorCount: 1})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestPlanInputFromScenario(t *testing.T) {
	input, err := PlanInputFromScenario(&domain.PlanScenario{
		TargetAnnualPremium: dec(10_000_000),
		PerPolicyCap:        dec(5_000_000),
		Strategy:            "face_priority",
		RPUEnabled:          true,
		RPUMode:             "manual",
		ManualRPUYear:       4,
		DonorCount:          2,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.FacePriority, input.Strategy)
	assert.Equal(t, domain.RPUManual, input.RPU.Mode)
	assert.Equal(t, 4, input.RPU.ManualYear)
	assert.Equal(t, 2, input.DonorCount)

	_, err = PlanInputFromScenario(&domain.PlanScenario{Strategy: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func testConfiguration() *domain.Configuration {
	return &domain.Configuration{
		Report: domain.ReportBranding{Organization: "Example Family Office"},
		Scenarios: []domain.Scenario{
			{
				Name: "estate",
				Cascade: &domain.CascadeScenario{
					TotalAssets: dec(200_000_000), Premium: dec(6_000_000),
					CashValueAtGift: domain.DecimalPtr(dec(2_000_000)), FaceAmount: dec(30_000_000),
					DonorCount: 1, OwnershipChanged: true, FaceToGen3Directly: true,
				},
			},
			{
				Name: "gifting",
				Plan: &domain.PlanScenario{
					TargetAnnualPremium: dec(10_000_000), PerPolicyCap: dec(5_000_000),
					Strategy: "tax_minimizing", RPUEnabled: true, DonorCount: 1, CompareStrategies: true,
				},
			},
		},
	}
}

func TestCalculationEngine_RunScenarios(t *testing.T) {
	results, err := NewCalculationEngine().RunScenarios(context.Background(), testConfiguration())
	require.NoError(t, err)
	require.Len(t, results.Scenarios, 2)

	assert.Equal(t, "Example Family Office", results.Branding.Organization)

	estate := results.Scenarios[0]
	require.NotNil(t, estate.Cascade)
	assert.Nil(t, estate.Plan)
	assert.True(t, estate.Cascade.Savings.Equal(dec(720_000)))

	gifting := results.Scenarios[1]
	require.NotNil(t, gifting.Plan)
	require.NotNil(t, gifting.Capacity)
	assert.Len(t, gifting.Strategies, 3)
	assert.True(t, gifting.Plan.TotalTax.Equal(dec(256_000)))
}

func TestCalculationEngine_RunScenarios_WrapsErrors(t *testing.T) {
	config := testConfiguration()
	config.Scenarios[1].Plan.TargetAnnualPremium = decimal.Zero

	_, err := NewCalculationEngine().RunScenarios(context.Background(), config)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), `scenario "gifting"`)
}

func TestCalculationEngine_RunScenarios_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCalculationEngine().RunScenarios(ctx, testConfiguration())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculationEngine_RunScenarioAuto(t *testing.T) {
	engine := NewCalculationEngine()

	result, err := engine.RunScenarioAuto(context.Background(), testConfiguration(), 5)
	assert.Error(t, err, "Should error for invalid index")
	assert.Nil(t, result, "Should return nil result")
	assert.Contains(t, err.Error(), "scenario index 5 out of range")

	result, err = engine.RunScenarioAuto(context.Background(), testConfiguration(), 0)
	require.NoError(t, err)
	assert.Equal(t, "estate", result.Name)
}

// TestLogger is a simple logger for testing
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "DEBUG: "+format)
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "INFO: "+format)
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "WARN: "+format)
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "ERROR: "+format)
}

func TestNewValidatedCalculationEngine(t *testing.T) {
	engine, err := NewValidatedCalculationEngine(domain.DefaultRegulatoryConfig())
	require.NoError(t, err)
	schedule, err := engine.Plan(scenarioA(domain.TaxMinimizing))
	require.NoError(t, err)
	assert.True(t, schedule.TotalTax.Equal(dec(256_000)))

	tests := []struct {
		name   string
		mutate func(cfg *domain.RegulatoryConfig)
	}{
		{"bounded last gift tier", func(cfg *domain.RegulatoryConfig) {
			last := len(cfg.Tax.GiftBrackets.Brackets) - 1
			cfg.Tax.GiftBrackets.Brackets[last].UpperBound = domain.DecimalPtr(dec(500_000_000))
		}},
		{"decreasing estate bounds", func(cfg *domain.RegulatoryConfig) {
			cfg.Tax.EstateBrackets.Brackets[1].UpperBound = domain.DecimalPtr(dec(1_000))
		}},
		{"negative exemption", func(cfg *domain.RegulatoryConfig) {
			cfg.Tax.GiftDeductions.AnnualExemption = dec(-1)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.DefaultRegulatoryConfig()
			tt.mutate(&cfg)
			engine, err := NewValidatedCalculationEngine(cfg)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, engine)
		})
	}
}
