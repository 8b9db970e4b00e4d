package calculation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func scenarioB() domain.CascadeInput {
	return domain.CascadeInput{
		TotalAssets:        dec(200_000_000),
		Premium:            dec(6_000_000),
		CashValueAtGift:    dec(2_000_000),
		FaceAmount:         dec(30_000_000),
		DonorCount:         1,
		OwnershipChanged:   true,
		FaceToGen3Directly: true,
	}
}

func TestGenerationCascadeSimulator_ScenarioB(t *testing.T) {
	sim := NewGenerationCascadeSimulator(domain.DefaultRegulatoryConfig().Tax)
	result, err := sim.Simulate(scenarioB())
	require.NoError(t, err)

	tests := []struct {
		name string
		got  decimal.Decimal
		want int64
	}{
		{"plan gift base", result.Plan.GiftBase, 0},
		{"plan gift tax", result.Plan.GiftTax, 0},
		{"no-plan gen1 assets", result.NoPlan.Gen1.AssetBase, 196_000_000},
		{"plan gen1 assets", result.Plan.Gen1.AssetBase, 194_000_000},
		{"no-plan gen1 base", result.NoPlan.Gen1.TaxableBase, 175_960_000},
		{"no-plan gen1 tax", result.NoPlan.Gen1.EstateTaxPaid, 26_760_500},
		{"plan gen1 tax", result.Plan.Gen1.EstateTaxPaid, 26_360_500},
		{"no-plan gen2 inherited", result.NoPlan.Gen2.AssetBase, 169_239_500},
		{"no-plan gen2 base", result.NoPlan.Gen2.TaxableBase, 149_199_500},
		{"no-plan gen2 tax", result.NoPlan.Gen2.EstateTaxPaid, 21_408_400},
		{"plan gen2 tax", result.Plan.Gen2.EstateTaxPaid, 21_088_400},
		{"no-plan gen3 final", result.NoPlan.Gen3Final(), 177_831_100},
		{"plan gen3 final", result.Plan.Gen3Final(), 176_551_100},
		{"no-plan total", result.NoPlan.TotalTax, 48_168_900},
		{"plan total", result.Plan.TotalTax, 47_448_900},
		{"savings", result.Savings, 720_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.got.Equal(dec(tt.want)), "want %d, got %s", tt.want, tt.got)
		})
	}
	assert.False(t, result.IsIncrease())
	assert.Equal(t, "20%", result.NoPlan.Gen1.Bracket)
}

func TestGenerationCascadeSimulator_FaceThroughGen2Estate(t *testing.T) {
	sim := NewGenerationCascadeSimulator(domain.DefaultRegulatoryConfig().Tax)
	input := scenarioB()
	input.FaceToGen3Directly = false

	result, err := sim.Simulate(input)
	require.NoError(t, err)

	assert.True(t, result.NoPlan.Gen2.TaxableBase.Equal(dec(179_199_500)))
	assert.True(t, result.NoPlan.Gen2.EstateTaxPaid.Equal(dec(27_408_400)))
	assert.True(t, result.NoPlan.Gen3Final().Equal(dec(171_831_100)))

	direct, err := sim.Simulate(scenarioB())
	require.NoError(t, err)
	assert.True(t, direct.NoPlan.Gen2.TaxableBase.LessThan(result.NoPlan.Gen2.TaxableBase))
	assert.True(t, direct.Plan.Gen2.TaxableBase.LessThan(result.Plan.Gen2.TaxableBase))
}

func TestGenerationCascadeSimulator_ZeroFaceRoutingEqual(t *testing.T) {
	sim := NewGenerationCascadeSimulator(domain.DefaultRegulatoryConfig().Tax)
	input := scenarioB()
	input.FaceAmount = decimal.Zero

	direct, err := sim.Simulate(input)
	require.NoError(t, err)
	input.FaceToGen3Directly = false
	viaEstate, err := sim.Simulate(input)
	require.NoError(t, err)

	assert.True(t, direct.NoPlan.Gen2.TaxableBase.Equal(viaEstate.NoPlan.Gen2.TaxableBase))
}

func TestGenerationCascadeSimulator_NoOwnershipChangeMatchesNoPlan(t *testing.T) {
	sim := NewGenerationCascadeSimulator(domain.DefaultRegulatoryConfig().Tax)
	input := scenarioB()
	input.OwnershipChanged = false

	result, err := sim.Simulate(input)
	require.NoError(t, err)

	ignoreBranchName := cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().String() == ".Branch"
	}, cmp.Ignore())
	if diff := cmp.Diff(result.NoPlan, result.Plan, decimalComparer, ignoreBranchName); diff != "" {
		t.Errorf("plan branch differs from no-plan (-no-plan +plan):\n%s", diff)
	}
	assert.True(t, result.Savings.IsZero())
}

func TestGenerationCascadeSimulator_GiftTaxDue(t *testing.T) {
	sim := NewGenerationCascadeSimulator(domain.DefaultRegulatoryConfig().Tax)
	input := scenarioB()
	input.CashValueAtGift = dec(12_440_000)

	result, err := sim.Simulate(input)
	require.NoError(t, err)

	assert.True(t, result.Plan.GiftBase.Equal(dec(10_000_000)))
	assert.True(t, result.Plan.GiftTax.Equal(dec(1_000_000)))
	assert.Equal(t, "10%", result.Plan.GiftBracket)
	assert.True(t, result.Plan.Gen1.AssetBase.Equal(dec(193_000_000)))
	assert.True(t, result.Plan.TotalTax.Equal(
		result.Plan.GiftTax.Add(result.Plan.Gen1.EstateTaxPaid).Add(result.Plan.Gen2.EstateTaxPaid)))
}

func TestGenerationCascadeSimulator_Descendants(t *testing.T) {
	sim := NewGenerationCascadeSimulator(domain.DefaultRegulatoryConfig().Tax)
	input := scenarioB()
	input.Gen1Descendants = 2
	input.Gen2Descendants = 3

	result, err := sim.Simulate(input)
	require.NoError(t, err)
	assert.True(t, result.NoPlan.Gen1.TaxableBase.Equal(dec(175_960_000-1_120_000)))
}

func TestGenerationCascadeSimulator_SmallEstateClampsToZero(t *testing.T) {
	sim := NewGenerationCascadeSimulator(domain.DefaultRegulatoryConfig().Tax)
	result, err := sim.Simulate(domain.CascadeInput{
		TotalAssets: dec(10_000_000), Premium: dec(1_000_000), CashValueAtGift: dec(300_000),
		DonorCount: 1, OwnershipChanged: true, FaceToGen3Directly: true,
	})
	require.NoError(t, err)
	assert.True(t, result.NoPlan.TotalTax.IsZero())
	assert.True(t, result.Plan.TotalTax.IsZero())
	assert.Equal(t, domain.NoBracket, result.Plan.Gen1.Bracket)
}

func TestGenerationCascadeSimulator_InvalidInput(t *testing.T) {
	sim := NewGenerationCascadeSimulator(domain.DefaultRegulatoryConfig().Tax)
	input := scenarioB()
	input.Premium = dec(-1)
	_, err := sim.Simulate(input)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
