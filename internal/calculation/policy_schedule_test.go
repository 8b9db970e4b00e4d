package calculation

import (
	"testing"

	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPolicySchedule(t *testing.T) {
	builder := NewPolicyScheduleBuilder(domain.DefaultRegulatoryConfig().Planning)

	t.Run("cumulative premium and ratios", func(t *testing.T) {
		records, err := builder.Build(dec(6_000_000), 12, nil)
		require.NoError(t, err)
		require.Len(t, records, 12)

		for i, r := range records {
			assert.Equal(t, i+1, r.Year)
			assert.True(t, r.CumulativePremium.Equal(dec(int64(6_000_000*(i+1)))))
			assert.False(t, r.CashValue.IsNegative())
		}
		assert.True(t, records[0].CashValue.Equal(dec(1_800_000)), "got %s", records[0].CashValue)
		assert.True(t, records[1].CashValue.Equal(dec(6_000_000)), "got %s", records[1].CashValue)
		// Years past the table hold the last ratio (1.01)
		assert.True(t, records[11].CashValue.Equal(dec(72_720_000)), "got %s", records[11].CashValue)
	})

	t.Run("overrides replace ratio values", func(t *testing.T) {
		records, err := builder.Build(dec(6_000_000), 3, map[int]decimal.Decimal{2: dec(2_000_000)})
		require.NoError(t, err)
		assert.True(t, records[1].CashValue.Equal(dec(2_000_000)))
		assert.True(t, records[2].CashValue.Equal(dec(11_160_000)))
	})

	t.Run("zero premium yields zeros", func(t *testing.T) {
		records, err := builder.Build(decimal.Zero, 5, nil)
		require.NoError(t, err)
		for _, r := range records {
			assert.True(t, r.CumulativePremium.IsZero())
			assert.True(t, r.CashValue.IsZero())
		}
	})

	t.Run("invalid inputs", func(t *testing.T) {
		_, err := builder.Build(dec(-1), 3, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = builder.Build(dec(1), 0, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("no ratio table and no override", func(t *testing.T) {
		_, err := BuildPolicySchedule(domain.PolicyScheduleRequest{AnnualPremium: dec(1), HorizonYears: 2,
			Overrides: map[int]decimal.Decimal{1: dec(1)}})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
