package output

import (
	"testing"

	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1,000"},
		{"1234567", "1,234,567"},
		{"48168900", "48,168,900"},
		{"-1234", "-1,234"},
		{"-0.4", "0"},
		{"2.5", "2"},
		{"3.5", "4"},
		{"1666666.67", "1,666,667"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatPercentageAndSigned(t *testing.T) {
	assert.Equal(t, "15.00%", FormatPercentage(decimal.RequireFromString("0.15")))
	assert.Equal(t, "+720,000", FormatSignedCurrency(d(720_000)))
	assert.Equal(t, "-720,000", FormatSignedCurrency(d(-720_000)))
	assert.Equal(t, "0", FormatSignedCurrency(decimal.Zero))
}

func TestBracketRange(t *testing.T) {
	gift := domain.DefaultRegulatoryConfig().Tax.GiftBrackets
	assert.Equal(t, "≤ 28,110,000", BracketRange(gift, 0))
	assert.Equal(t, "28,110,000 < ~ ≤ 56,210,000", BracketRange(gift, 1))
	assert.Equal(t, "> 56,210,000", BracketRange(gift, 2))

	flat := domain.TaxBracketTable{Brackets: []domain.TaxBracket{{Rate: decimal.RequireFromString("0.1")}}}
	assert.Equal(t, "all", BracketRange(flat, 0))
}
