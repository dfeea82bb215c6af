package advisor

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSplit503020(t *testing.T) {
	got := Split503020(decimal.NewFromInt(100000))

	assert.True(t, got.Salary.Equal(decimal.NewFromInt(100000)))
	assert.True(t, got.Needs.Equal(decimal.NewFromInt(50000)), "needs %s", got.Needs)
	assert.True(t, got.Wants.Equal(decimal.NewFromInt(30000)), "wants %s", got.Wants)
	assert.True(t, got.Savings.Equal(decimal.NewFromInt(20000)), "savings %s", got.Savings)
}

func TestSplit503020_SumsBackToSalary(t *testing.T) {
	salary := decimal.RequireFromString("937541")
	got := Split503020(salary)

	sum := got.Needs.Add(got.Wants).Add(got.Savings)
	assert.True(t, sum.Equal(salary), "sum %s", sum)
}

func TestRoundedSavings(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		pct      string
		multiple int64
		want     string
	}{
		{"rounds up to next thousand", "1123456", "0.2", 1000, "225000"},
		{"already a multiple", "1000000", "0.2", 1000, "200000"},
		{"hundred granularity", "123456", "0.2", 100, "24700"},
		{"fifteen percent", "200000", "0.15", 1000, "30000"},
		{"zero amount", "0", "0.2", 1000, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundedSavings(
				decimal.RequireFromString(tt.amount),
				decimal.RequireFromString(tt.pct),
				tt.multiple,
			)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestRoundedSavings_MultipleFallback(t *testing.T) {
	got := RoundedSavings(decimal.NewFromInt(1123456), decimal.RequireFromString("0.2"), 0)
	assert.True(t, got.Equal(decimal.NewFromInt(225000)), "got %s", got)
}
