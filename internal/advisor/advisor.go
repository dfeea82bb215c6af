// Package advisor computes derived budgeting advice from recorded
// movements: the 50/30/20 split of the last payroll deposit and the
// rounded monthly savings target.
package advisor

import "github.com/shopspring/decimal"

// Breakdown503020 is the classic needs/wants/savings split of a
// salary.
type Breakdown503020 struct {
	Salary  decimal.Decimal
	Needs   decimal.Decimal // 50%
	Wants   decimal.Decimal // 30%
	Savings decimal.Decimal // 20%
}

// Split503020 applies the 50/30/20 rule to a salary.
func Split503020(salary decimal.Decimal) Breakdown503020 {
	return Breakdown503020{
		Salary:  salary,
		Needs:   salary.Mul(decimal.NewFromFloat(0.5)),
		Wants:   salary.Mul(decimal.NewFromFloat(0.3)),
		Savings: salary.Mul(decimal.NewFromFloat(0.2)),
	}
}

// RoundedSavings computes pct of amount rounded up to the nearest
// multiple. With pct 0.2 and multiple 1000, a salary of 1123456 gives
// 225000.
func RoundedSavings(amount decimal.Decimal, pct decimal.Decimal, multiple int64) decimal.Decimal {
	if multiple <= 0 {
		multiple = 1000
	}
	m := decimal.NewFromInt(multiple)
	return amount.Mul(pct).Div(m).Ceil().Mul(m)
}
